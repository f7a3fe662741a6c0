package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// MessageResponse is the confirmation body returned by update and delete
type MessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Project updated successfully"`
}

// HealthResponse reports liveness and store reachability
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Projects  int64  `json:"projects"`
}
