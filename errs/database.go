package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDatabaseQuery       = errors.New("database query failed")
	ErrDatabaseConnection  = errors.New("database connection failed")
	ErrUnsupportedDatabase = errors.New("unsupported database type")
)

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// NewDatabaseError reports a failed store operation as a 500 that keeps the driver error as its cause.
// Errors that already carry a status are returned unchanged.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	sentinel := ErrDatabaseQuery
	if isConnectionFailure(cause) {
		sentinel = ErrDatabaseConnection
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        sentinel,
		Details:    fmt.Sprintf("Failed to %s %s", operation, entity),
		Cause:      cause,
	}
}

func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "bad connection") ||
		strings.Contains(errStr, "database is closed")
}

func NewUnsupportedDatabaseError(dbType string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUnsupportedDatabase,
		Details:    fmt.Sprintf("DB_TYPE %q is not supported", dbType),
		Field:      "DB_TYPE",
	}
}

func IsUnsupportedDatabaseError(err error) bool {
	return errors.Is(err, ErrUnsupportedDatabase)
}

// NewDatabaseUnavailableError is the health check's answer when the store cannot be reached
func NewDatabaseUnavailableError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrDatabaseConnection,
		Details:    "Unable to connect to database",
		Cause:      cause,
	}
}
