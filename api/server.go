package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-tracker-backend/config"
	"github.com/rpupo63/portfolio-tracker-backend/database"
	"github.com/rpupo63/portfolio-tracker-backend/errs"
	"github.com/rs/zerolog/log"
)

const (
	defaultPort           = 5000
	defaultTimeoutSeconds = 180
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, c map[string]string) (Server, error) {
	port, err := config.GetInt(c, "PORT", defaultPort)
	if err != nil {
		return Server{}, err
	}
	if port < 1 || port > 65535 {
		return Server{}, errs.NewConfigError("PORT", fmt.Errorf("port %d out of range", port))
	}
	address := net.JoinHostPort("0.0.0.0", strconv.Itoa(port)) // Bind to 0.0.0.0 for external access

	readTimeout, err := timeoutSetting(c, "READ_TIMEOUT_SECONDS")
	if err != nil {
		return Server{}, err
	}
	writeTimeout, err := timeoutSetting(c, "WRITE_TIMEOUT_SECONDS")
	if err != nil {
		return Server{}, err
	}
	idleTimeout, err := timeoutSetting(c, "IDLE_TIMEOUT_SECONDS")
	if err != nil {
		return Server{}, err
	}

	startupTime := time.Now()

	router := newRouter(database, withConfig(c), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

func timeoutSetting(c map[string]string, key string) (time.Duration, error) {
	seconds, err := config.GetInt(c, key, defaultTimeoutSeconds)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	metrics     *Metrics
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withMetrics(metrics *Metrics) func(*router) {
	return func(r *router) {
		r.metrics = metrics
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}
	if router.metrics == nil {
		router.metrics = NewMetrics()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(RequestIDMiddleware)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(router.metrics.Middleware)

	handlers := initializeHandlers(database, router.metrics, router.startupTime)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS", []string{"*"})
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	setupProjectRoutes(chiRouter, handlers)
	chiRouter.Method(http.MethodGet, "/metrics", router.metrics.Handler())

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	log.Info().Msgf("API endpoints available at http://%s/api/projects", s.Addr)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		errChannel <- err
	}
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
