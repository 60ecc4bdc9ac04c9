package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fortuna/danglers/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Server represents the REST API server
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

// NewServer creates a new REST API server
func NewServer(port string, handler *Handler, m *metrics.Metrics, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "rest").Logger()

	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           NewRouter(handler, m, logger),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter wires routes and middleware
func NewRouter(handler *Handler, m *metrics.Metrics, logger zerolog.Logger) http.Handler {
	router := mux.NewRouter()

	router.Use(LoggingMiddleware(logger))
	router.Use(MetricsMiddleware(m))
	router.Use(RecoveryMiddleware)

	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	router.Handle("/metrics", m.Handler()).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	// Schedule
	api.HandleFunc("/games", handler.GetGames).Methods("GET")
	api.HandleFunc("/games/next", handler.GetNextGame).Methods("GET")
	api.HandleFunc("/games/previous", handler.GetPreviousGame).Methods("GET")
	api.HandleFunc("/games/previous/recap", handler.GetPreviousRecap).Methods("GET")

	// Recaps
	api.HandleFunc("/recap", handler.PostRecap).Methods("POST")

	// Reminders
	api.HandleFunc("/reminders/run", handler.RunReminders).Methods("POST")
	api.HandleFunc("/scheduler/status", handler.GetSchedulerStatus).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}

// Start starts the REST API server
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("rest server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
