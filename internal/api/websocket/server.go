package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fortuna/danglers/internal/notify"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Notifications carry nothing beyond what the team channel already shows
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server pushes every notification to connected websocket clients
type Server struct {
	server *http.Server
	hub    *Hub
	logger zerolog.Logger
}

// NewServer creates a new WebSocket server
func NewServer(port string, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "websocket").Logger()
	s := &Server{
		hub:    NewHub(logger),
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/notifications", s.handleNotifications)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}
	return s
}

// Handler exposes the routes without a listener
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the hub and serves until Shutdown
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	s.logger.Info().Str("addr", s.server.Addr).Msg("websocket server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"clients": s.hub.ClientCount(),
	})
}

// Send broadcasts n as JSON to every connected client
func (s *Server) Send(ctx context.Context, n notify.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}
	return s.hub.Broadcast(ctx, data)
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	return s.hub.ClientCount()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
