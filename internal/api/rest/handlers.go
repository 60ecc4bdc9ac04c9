package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fortuna/danglers/internal/message"
	"github.com/fortuna/danglers/internal/notify"
	"github.com/fortuna/danglers/internal/scheduler"
	"github.com/fortuna/danglers/internal/service"
)

// maxDocumentBytes caps uploaded result documents
const maxDocumentBytes = 2 << 20

// Reminders is the part of the scheduler the API drives
type Reminders interface {
	Fire(ctx context.Context) int
	Status() scheduler.Status
}

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

// Handler contains dependencies for HTTP handlers
type Handler struct {
	games     *service.GameService
	reminders Reminders
	checks    map[string]HealthCheck
}

// NewHandler creates a new handler
func NewHandler(games *service.GameService, reminders Reminders, checks map[string]HealthCheck) *Handler {
	return &Handler{
		games:     games,
		reminders: reminders,
		checks:    checks,
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	respondJSON(w, status, map[string]interface{}{
		"status":       state,
		"service":      "danglers",
		"team":         h.games.Team(),
		"dependencies": deps,
	})
}

// GetGames returns the whole schedule
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	texts, _ := h.games.ListText(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(games),
		"games":    games,
		"messages": texts,
	})
}

// GetNextGame returns the next upcoming game
func (h *Handler) GetNextGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.NextGame(r.Context())
	if errors.Is(err, service.ErrNoGame) {
		respondError(w, http.StatusNotFound, message.NoUpcoming, nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game":    game,
		"message": message.Invite(game),
	})
}

// GetPreviousGame returns the most recent past game
func (h *Handler) GetPreviousGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.PreviousGame(r.Context())
	if errors.Is(err, service.ErrNoGame) {
		respondError(w, http.StatusNotFound, message.NoPrevious, nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game":    game,
		"message": message.Invite(game),
	})
}

// GetPreviousRecap fetches and renders the recap of the most recent game.
// With ?announce=true the recap is also posted to the team channel.
func (h *Handler) GetPreviousRecap(w http.ResponseWriter, r *http.Request) {
	recap, err := h.games.PreviousRecap(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build recap", err)
		return
	}

	if announce, _ := strconv.ParseBool(r.URL.Query().Get("announce")); announce && recap.Fetched {
		subject := ""
		if recap.Game != nil {
			subject = recap.Game.Opponent
		}
		if _, err := h.games.Announce(r.Context(), notify.KindRecap, subject, recap.Text); err != nil {
			respondError(w, http.StatusBadGateway, "Failed to announce recap", err)
			return
		}
	}

	respondJSON(w, http.StatusOK, recap)
}

// PostRecap renders a recap from the posted result document
func (h *Handler) PostRecap(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read document", err)
		return
	}

	recap, err := h.games.RecapDocument(string(body), r.URL.Query().Get("opponent"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid document", err)
		return
	}

	respondJSON(w, http.StatusOK, recap)
}

// RunReminders fires the reminder check immediately
func (h *Handler) RunReminders(w http.ResponseWriter, r *http.Request) {
	sent := h.reminders.Fire(r.Context())
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Reminder check complete",
		"sent":    sent,
	})
}

// GetSchedulerStatus reports the reminder schedule
func (h *Handler) GetSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reminders.Status())
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
