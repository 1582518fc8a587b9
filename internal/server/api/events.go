package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

const defaultEventLimit = 100

// EventHandler serves the recorded gesture event log.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates an EventHandler with the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type eventResponse struct {
	ID          int64   `json:"id"`
	SessionID   string  `json:"session_id"`
	Kind        string  `json:"kind"`
	Pose        string  `json:"pose"`
	Hand        string  `json:"hand"`
	TimestampMs int64   `json:"timestamp_ms"`
	Confidence  float64 `json:"confidence"`
	CreatedAt   string  `json:"created_at"`
}

type listEventsResponse struct {
	SessionID string          `json:"session_id"`
	Events    []eventResponse `json:"events"`
	Counts    map[string]int  `json:"counts"`
}

type listSessionsResponse struct {
	Sessions []string `json:"sessions"`
}

// ServeHTTP handles GET /api/events. With ?session= it lists that
// session's events in logged order, bounded by ?limit=; without it, it lists
// the known sessions.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := r.URL.Query().Get("session")
	if session == "" {
		sessions, err := h.store.Events().Sessions()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list sessions")
			return
		}
		if sessions == nil {
			sessions = []string{}
		}
		writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
		return
	}

	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.store.Events().ListBySession(session, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}
	counts, err := h.store.Events().CountByKind(session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}

	response := listEventsResponse{
		SessionID: session,
		Events:    make([]eventResponse, 0, len(records)),
		Counts:    counts,
	}
	for _, e := range records {
		response.Events = append(response.Events, eventResponse{
			ID:          e.ID,
			SessionID:   e.SessionID,
			Kind:        e.Kind,
			Pose:        e.Pose,
			Hand:        e.Hand,
			TimestampMs: e.TimestampMs,
			Confidence:  e.Confidence,
			CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
