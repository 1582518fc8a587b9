package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// PluginResolver looks up a plugin able to run an action.
type PluginResolver interface {
	Resolve(name, action string) (*plugin.Plugin, error)
}

// BindingHandler handles HTTP requests for event-to-action bindings.
type BindingHandler struct {
	store   *store.Store
	plugins PluginResolver
	kinds   []string
}

// NewBindingHandler creates a BindingHandler. When plugins is nil, plugin
// and action names are not checked.
func NewBindingHandler(s *store.Store, plugins PluginResolver) *BindingHandler {
	return &BindingHandler{
		store:   s,
		plugins: plugins,
		kinds:   gesture.EventKinds(gesture.Priority),
	}
}

// ServeHTTP routes /api/bindings and /api/bindings/{id}.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createBindingRequest struct {
	EventKind  string          `json:"event_kind"`
	Hand       string          `json:"hand"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
}

type updateBindingRequest struct {
	EventKind  string          `json:"event_kind"`
	Hand       *string         `json:"hand"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type bindingResponse struct {
	ID         string          `json:"id"`
	EventKind  string          `json:"event_kind"`
	Hand       string          `json:"hand"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  string          `json:"created_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	config := b.Config
	if config == nil {
		config = json.RawMessage("{}")
	}
	return bindingResponse{
		ID:         b.ID,
		EventKind:  b.EventKind,
		Hand:       b.Hand,
		PluginName: b.PluginName,
		ActionName: b.ActionName,
		Config:     config,
		Enabled:    b.Enabled,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

// validate checks a binding's fields and returns a client-facing message,
// or "" when the binding is acceptable.
func (h *BindingHandler) validate(b *store.Binding) string {
	if b.EventKind == "" {
		return "event_kind is required"
	}
	if !slices.Contains(h.kinds, b.EventKind) {
		return "Unknown event kind: " + b.EventKind
	}
	switch landmark.Handedness(b.Hand) {
	case "", landmark.Left, landmark.Right:
	default:
		return "hand must be empty, Left or Right"
	}
	if b.PluginName == "" {
		return "plugin_name is required"
	}
	if b.ActionName == "" {
		return "action_name is required"
	}
	if !json.Valid(b.Config) {
		return "config must be valid JSON"
	}
	if h.plugins != nil {
		if _, err := h.plugins.Resolve(b.PluginName, b.ActionName); err != nil {
			return err.Error()
		}
	}
	return ""
}

// list handles GET /api/bindings.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toBindingResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/bindings/{id}.
func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// create handles POST /api/bindings.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, readErrorStatus(err), "Invalid JSON")
		return
	}

	config := req.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	b := &store.Binding{
		EventKind:  req.EventKind,
		Hand:       req.Hand,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     config,
		Enabled:    true,
	}
	if msg := h.validate(b); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Bindings().Create(b); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "A binding already exists for this event and hand")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	writeJSON(w, http.StatusCreated, toBindingResponse(b))
}

// update handles PUT /api/bindings/{id}. Omitted fields keep their values.
func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	var req updateBindingRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, readErrorStatus(err), "Invalid JSON")
		return
	}

	if req.EventKind != "" {
		b.EventKind = req.EventKind
	}
	if req.Hand != nil {
		b.Hand = *req.Hand
	}
	if req.PluginName != "" {
		b.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		b.ActionName = req.ActionName
	}
	if req.Config != nil {
		b.Config = req.Config
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}

	if msg := h.validate(b); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Bindings().Update(b); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "A binding already exists for this event and hand")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// delete handles DELETE /api/bindings/{id}.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Bindings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
