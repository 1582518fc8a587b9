package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/engine"
)

// ConfigApplier exposes the running engine configuration.
type ConfigApplier interface {
	EngineConfig() engine.Config
	ApplyConfig(engine.Config) error
}

// ConfigHandler serves /api/config.
type ConfigHandler struct {
	app ConfigApplier
}

// NewConfigHandler creates a ConfigHandler for app.
func NewConfigHandler(app ConfigApplier) *ConfigHandler {
	return &ConfigHandler{app: app}
}

// ServeHTTP returns the configuration on GET and applies a partial update
// on PUT. Fields missing from the PUT body keep their current values.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.app.EngineConfig())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConfigHandler) update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body bytes.Buffer
	if _, err := body.ReadFrom(r.Body); err != nil {
		writeError(w, readErrorStatus(err), "Failed to read body")
		return
	}

	cfg := h.app.EngineConfig()
	if err := json.Unmarshal(body.Bytes(), &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.app.ApplyConfig(cfg); err != nil {
		if errors.Is(err, engine.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to apply config")
		return
	}

	writeJSON(w, http.StatusOK, h.app.EngineConfig())
}
