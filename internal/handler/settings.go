package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/websocket"
)

type SettingsHandler struct {
	store  *store.SettingsStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewSettingsHandler(s *store.SettingsStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{store: s, hub: hub, logger: logger}
}

func (h *SettingsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetAll()
	if err != nil {
		h.logger.Error("get settings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Update upserts the submitted keys. Only known prefixes are accepted so a
// typo cannot silently grow the settings table.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req) == 0 {
		writeError(w, http.StatusBadRequest, "no settings provided")
		return
	}

	for key := range req {
		if !strings.HasPrefix(key, "display_") && !strings.HasPrefix(key, "reminder_") {
			writeError(w, http.StatusBadRequest, "unknown setting: "+key)
			return
		}
	}

	for key, value := range req {
		if err := h.store.Set(key, value); err != nil {
			h.logger.Error("set setting", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	h.hub.Notify("settings", websocket.ActionUpdated, 0)

	settings, err := h.store.GetAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
