package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/backup"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
)

// BackupHandler exposes the backup manager over the API.
type BackupHandler struct {
	manager *backup.Manager
	store   *store.BackupStore
	logger  *slog.Logger
}

func NewBackupHandler(m *backup.Manager, s *store.BackupStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, store: s, logger: logger}
}

// Status returns the manager state and the latest backup record.
func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	latest, err := h.store.Latest()
	if err != nil {
		h.logger.Error("latest backup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load backup status")
		return
	}
	total, err := h.store.TotalSize()
	if err != nil {
		h.logger.Error("backup total size", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load backup status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      h.manager.Status(),
		"latest":      latest,
		"total_bytes": total,
	})
}

// List returns recent backup records, newest first.
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.List(50)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list backups")
		return
	}
	if records == nil {
		records = []model.BackupRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Run triggers an immediate backup.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := h.manager.RunNow(r.Context())
	if err != nil {
		h.logger.Error("run backup", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

// Restore replaces the live database with the named backup. On success the
// process exits so it restarts against the restored file.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ObjectKey string `json:"object_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ObjectKey == "" {
		writeError(w, http.StatusBadRequest, "object_key is required")
		return
	}
	if err := h.manager.Restore(r.Context(), req.ObjectKey); err != nil {
		h.logger.Error("restore backup", "key", req.ObjectKey, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
}
