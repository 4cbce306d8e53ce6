package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/validate"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/websocket"
)

type NoteHandler struct {
	store  *store.NoteStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewNoteHandler(s *store.NoteStore, hub *websocket.Hub, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{store: s, hub: hub, logger: logger}
}

var noteTypes = map[string]bool{
	model.NoteTypeFreeform:  true,
	model.NoteTypeChecklist: true,
	model.NoteTypeShopping:  true,
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Color   string `json:"color"`
	Pinned  bool   `json:"pinned"`
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	noteType := r.URL.Query().Get("type")
	if noteType != "" && !noteTypes[noteType] {
		writeError(w, http.StatusBadRequest, "unknown note type")
		return
	}

	notes, err := h.store.List(noteType)
	if err != nil {
		h.logger.Error("list notes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Type == "" {
		req.Type = model.NoteTypeFreeform
	}
	if !noteTypes[req.Type] {
		writeError(w, http.StatusBadRequest, "unknown note type")
		return
	}

	result := validate.Note(req.Title)
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	note, err := h.store.Create(req.Title, req.Content, req.Type, req.Color, req.Pinned)
	if err != nil {
		h.logger.Error("create note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	h.hub.Notify("note", websocket.ActionCreated, note.ID)
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	note, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Type == "" {
		req.Type = existing.Type
	}
	if !noteTypes[req.Type] {
		writeError(w, http.StatusBadRequest, "unknown note type")
		return
	}

	result := validate.Note(req.Title)
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	note, err := h.store.Update(id, req.Title, req.Content, req.Type, req.Color, req.Pinned)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}

	h.hub.Notify("note", websocket.ActionUpdated, note.ID)
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) TogglePinned(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	note, err := h.store.TogglePinned(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle pinned")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	h.hub.Notify("note", websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}

	h.hub.Notify("note", websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *NoteHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	note, err := h.store.AddItem(id, req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	h.hub.Notify("note", websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	itemID, err := parsePathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	note, err := h.store.ToggleItem(id, itemID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	h.hub.Notify("note", websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	itemID, err := parsePathID(r, "itemID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.store.DeleteItem(id, itemID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.hub.Notify("note", websocket.ActionUpdated, id)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCompleted removes every checked item, the "clear bought things"
// action on a shopping list.
func (h *NoteHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	cleared, err := h.store.ClearCompleted(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear completed items")
		return
	}

	h.hub.Notify("note", websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, map[string]int64{"cleared": cleared})
}
