package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/recurrence"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/schedule"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/validate"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/websocket"
)

type EventHandler struct {
	store  *store.EventStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewEventHandler(s *store.EventStore, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{store: s, hub: hub, logger: logger}
}

type eventRequest struct {
	Title          string   `json:"title"`
	Notes          string   `json:"notes"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	Category       string   `json:"category"`
	Location       string   `json:"location"`
	Transportation string   `json:"transportation"`
	MealID         *int64   `json:"meal_id"`
	Recurring      string   `json:"recurring"`
	Status         string   `json:"status"`
	Color          string   `json:"color"`
	AssignedTo     []int64  `json:"assigned_to"`
	Checklist      []string `json:"checklist"`
}

// eventResponse wraps a saved event with the advisory conflicts found
// against it. Conflicts never block the save.
type eventResponse struct {
	Event     *model.Event        `json:"event"`
	Conflicts []schedule.Conflict `json:"conflicts"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// validateAndCheck runs validation and, when it passes, the conflict scan.
// eventID is zero for creates so the candidate never matches itself.
func (h *EventHandler) validateAndCheck(req eventRequest, eventID int64) (validate.Result, []schedule.Conflict, time.Time, time.Time, error) {
	in := validate.EventInput{
		Title:      req.Title,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		AssignedTo: req.AssignedTo,
	}
	result := validate.Event(in)
	if !result.Valid {
		return result, nil, time.Time{}, time.Time{}, nil
	}
	if req.Recurring != "" {
		if _, err := recurrence.Parse(req.Recurring); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, "Recurrence must be none, daily, weekly, biweekly, monthly or yearly")
			return result, nil, time.Time{}, time.Time{}, nil
		}
	}

	start, end := validate.EventTimes(in)
	active, err := h.store.ListActive()
	if err != nil {
		return result, nil, start, end, err
	}
	conflicts := schedule.DetectConflicts(schedule.Candidate{
		ID:         eventID,
		Start:      start,
		End:        end,
		AssignedTo: req.AssignedTo,
	}, active)
	return result, conflicts, start, end, nil
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, conflicts, start, end, err := h.validateAndCheck(req, 0)
	if err != nil {
		h.logger.Error("check event conflicts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check conflicts")
		return
	}
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	event, err := h.store.Create(store.EventInput{
		Title:          req.Title,
		Notes:          req.Notes,
		StartTime:      start,
		EndTime:        end,
		Category:       req.Category,
		Location:       req.Location,
		Transportation: req.Transportation,
		MealID:         req.MealID,
		Recurring:      req.Recurring,
		Status:         req.Status,
		Color:          req.Color,
		AssignedTo:     req.AssignedTo,
		Checklist:      req.Checklist,
	})
	if err != nil {
		h.logger.Error("create event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	h.hub.Notify("event", websocket.ActionCreated, event.ID)
	writeJSON(w, http.StatusCreated, eventResponse{Event: event, Conflicts: conflicts, Warnings: result.Warnings})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if existing == nil || existing.Deleted() {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, conflicts, start, end, err := h.validateAndCheck(req, id)
	if err != nil {
		h.logger.Error("check event conflicts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check conflicts")
		return
	}
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	event, err := h.store.Update(id, store.EventInput{
		Title:          req.Title,
		Notes:          req.Notes,
		StartTime:      start,
		EndTime:        end,
		Category:       req.Category,
		Location:       req.Location,
		Transportation: req.Transportation,
		MealID:         req.MealID,
		Recurring:      req.Recurring,
		Status:         req.Status,
		Color:          req.Color,
		AssignedTo:     req.AssignedTo,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}

	h.hub.Notify("event", websocket.ActionUpdated, event.ID)
	writeJSON(w, http.StatusOK, eventResponse{Event: event, Conflicts: conflicts, Warnings: result.Warnings})
}

// CheckConflicts runs the conflict scan without saving anything, for live
// feedback while the form is open.
func (h *EventHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		eventRequest
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result, conflicts, _, _, err := h.validateAndCheck(req.eventRequest, req.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check conflicts")
		return
	}
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}
	if conflicts == nil {
		conflicts = []schedule.Conflict{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflicts": conflicts})
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	event, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if event == nil || event.Deleted() {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// List returns active events. Optional query params: from/to (RFC3339)
// restrict the range, member filters by assignee, expand=true also
// materializes recurring occurrences that fall inside the range.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var from, to time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be RFC3339")
			return
		}
		from = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be RFC3339")
			return
		}
		to = t
	}

	var events []model.Event
	var err error
	switch {
	case q.Get("member") != "":
		var memberID int64
		if memberID, err = parsePathIDValue(q.Get("member")); err != nil {
			writeError(w, http.StatusBadRequest, "member must be an id")
			return
		}
		events, err = h.store.ListByMember(memberID)
	case !from.IsZero() && !to.IsZero():
		events, err = h.store.ListByDateRange(from, to)
	default:
		events, err = h.store.ListActive()
	}
	if err != nil {
		h.logger.Error("list events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}

	if q.Get("expand") == "true" && !from.IsZero() && !to.IsZero() {
		writeJSON(w, http.StatusOK, expandRecurring(events, from, to))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// expandedEvent is an event paired with its generated occurrences inside
// the requested range.
type expandedEvent struct {
	model.Event
	Occurrences []recurrence.Occurrence `json:"occurrences,omitempty"`
}

func expandRecurring(events []model.Event, from, to time.Time) []expandedEvent {
	out := make([]expandedEvent, 0, len(events))
	for _, e := range events {
		ee := expandedEvent{Event: e}
		if f, err := recurrence.Parse(e.Recurring); err == nil && f != recurrence.None {
			ee.Occurrences = recurrence.Expand(f, e.StartTime, e.EndTime, from, to)
		}
		out = append(out, ee)
	}
	return out
}

// Delete tombstones the event. The row is purged for real once the undo
// window lapses.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if existing == nil || existing.Deleted() {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	if err := h.store.SoftDelete(id, time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	h.hub.Notify("event", websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// Restore undoes a soft delete while the tombstone still exists.
func (h *EventHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	event, err := h.store.Restore(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to restore event")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found or already purged")
		return
	}

	h.hub.Notify("event", websocket.ActionRestored, id)
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) AddChecklistItem(w http.ResponseWriter, r *http.Request) {
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

	event, err := h.store.AddChecklistItem(id, req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add checklist item")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	h.hub.Notify("event", websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) ToggleChecklistItem(w http.ResponseWriter, r *http.Request) {
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

	event, err := h.store.ToggleChecklistItem(id, itemID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle checklist item")
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	h.hub.Notify("event", websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) DeleteChecklistItem(w http.ResponseWriter, r *http.Request) {
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

	if err := h.store.DeleteChecklistItem(id, itemID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete checklist item")
		return
	}

	h.hub.Notify("event", websocket.ActionUpdated, id)
	w.WriteHeader(http.StatusNoContent)
}
