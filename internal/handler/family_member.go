package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/middleware"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/websocket"
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// PIN verification attempts allowed per member per window.
const (
	pinAttemptLimit  = 5
	pinAttemptWindow = 15 * time.Minute
)

type FamilyMemberHandler struct {
	store   *store.FamilyMemberStore
	hub     *websocket.Hub
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

func NewFamilyMemberHandler(s *store.FamilyMemberStore, hub *websocket.Hub, limiter *middleware.RateLimiter, logger *slog.Logger) *FamilyMemberHandler {
	return &FamilyMemberHandler{store: s, hub: hub, limiter: limiter, logger: logger}
}

func (h *FamilyMemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list family members")
		return
	}
	if members == nil {
		members = []model.FamilyMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

type memberRequest struct {
	Name             string `json:"name"`
	Role             string `json:"role"`
	Color            string `json:"color"`
	AvatarEmoji      string `json:"avatar_emoji"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	EmergencyContact string `json:"emergency_contact"`
}

func (req *memberRequest) normalize() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.Role == "" {
		req.Role = model.RoleParent
	}
	if req.Role != model.RoleParent && req.Role != model.RoleChild {
		return "role must be parent or child"
	}
	if req.Color == "" {
		req.Color = "#3B82F6"
	}
	if !hexColorRegexp.MatchString(req.Color) {
		return "color must be a hex color (e.g. #FF0000)"
	}
	return ""
}

func (h *FamilyMemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.normalize(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	member, err := h.store.Create(req.Name, req.Role, req.Color, req.AvatarEmoji, req.Phone, req.Email, req.EmergencyContact)
	if err != nil {
		h.logger.Error("create family member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create family member")
		return
	}

	h.hub.Notify("member", websocket.ActionCreated, member.ID)
	writeJSON(w, http.StatusCreated, member)
}

func (h *FamilyMemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	member, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get family member")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *FamilyMemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get family member")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Role == "" {
		req.Role = existing.Role
	}
	if req.Color == "" {
		req.Color = existing.Color
	}
	if req.AvatarEmoji == "" {
		req.AvatarEmoji = existing.AvatarEmoji
	}
	if msg := req.normalize(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	member, err := h.store.Update(id, req.Name, req.Role, req.Color, req.AvatarEmoji, req.Phone, req.Email, req.EmergencyContact)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update family member")
		return
	}

	h.hub.Notify("member", websocket.ActionUpdated, member.ID)
	writeJSON(w, http.StatusOK, member)
}

func (h *FamilyMemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get family member")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete family member")
		return
	}

	h.hub.Notify("member", websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyMemberHandler) UpdateSortOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	if err := h.store.UpdateSortOrder(req.IDs); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update sort order")
		return
	}

	h.hub.Notify("member", websocket.ActionUpdated, 0)
	w.WriteHeader(http.StatusNoContent)
}

func (h *FamilyMemberHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get family member")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if len(req.PIN) != 4 || !isDigits(req.PIN) {
		writeError(w, http.StatusBadRequest, "PIN must be exactly 4 digits")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash PIN")
		return
	}

	if err := h.store.SetPIN(id, string(hash)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to set PIN")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

func (h *FamilyMemberHandler) ClearPIN(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.ClearPIN(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear PIN")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
}

func (h *FamilyMemberHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	// Throttle guesses per member and per client.
	key := "pin:" + r.PathValue("id") + ":" + middleware.RealIP(r)
	if !h.limiter.Allow(key, pinAttemptLimit, pinAttemptWindow) {
		writeError(w, http.StatusTooManyRequests, "too many PIN attempts, try again later")
		return
	}

	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	hash, err := h.store.GetPINHash(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get PIN")
		return
	}
	if hash == "" {
		writeError(w, http.StatusBadRequest, "no PIN set for this member")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.PIN)); err != nil {
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
