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

type MealHandler struct {
	store  *store.MealStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewMealHandler(s *store.MealStore, hub *websocket.Hub, logger *slog.Logger) *MealHandler {
	return &MealHandler{store: s, hub: hub, logger: logger}
}

type mealRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Cuisine      string   `json:"cuisine"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Tags         []string `json:"tags"`
}

func (req mealRequest) toInput() store.MealInput {
	if req.Servings == 0 {
		req.Servings = 1
	}
	return store.MealInput{
		Name:         req.Name,
		Category:     req.Category,
		Cuisine:      req.Cuisine,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   req.Difficulty,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Tags:         req.Tags,
	}
}

func (req mealRequest) validate() validate.Result {
	servings := req.Servings
	if servings == 0 {
		servings = 1
	}
	return validate.Meal(validate.MealInput{
		Name:     req.Name,
		PrepTime: req.PrepTime,
		CookTime: req.CookTime,
		Servings: servings,
	})
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	meals, err := h.store.List()
	if err != nil {
		h.logger.Error("list meals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meals")
		return
	}
	if meals == nil {
		meals = []model.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := req.validate()
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	meal, err := h.store.Create(req.toInput())
	if err != nil {
		h.logger.Error("create meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create meal")
		return
	}

	h.hub.Notify("meal", websocket.ActionCreated, meal.ID)
	writeJSON(w, http.StatusCreated, meal)
}

func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	meal, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meal")
		return
	}
	if meal == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meal")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}

	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := req.validate()
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	meal, err := h.store.Update(id, req.toInput())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update meal")
		return
	}

	h.hub.Notify("meal", websocket.ActionUpdated, meal.ID)
	writeJSON(w, http.StatusOK, meal)
}

func (h *MealHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	meal, err := h.store.ToggleFavorite(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle favorite")
		return
	}
	if meal == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}

	h.hub.Notify("meal", websocket.ActionUpdated, id)
	writeJSON(w, http.StatusOK, meal)
}

// Delete removes the meal. Events keep their dangling meal_id; readers
// render it as "Unknown".
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete meal")
		return
	}

	h.hub.Notify("meal", websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
