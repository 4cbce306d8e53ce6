package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/validate"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/websocket"
)

type BudgetHandler struct {
	store    *store.BudgetStore
	expenses *store.ExpenseStore
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewBudgetHandler(s *store.BudgetStore, expenses *store.ExpenseStore, hub *websocket.Hub, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{store: s, expenses: expenses, hub: hub, logger: logger}
}

type budgetRequest struct {
	Name       string  `json:"name"`
	Period     string  `json:"period"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalLimit float64 `json:"total_limit"`
	IsActive   *bool   `json:"is_active"`
}

func (req budgetRequest) dates() (time.Time, *time.Time, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return time.Time{}, nil, err
	}
	if req.EndDate == "" {
		return start, nil, nil
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return time.Time{}, nil, err
	}
	return start, &end, nil
}

func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.store.List()
	if err != nil {
		h.logger.Error("list budgets", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list budgets")
		return
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := validate.Budget(validate.BudgetInput{
		Name:       req.Name,
		Period:     req.Period,
		StartDate:  req.StartDate,
		TotalLimit: req.TotalLimit,
	})
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	start, end, err := req.dates()
	if err != nil {
		writeError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	budget, err := h.store.Create(req.Name, req.Period, start, end, req.TotalLimit)
	if err != nil {
		h.logger.Error("create budget", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create budget")
		return
	}

	h.hub.Notify("budget", websocket.ActionCreated, budget.ID)
	writeJSON(w, http.StatusCreated, budget)
}

func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	budget, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get budget")
		return
	}
	if budget == nil {
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}
	writeJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get budget")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := validate.Budget(validate.BudgetInput{
		Name:       req.Name,
		Period:     req.Period,
		StartDate:  req.StartDate,
		TotalLimit: req.TotalLimit,
	})
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	start, end, err := req.dates()
	if err != nil {
		writeError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	budget, err := h.store.Update(id, req.Name, req.Period, start, end, req.TotalLimit, isActive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update budget")
		return
	}

	h.hub.Notify("budget", websocket.ActionUpdated, budget.ID)
	writeJSON(w, http.StatusOK, budget)
}

func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete budget")
		return
	}

	h.hub.Notify("budget", websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *BudgetHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req struct {
		Name  string  `json:"name"`
		Limit float64 `json:"limit"`
		Color string  `json:"color"`
		Icon  string  `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Limit < 0 {
		writeError(w, http.StatusBadRequest, "limit cannot be negative")
		return
	}

	category, err := h.store.AddCategory(id, req.Name, req.Limit, req.Color, req.Icon)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add category")
		return
	}

	h.hub.Notify("budget", websocket.ActionUpdated, id)
	writeJSON(w, http.StatusCreated, category)
}

func (h *BudgetHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	categoryID, err := parsePathID(r, "categoryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.store.DeleteCategory(id, categoryID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	h.hub.Notify("budget", websocket.ActionUpdated, id)
	w.WriteHeader(http.StatusNoContent)
}

// Summary returns the per-category spending rollup plus the overall total.
func (h *BudgetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	budget, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get budget")
		return
	}
	if budget == nil {
		writeError(w, http.StatusNotFound, "budget not found")
		return
	}

	spending, err := h.store.Spending(id)
	if err != nil {
		h.logger.Error("budget spending", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute spending")
		return
	}
	if spending == nil {
		spending = []model.CategorySpending{}
	}

	var total float64
	for _, cs := range spending {
		total += cs.Spent
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"budget":      budget,
		"categories":  spending,
		"total_spent": total,
		"remaining":   budget.TotalLimit - total,
	})
}
