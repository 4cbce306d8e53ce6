package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/websocket"
)

type ExpenseHandler struct {
	store  *store.ExpenseStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewExpenseHandler(s *store.ExpenseStore, hub *websocket.Hub, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{store: s, hub: hub, logger: logger}
}

type expenseRequest struct {
	BudgetID      int64    `json:"budget_id"`
	CategoryID    *int64   `json:"category_id"`
	Amount        float64  `json:"amount"`
	Description   string   `json:"description"`
	Date          string   `json:"date"`
	PaymentMethod string   `json:"payment_method"`
	Tags          []string `json:"tags"`
}

func (req expenseRequest) toInput() (store.ExpenseInput, string) {
	if req.BudgetID <= 0 {
		return store.ExpenseInput{}, "budget_id is required"
	}
	if req.Amount <= 0 {
		return store.ExpenseInput{}, "amount must be greater than zero"
	}
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return store.ExpenseInput{}, "date must be YYYY-MM-DD"
		}
		date = parsed
	}
	return store.ExpenseInput{
		BudgetID:      req.BudgetID,
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Description:   req.Description,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Tags:          req.Tags,
	}, ""
}

// List returns a budget's expenses; the budget query param is required.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	budgetID, err := parsePathIDValue(r.URL.Query().Get("budget"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "budget query param is required")
		return
	}

	expenses, err := h.store.ListByBudget(budgetID)
	if err != nil {
		h.logger.Error("list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	in, msg := req.toInput()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	expense, err := h.store.Create(in)
	if err != nil {
		h.logger.Error("create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	h.hub.Notify("expense", websocket.ActionCreated, expense.ID)
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get expense")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.BudgetID == 0 {
		req.BudgetID = existing.BudgetID
	}

	in, msg := req.toInput()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	expense, err := h.store.Update(id, in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}

	h.hub.Notify("expense", websocket.ActionUpdated, expense.ID)
	writeJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}

	h.hub.Notify("expense", websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
