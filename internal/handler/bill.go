package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/billing"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/store"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/validate"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/websocket"
)

type BillHandler struct {
	store  *store.BillStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewBillHandler(s *store.BillStore, hub *websocket.Hub, logger *slog.Logger) *BillHandler {
	return &BillHandler{store: s, hub: hub, logger: logger}
}

type billRequest struct {
	Name             string  `json:"name"`
	Provider         string  `json:"provider"`
	Amount           float64 `json:"amount"`
	IsVariableAmount bool    `json:"is_variable_amount"`
	CategoryID       int64   `json:"category_id"`
	DueDay           int     `json:"due_day"`
	Frequency        string  `json:"frequency"`
	PaymentMethod    string  `json:"payment_method"`
	IsActive         *bool   `json:"is_active"`
}

func (req billRequest) validate() validate.Result {
	return validate.Bill(validate.BillInput{
		Name:             req.Name,
		CategoryID:       req.CategoryID,
		Amount:           req.Amount,
		IsVariableAmount: req.IsVariableAmount,
		DueDay:           req.DueDay,
	})
}

func (req billRequest) toInput() store.BillInput {
	return store.BillInput{
		Name:             req.Name,
		Provider:         req.Provider,
		Amount:           req.Amount,
		IsVariableAmount: req.IsVariableAmount,
		CategoryID:       req.CategoryID,
		DueDay:           req.DueDay,
		Frequency:        req.Frequency,
		PaymentMethod:    req.PaymentMethod,
	}
}

func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	bills, err := h.store.List()
	if err != nil {
		h.logger.Error("list bills", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list bills")
		return
	}
	if bills == nil {
		bills = []model.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := req.validate()
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	bill, err := h.store.Create(req.toInput())
	if err != nil {
		h.logger.Error("create bill", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create bill")
		return
	}

	h.hub.Notify("bill", websocket.ActionCreated, bill.ID)
	writeJSON(w, http.StatusCreated, bill)
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	bill, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get bill")
		return
	}
	if bill == nil {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get bill")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}

	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := req.validate()
	if !result.Valid {
		writeValidation(w, result.Errors, result.Warnings)
		return
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	bill, err := h.store.Update(id, req.toInput(), isActive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update bill")
		return
	}

	h.hub.Notify("bill", websocket.ActionUpdated, bill.ID)
	writeJSON(w, http.StatusOK, bill)
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete bill")
		return
	}

	h.hub.Notify("bill", websocket.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// upcomingBill pairs a bill with its projected next due date and status.
type upcomingBill struct {
	Bill         model.Bill `json:"bill"`
	DueDate      time.Time  `json:"due_date"`
	DaysUntilDue int        `json:"days_until_due"`
	Status       string     `json:"status"`
}

// Upcoming projects the next due date for every active bill, soonest first.
func (h *BillHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	bills, err := h.store.ListActive()
	if err != nil {
		h.logger.Error("list active bills", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list bills")
		return
	}

	payments, err := h.store.ListAllPayments()
	if err != nil {
		h.logger.Error("list payments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}

	now := time.Now()
	upcoming := make([]upcomingBill, 0, len(bills))
	for _, b := range bills {
		projection, status := billing.NextStatus(b, payments, now)
		upcoming = append(upcoming, upcomingBill{
			Bill:         b,
			DueDate:      projection.DueDate,
			DaysUntilDue: projection.DaysUntilDue,
			Status:       status,
		})
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})

	writeJSON(w, http.StatusOK, upcoming)
}

func (h *BillHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	payments, err := h.store.ListPayments(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}
	if payments == nil {
		payments = []model.BillPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// Pay marks the bill's next projected period paid. The payment row and the
// linked expense are written in one transaction by the store.
func (h *BillHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	bill, err := h.store.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get bill")
		return
	}
	if bill == nil {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}

	var req struct {
		Amount   float64 `json:"amount"`
		PaidDate string  `json:"paid_date"`
		BudgetID int64   `json:"budget_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.BudgetID <= 0 {
		writeError(w, http.StatusBadRequest, "budget_id is required")
		return
	}
	if req.Amount == 0 {
		req.Amount = bill.Amount
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}
	paidDate := time.Now()
	if req.PaidDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaidDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "paid_date must be YYYY-MM-DD")
			return
		}
		paidDate = parsed
	}

	projection := billing.ProjectNextDueDate(*bill, paidDate)
	payment, err := h.store.SchedulePayment(bill.ID, projection.DueDate, bill.Amount)
	if err != nil {
		h.logger.Error("schedule payment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to schedule payment")
		return
	}
	if payment.Status == model.PaymentPaid {
		writeError(w, http.StatusConflict, "payment for this period is already recorded")
		return
	}

	paid, err := h.store.RecordPayment(payment.ID, req.Amount, paidDate, req.BudgetID)
	if err != nil {
		h.logger.Error("record payment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	h.hub.Notify("bill", websocket.ActionUpdated, bill.ID)
	h.hub.Notify("expense", websocket.ActionCreated, derefID(paid.CreatedExpenseID))
	writeJSON(w, http.StatusOK, paid)
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
