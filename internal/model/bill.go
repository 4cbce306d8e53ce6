package model

import "time"

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
)

type Bill struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Provider         string    `json:"provider"`
	Amount           float64   `json:"amount"`
	IsVariableAmount bool      `json:"is_variable_amount"`
	CategoryID       int64     `json:"category_id"`
	DueDay           int       `json:"due_day"`
	Frequency        string    `json:"frequency"`
	PaymentMethod    string    `json:"payment_method"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BillPayment records one billing period for a bill. Paying it
// side-effects the creation of an Expense linked via CreatedExpenseID.
type BillPayment struct {
	ID               int64      `json:"id"`
	BillID           int64      `json:"bill_id"`
	DueDate          time.Time  `json:"due_date"`
	ScheduledAmount  float64    `json:"scheduled_amount"`
	ActualAmount     *float64   `json:"actual_amount"`
	Status           string     `json:"status"`
	PaidDate         *time.Time `json:"paid_date"`
	CreatedExpenseID *int64     `json:"created_expense_id"`
	CreatedAt        time.Time  `json:"created_at"`
}
