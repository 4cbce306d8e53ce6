package model

import "time"

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

type Budget struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Period     string           `json:"period"`
	StartDate  time.Time        `json:"start_date"`
	EndDate    *time.Time       `json:"end_date"`
	TotalLimit float64          `json:"total_limit"`
	IsActive   bool             `json:"is_active"`
	Categories []BudgetCategory `json:"categories"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type BudgetCategory struct {
	ID        int64   `json:"id"`
	BudgetID  int64   `json:"budget_id"`
	Name      string  `json:"name"`
	Limit     float64 `json:"limit"`
	Color     string  `json:"color"`
	Icon      string  `json:"icon"`
	SortOrder int     `json:"sort_order"`
}

// Expense is owned by exactly one budget via BudgetID. CategoryID is an
// advisory reference; a dangling id renders as "Uncategorized".
type Expense struct {
	ID            int64     `json:"id"`
	BudgetID      int64     `json:"budget_id"`
	CategoryID    *int64    `json:"category_id"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"payment_method"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
}

// CategorySpending is a derived per-category rollup for a budget.
type CategorySpending struct {
	CategoryID   *int64  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Limit        float64 `json:"limit"`
	Spent        float64 `json:"spent"`
}
