package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

const expenseCols = `id, budget_id, category_id, amount, description, date, payment_method, tags, created_at`

func scanExpense(scanner interface{ Scan(...any) error }) (*model.Expense, error) {
	var e model.Expense
	var categoryID sql.NullInt64
	var tags string

	err := scanner.Scan(
		&e.ID, &e.BudgetID, &categoryID, &e.Amount, &e.Description,
		&e.Date, &e.PaymentMethod, &tags, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		e.CategoryID = &categoryID.Int64
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		e.Tags = nil
	}
	return &e, nil
}

// ExpenseInput is the writable portion of an expense.
type ExpenseInput struct {
	BudgetID      int64
	CategoryID    *int64
	Amount        float64
	Description   string
	Date          time.Time
	PaymentMethod string
	Tags          []string
}

func (s *ExpenseStore) Create(in ExpenseInput) (*model.Expense, error) {
	return createExpense(s.db, in)
}

// createExpense accepts either *sql.DB or *sql.Tx so the bill store can
// create the linked expense inside its payment transaction.
func createExpense(q interface {
	Exec(string, ...any) (sql.Result, error)
	QueryRow(string, ...any) *sql.Row
}, in ExpenseInput) (*model.Expense, error) {
	var categoryID sql.NullInt64
	if in.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *in.CategoryID, Valid: true}
	}

	result, err := q.Exec(
		`INSERT INTO expenses (budget_id, category_id, amount, description, date, payment_method, tags)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.BudgetID, categoryID, in.Amount, in.Description, in.Date.UTC(), in.PaymentMethod, encodeList(in.Tags),
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := q.QueryRow("SELECT "+expenseCols+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (s *ExpenseStore) GetByID(id int64) (*model.Expense, error) {
	row := s.db.QueryRow("SELECT "+expenseCols+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListByBudget returns the budget's expenses newest-first.
func (s *ExpenseStore) ListByBudget(budgetID int64) ([]model.Expense, error) {
	rows, err := s.db.Query(
		"SELECT "+expenseCols+" FROM expenses WHERE budget_id = ? ORDER BY date DESC, id DESC",
		budgetID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (s *ExpenseStore) Update(id int64, in ExpenseInput) (*model.Expense, error) {
	var categoryID sql.NullInt64
	if in.CategoryID != nil {
		categoryID = sql.NullInt64{Int64: *in.CategoryID, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE expenses
		 SET category_id = ?, amount = ?, description = ?, date = ?, payment_method = ?, tags = ?
		 WHERE id = ?`,
		categoryID, in.Amount, in.Description, in.Date.UTC(), in.PaymentMethod, encodeList(in.Tags), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return s.GetByID(id)
}

func (s *ExpenseStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}
