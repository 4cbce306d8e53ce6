package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type BillStore struct {
	db *sql.DB
}

func NewBillStore(db *sql.DB) *BillStore {
	return &BillStore{db: db}
}

const billCols = `id, name, provider, amount, is_variable_amount, category_id, due_day, frequency, payment_method, is_active, created_at, updated_at`

func scanBill(scanner interface{ Scan(...any) error }) (*model.Bill, error) {
	var b model.Bill
	var variable, active int

	err := scanner.Scan(
		&b.ID, &b.Name, &b.Provider, &b.Amount, &variable,
		&b.CategoryID, &b.DueDay, &b.Frequency, &b.PaymentMethod, &active,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.IsVariableAmount = variable != 0
	b.IsActive = active != 0
	return &b, nil
}

// BillInput is the writable portion of a bill.
type BillInput struct {
	Name             string
	Provider         string
	Amount           float64
	IsVariableAmount bool
	CategoryID       int64
	DueDay           int
	Frequency        string
	PaymentMethod    string
}

func (s *BillStore) Create(in BillInput) (*model.Bill, error) {
	var variable int
	if in.IsVariableAmount {
		variable = 1
	}
	if in.Frequency == "" {
		in.Frequency = "monthly"
	}

	result, err := s.db.Exec(
		`INSERT INTO bills (name, provider, amount, is_variable_amount, category_id, due_day, frequency, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Provider, in.Amount, variable, in.CategoryID, in.DueDay, in.Frequency, in.PaymentMethod,
	)
	if err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *BillStore) GetByID(id int64) (*model.Bill, error) {
	row := s.db.QueryRow("SELECT "+billCols+" FROM bills WHERE id = ?", id)
	b, err := scanBill(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

// List returns all bills; ListActive only those still in rotation.
func (s *BillStore) List() ([]model.Bill, error) {
	return s.list("SELECT " + billCols + " FROM bills ORDER BY due_day, name")
}

func (s *BillStore) ListActive() ([]model.Bill, error) {
	return s.list("SELECT " + billCols + " FROM bills WHERE is_active = 1 ORDER BY due_day, name")
}

func (s *BillStore) list(query string) ([]model.Bill, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []model.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}

func (s *BillStore) Update(id int64, in BillInput, isActive bool) (*model.Bill, error) {
	var variable, active int
	if in.IsVariableAmount {
		variable = 1
	}
	if isActive {
		active = 1
	}

	_, err := s.db.Exec(
		`UPDATE bills
		 SET name = ?, provider = ?, amount = ?, is_variable_amount = ?, category_id = ?,
		     due_day = ?, frequency = ?, payment_method = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, in.Provider, in.Amount, variable, in.CategoryID,
		in.DueDay, in.Frequency, in.PaymentMethod, active, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update bill: %w", err)
	}
	return s.GetByID(id)
}

func (s *BillStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

const paymentCols = `id, bill_id, due_date, scheduled_amount, actual_amount, status, paid_date, created_expense_id, created_at`

func scanPayment(scanner interface{ Scan(...any) error }) (*model.BillPayment, error) {
	var p model.BillPayment
	var actual sql.NullFloat64
	var paidDate sql.NullTime
	var expenseID sql.NullInt64

	err := scanner.Scan(
		&p.ID, &p.BillID, &p.DueDate, &p.ScheduledAmount, &actual,
		&p.Status, &paidDate, &expenseID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if actual.Valid {
		p.ActualAmount = &actual.Float64
	}
	if paidDate.Valid {
		p.PaidDate = &paidDate.Time
	}
	if expenseID.Valid {
		p.CreatedExpenseID = &expenseID.Int64
	}
	return &p, nil
}

// ListPayments returns a bill's payment history newest-first.
func (s *BillStore) ListPayments(billID int64) ([]model.BillPayment, error) {
	rows, err := s.db.Query(
		"SELECT "+paymentCols+" FROM bill_payments WHERE bill_id = ? ORDER BY due_date DESC",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bill payments: %w", err)
	}
	defer rows.Close()

	var payments []model.BillPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// ListAllPayments returns every payment, for projecting status across bills.
func (s *BillStore) ListAllPayments() ([]model.BillPayment, error) {
	rows, err := s.db.Query("SELECT " + paymentCols + " FROM bill_payments ORDER BY due_date DESC")
	if err != nil {
		return nil, fmt.Errorf("list bill payments: %w", err)
	}
	defer rows.Close()

	var payments []model.BillPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill payment: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// dueDay normalizes a due date to its calendar day. Payments store due_date
// as this text so equality and ordering work on the column itself.
func dueDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SchedulePayment records a pending period for a bill if none exists for
// that due date yet.
func (s *BillStore) SchedulePayment(billID int64, dueDate time.Time, scheduledAmount float64) (*model.BillPayment, error) {
	var existing int64
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(id), 0) FROM bill_payments WHERE bill_id = ? AND due_date = ?",
		billID, dueDay(dueDate),
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("check existing payment: %w", err)
	}
	if existing != 0 {
		return s.getPayment(existing)
	}

	result, err := s.db.Exec(
		"INSERT INTO bill_payments (bill_id, due_date, scheduled_amount) VALUES (?, ?, ?)",
		billID, dueDay(dueDate), scheduledAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("insert bill payment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getPayment(id)
}

func (s *BillStore) getPayment(id int64) (*model.BillPayment, error) {
	row := s.db.QueryRow("SELECT "+paymentCols+" FROM bill_payments WHERE id = ?", id)
	p, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get bill payment: %w", err)
	}
	return p, nil
}

// RecordPayment marks a payment paid and creates the linked expense in the
// same transaction. budgetID says which budget absorbs the expense.
func (s *BillStore) RecordPayment(paymentID int64, amount float64, paidDate time.Time, budgetID int64) (*model.BillPayment, error) {
	payment, err := s.getPayment(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, nil
	}

	bill, err := s.GetByID(payment.BillID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	description := "Bill payment"
	var categoryID *int64
	if bill != nil {
		description = "Bill payment: " + bill.Name
		categoryID = &bill.CategoryID
	}

	expense, err := createExpense(tx, ExpenseInput{
		BudgetID:      budgetID,
		CategoryID:    categoryID,
		Amount:        amount,
		Description:   description,
		Date:          paidDate,
		PaymentMethod: billPaymentMethod(bill),
	})
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(
		`UPDATE bill_payments
		 SET status = ?, actual_amount = ?, paid_date = ?, created_expense_id = ?
		 WHERE id = ?`,
		model.PaymentPaid, amount, paidDate.UTC(), expense.ID, paymentID,
	)
	if err != nil {
		return nil, fmt.Errorf("mark payment paid: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.getPayment(paymentID)
}

func billPaymentMethod(b *model.Bill) string {
	if b == nil {
		return ""
	}
	return b.PaymentMethod
}

// MarkOverduePayments flips pending payments whose due date has passed and
// returns how many changed.
func (s *BillStore) MarkOverduePayments(asOf time.Time) (int64, error) {
	result, err := s.db.Exec(
		"UPDATE bill_payments SET status = ? WHERE status = ? AND due_date < ?",
		model.PaymentOverdue, model.PaymentPending, dueDay(asOf),
	)
	if err != nil {
		return 0, fmt.Errorf("mark overdue payments: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
