package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type BudgetStore struct {
	db *sql.DB
}

func NewBudgetStore(db *sql.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

const budgetCols = `id, name, period, start_date, end_date, total_limit, is_active, created_at, updated_at`

func scanBudget(scanner interface{ Scan(...any) error }) (*model.Budget, error) {
	var b model.Budget
	var endDate sql.NullTime
	var active int

	err := scanner.Scan(
		&b.ID, &b.Name, &b.Period, &b.StartDate, &endDate,
		&b.TotalLimit, &active, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.IsActive = active != 0
	if endDate.Valid {
		b.EndDate = &endDate.Time
	}
	return &b, nil
}

func (s *BudgetStore) Create(name, period string, startDate time.Time, endDate *time.Time, totalLimit float64) (*model.Budget, error) {
	var end sql.NullTime
	if endDate != nil {
		end = sql.NullTime{Time: *endDate, Valid: true}
	}

	result, err := s.db.Exec(
		"INSERT INTO budgets (name, period, start_date, end_date, total_limit) VALUES (?, ?, ?, ?, ?)",
		name, period, startDate.UTC(), end, totalLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("insert budget: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *BudgetStore) GetByID(id int64) (*model.Budget, error) {
	row := s.db.QueryRow("SELECT "+budgetCols+" FROM budgets WHERE id = ?", id)
	b, err := scanBudget(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	if b.Categories, err = s.listCategories(id); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BudgetStore) List() ([]model.Budget, error) {
	rows, err := s.db.Query("SELECT " + budgetCols + " FROM budgets ORDER BY is_active DESC, start_date DESC")
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range budgets {
		cats, err := s.listCategories(budgets[i].ID)
		if err != nil {
			return nil, err
		}
		budgets[i].Categories = cats
	}
	return budgets, nil
}

func (s *BudgetStore) listCategories(budgetID int64) ([]model.BudgetCategory, error) {
	rows, err := s.db.Query(
		`SELECT id, budget_id, name, limit_amount, color, icon, sort_order
		 FROM budget_categories WHERE budget_id = ? ORDER BY sort_order`,
		budgetID,
	)
	if err != nil {
		return nil, fmt.Errorf("query budget categories: %w", err)
	}
	defer rows.Close()

	var cats []model.BudgetCategory
	for rows.Next() {
		var c model.BudgetCategory
		if err := rows.Scan(&c.ID, &c.BudgetID, &c.Name, &c.Limit, &c.Color, &c.Icon, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan budget category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *BudgetStore) Update(id int64, name, period string, startDate time.Time, endDate *time.Time, totalLimit float64, isActive bool) (*model.Budget, error) {
	var end sql.NullTime
	if endDate != nil {
		end = sql.NullTime{Time: *endDate, Valid: true}
	}
	var active int
	if isActive {
		active = 1
	}

	_, err := s.db.Exec(
		`UPDATE budgets
		 SET name = ?, period = ?, start_date = ?, end_date = ?, total_limit = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, period, startDate.UTC(), end, totalLimit, active, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}
	return s.GetByID(id)
}

func (s *BudgetStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

func (s *BudgetStore) AddCategory(budgetID int64, name string, limit float64, color, icon string) (*model.BudgetCategory, error) {
	var maxOrder int
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(sort_order), -1) FROM budget_categories WHERE budget_id = ?", budgetID,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO budget_categories (budget_id, name, limit_amount, color, icon, sort_order) VALUES (?, ?, ?, ?, ?, ?)",
		budgetID, name, limit, color, icon, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert budget category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var c model.BudgetCategory
	err = s.db.QueryRow(
		"SELECT id, budget_id, name, limit_amount, color, icon, sort_order FROM budget_categories WHERE id = ?", id,
	).Scan(&c.ID, &c.BudgetID, &c.Name, &c.Limit, &c.Color, &c.Icon, &c.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("get budget category: %w", err)
	}
	return &c, nil
}

func (s *BudgetStore) DeleteCategory(budgetID, categoryID int64) error {
	_, err := s.db.Exec("DELETE FROM budget_categories WHERE id = ? AND budget_id = ?", categoryID, budgetID)
	if err != nil {
		return fmt.Errorf("delete budget category: %w", err)
	}
	return nil
}

// Spending returns per-category totals for a budget. Expenses whose
// category id no longer resolves are rolled up under "Uncategorized".
func (s *BudgetStore) Spending(budgetID int64) ([]model.CategorySpending, error) {
	rows, err := s.db.Query(
		`SELECT c.id, c.name, c.limit_amount, COALESCE(SUM(e.amount), 0)
		 FROM budget_categories c
		 LEFT JOIN expenses e ON e.category_id = c.id AND e.budget_id = c.budget_id
		 WHERE c.budget_id = ?
		 GROUP BY c.id
		 ORDER BY c.sort_order`,
		budgetID,
	)
	if err != nil {
		return nil, fmt.Errorf("query spending: %w", err)
	}
	defer rows.Close()

	var out []model.CategorySpending
	for rows.Next() {
		var cs model.CategorySpending
		var id int64
		if err := rows.Scan(&id, &cs.CategoryName, &cs.Limit, &cs.Spent); err != nil {
			return nil, fmt.Errorf("scan spending: %w", err)
		}
		cs.CategoryID = &id
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var orphaned float64
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM expenses
		 WHERE budget_id = ?
		   AND (category_id IS NULL OR category_id NOT IN (SELECT id FROM budget_categories WHERE budget_id = ?))`,
		budgetID, budgetID,
	).Scan(&orphaned)
	if err != nil {
		return nil, fmt.Errorf("query uncategorized spending: %w", err)
	}
	if orphaned > 0 {
		out = append(out, model.CategorySpending{CategoryName: "Uncategorized", Spent: orphaned})
	}
	return out, nil
}
