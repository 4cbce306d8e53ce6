package store

import (
	"testing"
	"time"
)

func TestBudgetCreateWithCategories(t *testing.T) {
	db := openTestDB(t)
	s := NewBudgetStore(db)

	budget, err := s.Create("March", "monthly", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), nil, 2500)
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if budget.Name != "March" {
		t.Errorf("name = %q, want %q", budget.Name, "March")
	}
	if !budget.IsActive {
		t.Error("new budget should be active")
	}

	if _, err := s.AddCategory(budget.ID, "Groceries", 600, "#22C55E", "cart"); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if _, err := s.AddCategory(budget.ID, "Fuel", 200, "", ""); err != nil {
		t.Fatalf("add category: %v", err)
	}

	budget, err = s.GetByID(budget.ID)
	if err != nil {
		t.Fatalf("get budget: %v", err)
	}
	if len(budget.Categories) != 2 {
		t.Fatalf("budget has %d categories, want 2", len(budget.Categories))
	}
	if budget.Categories[0].Name != "Groceries" {
		t.Errorf("first category = %q, want %q", budget.Categories[0].Name, "Groceries")
	}
}

func TestBudgetSpendingRollup(t *testing.T) {
	db := openTestDB(t)
	budgets := NewBudgetStore(db)
	expenses := NewExpenseStore(db)

	budget, err := budgets.Create("April", "monthly", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), nil, 2000)
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	groceries, err := budgets.AddCategory(budget.ID, "Groceries", 600, "", "")
	if err != nil {
		t.Fatalf("add category: %v", err)
	}

	date := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)
	if _, err := expenses.Create(ExpenseInput{BudgetID: budget.ID, CategoryID: &groceries.ID, Amount: 54.20, Date: date}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if _, err := expenses.Create(ExpenseInput{BudgetID: budget.ID, CategoryID: &groceries.ID, Amount: 30.80, Date: date}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	// No category: should land in the Uncategorized bucket.
	if _, err := expenses.Create(ExpenseInput{BudgetID: budget.ID, Amount: 12, Date: date}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	spending, err := budgets.Spending(budget.ID)
	if err != nil {
		t.Fatalf("spending: %v", err)
	}
	if len(spending) != 2 {
		t.Fatalf("spending rollup has %d rows, want 2", len(spending))
	}
	if spending[0].CategoryName != "Groceries" {
		t.Errorf("first row = %q, want %q", spending[0].CategoryName, "Groceries")
	}
	if spending[0].Spent != 85.0 {
		t.Errorf("groceries spent = %v, want 85.0", spending[0].Spent)
	}
	if spending[1].CategoryName != "Uncategorized" {
		t.Errorf("second row = %q, want %q", spending[1].CategoryName, "Uncategorized")
	}
	if spending[1].Spent != 12.0 {
		t.Errorf("uncategorized spent = %v, want 12.0", spending[1].Spent)
	}
}

func TestBudgetDeleteCascadesExpenses(t *testing.T) {
	db := openTestDB(t)
	budgets := NewBudgetStore(db)
	expenses := NewExpenseStore(db)

	budget, err := budgets.Create("Trip", "custom", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), nil, 800)
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	expense, err := expenses.Create(ExpenseInput{BudgetID: budget.ID, Amount: 99, Date: time.Now()})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if err := budgets.Delete(budget.ID); err != nil {
		t.Fatalf("delete budget: %v", err)
	}

	got, err := expenses.GetByID(expense.ID)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if got != nil {
		t.Error("expense should cascade away with its budget")
	}
}
