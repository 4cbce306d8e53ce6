package store

import (
	"testing"
	"time"
)

func TestExpenseCreateAndList(t *testing.T) {
	db := openTestDB(t)
	budgets := NewBudgetStore(db)
	expenses := NewExpenseStore(db)

	budget, err := budgets.Create("May", "monthly", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), nil, 1500)
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	first, err := expenses.Create(ExpenseInput{
		BudgetID:      budget.ID,
		Amount:        42.50,
		Description:   "Groceries",
		Date:          time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "card",
		Tags:          []string{"food", "weekly"},
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if first.CategoryID != nil {
		t.Error("expected nil category for uncategorized expense")
	}
	if len(first.Tags) != 2 || first.Tags[0] != "food" {
		t.Errorf("tags = %v, want [food weekly]", first.Tags)
	}

	if _, err := expenses.Create(ExpenseInput{
		BudgetID: budget.ID,
		Amount:   10,
		Date:     time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create second expense: %v", err)
	}

	list, err := expenses.ListByBudget(budget.ID)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("listed %d expenses, want 2", len(list))
	}
	if list[0].Amount != 10 {
		t.Errorf("newest-first: first amount = %v, want 10", list[0].Amount)
	}
}

func TestExpenseUpdateAndDelete(t *testing.T) {
	db := openTestDB(t)
	budgets := NewBudgetStore(db)
	expenses := NewExpenseStore(db)

	budget, err := budgets.Create("June", "monthly", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), nil, 1500)
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	fuel, err := budgets.AddCategory(budget.ID, "Fuel", 200, "", "")
	if err != nil {
		t.Fatalf("add category: %v", err)
	}

	e, err := expenses.Create(ExpenseInput{
		BudgetID: budget.ID,
		Amount:   20,
		Date:     time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	updated, err := expenses.Update(e.ID, ExpenseInput{
		BudgetID:      budget.ID,
		CategoryID:    &fuel.ID,
		Amount:        25.75,
		Description:   "Gas station",
		Date:          time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("update expense: %v", err)
	}
	if updated.Amount != 25.75 {
		t.Errorf("amount = %v, want 25.75", updated.Amount)
	}
	if updated.CategoryID == nil || *updated.CategoryID != fuel.ID {
		t.Error("expected expense recategorized to Fuel")
	}

	if err := expenses.Delete(e.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	got, err := expenses.GetByID(e.ID)
	if err != nil {
		t.Fatalf("get deleted expense: %v", err)
	}
	if got != nil {
		t.Error("expected nil for deleted expense")
	}
}
