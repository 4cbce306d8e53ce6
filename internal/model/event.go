package model

import "time"

type Event struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Notes          string          `json:"notes"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        time.Time       `json:"end_time"`
	Category       string          `json:"category"`
	Location       string          `json:"location"`
	Transportation string          `json:"transportation"`
	MealID         *int64          `json:"meal_id"`
	Recurring      string          `json:"recurring"`
	Status         string          `json:"status"`
	Color          string          `json:"color"`
	AssignedTo     []int64         `json:"assigned_to"`
	Checklist      []ChecklistItem `json:"checklist"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
}

// Deleted reports whether the event is tombstoned and waiting out its
// undo window before permanent removal.
func (e Event) Deleted() bool {
	return e.DeletedAt != nil
}

type ChecklistItem struct {
	ID        int64  `json:"id"`
	EventID   int64  `json:"event_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	SortOrder int    `json:"sort_order"`
}
