package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Ensure foreign keys are enforced (modernc/sqlite may not honor DSN param for :memory:)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupEventStore(t *testing.T) *EventStore {
	t.Helper()
	return NewEventStore(openTestDB(t))
}

func TestEventCreateAndGetByID(t *testing.T) {
	s := setupEventStore(t)

	start := time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 5, 11, 0, 0, 0, time.UTC)

	event, err := s.Create(EventInput{
		Title:     "Soccer Practice",
		Notes:     "Bring cleats",
		StartTime: start,
		EndTime:   end,
		Category:  "sports",
		Location:  "City Field",
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if event.Title != "Soccer Practice" {
		t.Errorf("title = %q, want %q", event.Title, "Soccer Practice")
	}
	if event.Location != "City Field" {
		t.Errorf("location = %q, want %q", event.Location, "City Field")
	}
	if event.Recurring != "none" {
		t.Errorf("recurring = %q, want %q", event.Recurring, "none")
	}
	if event.Status != "scheduled" {
		t.Errorf("status = %q, want %q", event.Status, "scheduled")
	}
	if event.DeletedAt != nil {
		t.Error("new event should not be tombstoned")
	}

	got, err := s.GetByID(event.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.Title != "Soccer Practice" {
		t.Errorf("got title = %q, want %q", got.Title, "Soccer Practice")
	}
}

func TestEventGetByIDNotFound(t *testing.T) {
	s := setupEventStore(t)

	got, err := s.GetByID(999)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent event")
	}
}

func TestEventAssigneesAndChecklist(t *testing.T) {
	s := setupEventStore(t)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	event, err := s.Create(EventInput{
		Title:      "Camping Trip",
		StartTime:  start,
		EndTime:    start.Add(48 * time.Hour),
		AssignedTo: []int64{2, 1},
		Checklist:  []string{"Tent", "Sleeping bags"},
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if len(event.AssignedTo) != 2 {
		t.Fatalf("assigned to %d members, want 2", len(event.AssignedTo))
	}
	if len(event.Checklist) != 2 {
		t.Fatalf("checklist has %d items, want 2", len(event.Checklist))
	}
	if event.Checklist[0].Text != "Tent" {
		t.Errorf("first checklist item = %q, want %q", event.Checklist[0].Text, "Tent")
	}
	if event.Checklist[0].Completed {
		t.Error("new checklist item should not be completed")
	}

	event, err = s.ToggleChecklistItem(event.ID, event.Checklist[0].ID)
	if err != nil {
		t.Fatalf("toggle checklist item: %v", err)
	}
	if !event.Checklist[0].Completed {
		t.Error("checklist item should be completed after toggle")
	}

	event, err = s.AddChecklistItem(event.ID, "Flashlight")
	if err != nil {
		t.Fatalf("add checklist item: %v", err)
	}
	if len(event.Checklist) != 3 {
		t.Fatalf("checklist has %d items, want 3", len(event.Checklist))
	}
	if event.Checklist[2].Text != "Flashlight" {
		t.Errorf("appended item = %q, want %q", event.Checklist[2].Text, "Flashlight")
	}
}

func TestEventUpdateReplacesAssignees(t *testing.T) {
	s := setupEventStore(t)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	event, err := s.Create(EventInput{
		Title:      "Dentist",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		AssignedTo: []int64{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	event, err = s.Update(event.ID, EventInput{
		Title:      "Dentist",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     "scheduled",
		AssignedTo: []int64{2},
	})
	if err != nil {
		t.Fatalf("update event: %v", err)
	}
	if len(event.AssignedTo) != 1 || event.AssignedTo[0] != 2 {
		t.Errorf("assignees = %v, want [2]", event.AssignedTo)
	}
}

func TestEventSoftDeleteAndRestore(t *testing.T) {
	s := setupEventStore(t)

	start := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	event, err := s.Create(EventInput{Title: "Recital", StartTime: start, EndTime: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := s.SoftDelete(event.ID, time.Now()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	got, err := s.GetByID(event.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.DeletedAt == nil {
		t.Fatal("event should carry a tombstone after soft delete")
	}

	active, err := s.ListActive()
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active list has %d events, want 0", len(active))
	}

	restored, err := s.Restore(event.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Error("restored event should not carry a tombstone")
	}
}

func TestEventPurgeDeleted(t *testing.T) {
	s := setupEventStore(t)

	start := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	old, err := s.Create(EventInput{Title: "Old", StartTime: start, EndTime: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	fresh, err := s.Create(EventInput{Title: "Fresh", StartTime: start, EndTime: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	now := time.Now()
	if err := s.SoftDelete(old.ID, now.Add(-time.Hour)); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := s.SoftDelete(fresh.ID, now); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	purged, err := s.PurgeDeleted(now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("purge deleted: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged %d events, want 1", purged)
	}

	got, err := s.GetByID(old.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got != nil {
		t.Error("purged event should be gone")
	}

	got, err = s.GetByID(fresh.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil {
		t.Error("event tombstoned after the cutoff should survive the purge")
	}
}

func TestEventListByDateRange(t *testing.T) {
	s := setupEventStore(t)

	day := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	inRange, err := s.Create(EventInput{Title: "In", StartTime: day.Add(10 * time.Hour), EndTime: day.Add(11 * time.Hour)})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	_, err = s.Create(EventInput{Title: "Out", StartTime: day.Add(72 * time.Hour), EndTime: day.Add(73 * time.Hour)})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	events, err := s.ListByDateRange(day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list by date range: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("range returned %d events, want 1", len(events))
	}
	if events[0].ID != inRange.ID {
		t.Errorf("range returned event %d, want %d", events[0].ID, inRange.ID)
	}
}

func TestEventListByMember(t *testing.T) {
	s := setupEventStore(t)

	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	mine, err := s.Create(EventInput{Title: "Mine", StartTime: start, EndTime: start.Add(time.Hour), AssignedTo: []int64{7}})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	_, err = s.Create(EventInput{Title: "Theirs", StartTime: start, EndTime: start.Add(time.Hour), AssignedTo: []int64{8}})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	events, err := s.ListByMember(7)
	if err != nil {
		t.Fatalf("list by member: %v", err)
	}
	if len(events) != 1 || events[0].ID != mine.ID {
		t.Errorf("member list = %v, want only event %d", events, mine.ID)
	}
}
