package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// EventInput is the writable portion of an event.
type EventInput struct {
	Title          string
	Notes          string
	StartTime      time.Time
	EndTime        time.Time
	Category       string
	Location       string
	Transportation string
	MealID         *int64
	Recurring      string
	Status         string
	Color          string
	AssignedTo     []int64
	Checklist      []string
}

const eventCols = `id, title, notes, start_time, end_time, category, location, transportation, meal_id, recurring, status, color, created_at, updated_at, deleted_at`

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var mealID sql.NullInt64
	var deletedAt sql.NullTime

	err := scanner.Scan(
		&e.ID, &e.Title, &e.Notes, &e.StartTime, &e.EndTime,
		&e.Category, &e.Location, &e.Transportation, &mealID,
		&e.Recurring, &e.Status, &e.Color,
		&e.CreatedAt, &e.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if mealID.Valid {
		e.MealID = &mealID.Int64
	}
	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Time
	}
	return &e, nil
}

func (s *EventStore) Create(in EventInput) (*model.Event, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var mealID sql.NullInt64
	if in.MealID != nil {
		mealID = sql.NullInt64{Int64: *in.MealID, Valid: true}
	}
	if in.Recurring == "" {
		in.Recurring = "none"
	}
	if in.Status == "" {
		in.Status = "scheduled"
	}

	result, err := tx.Exec(
		`INSERT INTO events (title, notes, start_time, end_time, category, location, transportation, meal_id, recurring, status, color)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Notes, in.StartTime.UTC(), in.EndTime.UTC(),
		in.Category, in.Location, in.Transportation, mealID,
		in.Recurring, in.Status, in.Color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := replaceAssignees(tx, id, in.AssignedTo); err != nil {
		return nil, err
	}
	for i, text := range in.Checklist {
		if _, err := tx.Exec(
			"INSERT INTO event_checklist (event_id, text, sort_order) VALUES (?, ?, ?)",
			id, text, i,
		); err != nil {
			return nil, fmt.Errorf("insert checklist item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetByID(id)
}

func (s *EventStore) GetByID(id int64) (*model.Event, error) {
	row := s.db.QueryRow("SELECT "+eventCols+" FROM events WHERE id = ?", id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query event: %w", err)
	}
	if err := s.attachRelations(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListActive returns every non-tombstoned event, the collection the
// conflict detector scans.
func (s *EventStore) ListActive() ([]model.Event, error) {
	rows, err := s.db.Query(
		"SELECT " + eventCols + " FROM events WHERE deleted_at IS NULL ORDER BY start_time",
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return s.collect(rows)
}

// ListByDateRange returns active events overlapping [start, end).
func (s *EventStore) ListByDateRange(start, end time.Time) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events
		 WHERE deleted_at IS NULL AND start_time < ? AND end_time > ?
		 ORDER BY start_time`,
		end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return s.collect(rows)
}

// ListByMember returns active events assigned to the given member.
func (s *EventStore) ListByMember(memberID int64) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events
		 WHERE deleted_at IS NULL
		   AND id IN (SELECT event_id FROM event_assignees WHERE member_id = ?)
		 ORDER BY start_time`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events by member: %w", err)
	}
	return s.collect(rows)
}

// ListUpcoming returns active events starting within [from, until).
func (s *EventStore) ListUpcoming(from, until time.Time) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventCols+` FROM events
		 WHERE deleted_at IS NULL AND start_time >= ? AND start_time < ?
		 ORDER BY start_time`,
		from.UTC(), until.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query upcoming events: %w", err)
	}
	return s.collect(rows)
}

func (s *EventStore) collect(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		if err := s.attachRelations(&events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *EventStore) attachRelations(e *model.Event) error {
	rows, err := s.db.Query(
		"SELECT member_id FROM event_assignees WHERE event_id = ? ORDER BY member_id", e.ID,
	)
	if err != nil {
		return fmt.Errorf("query assignees: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan assignee: %w", err)
		}
		e.AssignedTo = append(e.AssignedTo, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	items, err := s.db.Query(
		"SELECT id, event_id, text, completed, sort_order FROM event_checklist WHERE event_id = ? ORDER BY sort_order", e.ID,
	)
	if err != nil {
		return fmt.Errorf("query checklist: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var it model.ChecklistItem
		var completed int
		if err := items.Scan(&it.ID, &it.EventID, &it.Text, &completed, &it.SortOrder); err != nil {
			return fmt.Errorf("scan checklist item: %w", err)
		}
		it.Completed = completed != 0
		e.Checklist = append(e.Checklist, it)
	}
	return items.Err()
}

func replaceAssignees(tx *sql.Tx, eventID int64, memberIDs []int64) error {
	if _, err := tx.Exec("DELETE FROM event_assignees WHERE event_id = ?", eventID); err != nil {
		return fmt.Errorf("clear assignees: %w", err)
	}
	for _, mid := range memberIDs {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO event_assignees (event_id, member_id) VALUES (?, ?)",
			eventID, mid,
		); err != nil {
			return fmt.Errorf("insert assignee: %w", err)
		}
	}
	return nil
}

func (s *EventStore) Update(id int64, in EventInput) (*model.Event, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var mealID sql.NullInt64
	if in.MealID != nil {
		mealID = sql.NullInt64{Int64: *in.MealID, Valid: true}
	}
	if in.Recurring == "" {
		in.Recurring = "none"
	}

	_, err = tx.Exec(
		`UPDATE events
		 SET title = ?, notes = ?, start_time = ?, end_time = ?, category = ?, location = ?,
		     transportation = ?, meal_id = ?, recurring = ?, status = ?, color = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Title, in.Notes, in.StartTime.UTC(), in.EndTime.UTC(),
		in.Category, in.Location, in.Transportation, mealID,
		in.Recurring, in.Status, in.Color, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if err := replaceAssignees(tx, id, in.AssignedTo); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return s.GetByID(id)
}

// SoftDelete tombstones the event, starting its undo window.
func (s *EventStore) SoftDelete(id int64, at time.Time) error {
	_, err := s.db.Exec(
		"UPDATE events SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete event: %w", err)
	}
	return nil
}

// Restore clears a tombstone. Returns the restored event, or nil when the
// event does not exist or was already purged.
func (s *EventStore) Restore(id int64) (*model.Event, error) {
	_, err := s.db.Exec("UPDATE events SET deleted_at = NULL WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("restore event: %w", err)
	}
	return s.GetByID(id)
}

// PurgeDeleted hard-deletes events tombstoned before the cutoff and returns
// how many were removed.
func (s *EventStore) PurgeDeleted(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(
		"DELETE FROM events WHERE deleted_at IS NOT NULL AND deleted_at <= ?",
		cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("purge deleted events: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

// AddChecklistItem appends an item to the event's checklist.
func (s *EventStore) AddChecklistItem(eventID int64, text string) (*model.Event, error) {
	var maxOrder int
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(sort_order), -1) FROM event_checklist WHERE event_id = ?", eventID,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO event_checklist (event_id, text, sort_order) VALUES (?, ?, ?)",
		eventID, text, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert checklist item: %w", err)
	}
	return s.GetByID(eventID)
}

// ToggleChecklistItem flips an item's completed flag.
func (s *EventStore) ToggleChecklistItem(eventID, itemID int64) (*model.Event, error) {
	_, err := s.db.Exec(
		"UPDATE event_checklist SET completed = 1 - completed WHERE id = ? AND event_id = ?",
		itemID, eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle checklist item: %w", err)
	}
	return s.GetByID(eventID)
}

// DeleteChecklistItem removes an item from the event's checklist.
func (s *EventStore) DeleteChecklistItem(eventID, itemID int64) error {
	_, err := s.db.Exec(
		"DELETE FROM event_checklist WHERE id = ? AND event_id = ?",
		itemID, eventID,
	)
	if err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	return nil
}
