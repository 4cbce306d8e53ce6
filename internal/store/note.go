package store

import (
	"database/sql"
	"fmt"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

const noteCols = `id, title, content, type, pinned, color, created_at, updated_at`

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	var pinned int

	err := scanner.Scan(&n.ID, &n.Title, &n.Content, &n.Type, &pinned, &n.Color, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	n.Pinned = pinned != 0
	return &n, nil
}

func (s *NoteStore) Create(title, content, noteType, color string, pinned bool) (*model.Note, error) {
	if noteType == "" {
		noteType = model.NoteTypeFreeform
	}
	var p int
	if pinned {
		p = 1
	}

	result, err := s.db.Exec(
		"INSERT INTO notes (title, content, type, pinned, color) VALUES (?, ?, ?, ?, ?)",
		title, content, noteType, p, color,
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *NoteStore) GetByID(id int64) (*model.Note, error) {
	row := s.db.QueryRow("SELECT "+noteCols+" FROM notes WHERE id = ?", id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if err := s.attachItems(n); err != nil {
		return nil, err
	}
	return n, nil
}

// List returns notes ordered pinned-first, newest-first. An empty noteType
// lists everything; "shopping" lists only shopping lists.
func (s *NoteStore) List(noteType string) ([]model.Note, error) {
	query := "SELECT " + noteCols + " FROM notes"
	var args []any
	if noteType != "" {
		query += " WHERE type = ?"
		args = append(args, noteType)
	}
	query += " ORDER BY pinned DESC, created_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range notes {
		if err := s.attachItems(&notes[i]); err != nil {
			return nil, err
		}
	}
	return notes, nil
}

func (s *NoteStore) attachItems(n *model.Note) error {
	rows, err := s.db.Query(
		"SELECT id, note_id, text, completed, sort_order FROM note_items WHERE note_id = ? ORDER BY sort_order", n.ID,
	)
	if err != nil {
		return fmt.Errorf("query note items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it model.NoteItem
		var completed int
		if err := rows.Scan(&it.ID, &it.NoteID, &it.Text, &completed, &it.SortOrder); err != nil {
			return fmt.Errorf("scan note item: %w", err)
		}
		it.Completed = completed != 0
		n.Items = append(n.Items, it)
	}
	return rows.Err()
}

func (s *NoteStore) Update(id int64, title, content, noteType, color string, pinned bool) (*model.Note, error) {
	var p int
	if pinned {
		p = 1
	}
	_, err := s.db.Exec(
		`UPDATE notes SET title = ?, content = ?, type = ?, pinned = ?, color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, content, noteType, p, color, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.GetByID(id)
}

func (s *NoteStore) TogglePinned(id int64) (*model.Note, error) {
	_, err := s.db.Exec("UPDATE notes SET pinned = 1 - pinned WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("toggle pinned: %w", err)
	}
	return s.GetByID(id)
}

func (s *NoteStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// AddItem appends a checklist/shopping item to the note.
func (s *NoteStore) AddItem(noteID int64, text string) (*model.Note, error) {
	var maxOrder int
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(sort_order), -1) FROM note_items WHERE note_id = ?", noteID,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO note_items (note_id, text, sort_order) VALUES (?, ?, ?)",
		noteID, text, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert note item: %w", err)
	}
	return s.GetByID(noteID)
}

// ToggleItem flips an item's completed flag.
func (s *NoteStore) ToggleItem(noteID, itemID int64) (*model.Note, error) {
	_, err := s.db.Exec(
		"UPDATE note_items SET completed = 1 - completed WHERE id = ? AND note_id = ?",
		itemID, noteID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle note item: %w", err)
	}
	return s.GetByID(noteID)
}

// DeleteItem removes one item from the note.
func (s *NoteStore) DeleteItem(noteID, itemID int64) error {
	_, err := s.db.Exec("DELETE FROM note_items WHERE id = ? AND note_id = ?", itemID, noteID)
	if err != nil {
		return fmt.Errorf("delete note item: %w", err)
	}
	return nil
}

// ClearCompleted removes all completed items, used by shopping lists after
// a store run. Returns the number removed.
func (s *NoteStore) ClearCompleted(noteID int64) (int64, error) {
	result, err := s.db.Exec("DELETE FROM note_items WHERE note_id = ? AND completed = 1", noteID)
	if err != nil {
		return 0, fmt.Errorf("clear completed items: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
