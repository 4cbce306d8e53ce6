package model

import "time"

const (
	NoteTypeFreeform  = "freeform"
	NoteTypeChecklist = "checklist"
	NoteTypeShopping  = "shopping"
)

// Note is a generic checklist/freeform container. Shopping lists are
// notes with Type == NoteTypeShopping.
type Note struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Type      string     `json:"type"`
	Pinned    bool       `json:"pinned"`
	Color     string     `json:"color"`
	Items     []NoteItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type NoteItem struct {
	ID        int64  `json:"id"`
	NoteID    int64  `json:"note_id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	SortOrder int    `json:"sort_order"`
}
