package store

import (
	"testing"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

func TestNoteCreateAndGet(t *testing.T) {
	s := NewNoteStore(openTestDB(t))

	note, err := s.Create("Groceries", "", model.NoteTypeShopping, "#FDE68A", false)
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	if note.Title != "Groceries" {
		t.Errorf("title = %q, want %q", note.Title, "Groceries")
	}
	if note.Type != model.NoteTypeShopping {
		t.Errorf("type = %q, want %q", note.Type, model.NoteTypeShopping)
	}
	if note.Pinned {
		t.Error("new note should not be pinned")
	}
}

func TestNoteItems(t *testing.T) {
	s := NewNoteStore(openTestDB(t))

	note, err := s.Create("Shopping", "", model.NoteTypeShopping, "", false)
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	note, err = s.AddItem(note.ID, "Milk")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	note, err = s.AddItem(note.ID, "Eggs")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(note.Items) != 2 {
		t.Fatalf("note has %d items, want 2", len(note.Items))
	}
	if note.Items[0].Text != "Milk" {
		t.Errorf("first item = %q, want %q", note.Items[0].Text, "Milk")
	}

	note, err = s.ToggleItem(note.ID, note.Items[0].ID)
	if err != nil {
		t.Fatalf("toggle item: %v", err)
	}
	if !note.Items[0].Completed {
		t.Error("item should be completed after toggle")
	}

	cleared, err := s.ClearCompleted(note.ID)
	if err != nil {
		t.Fatalf("clear completed: %v", err)
	}
	if cleared != 1 {
		t.Errorf("cleared %d items, want 1", cleared)
	}

	note, err = s.GetByID(note.ID)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if len(note.Items) != 1 || note.Items[0].Text != "Eggs" {
		t.Errorf("remaining items = %v, want only Eggs", note.Items)
	}
}

func TestNoteListFiltersByType(t *testing.T) {
	s := NewNoteStore(openTestDB(t))

	if _, err := s.Create("Ideas", "Paint the fence", model.NoteTypeFreeform, "", false); err != nil {
		t.Fatalf("create note: %v", err)
	}
	if _, err := s.Create("Chores", "", model.NoteTypeChecklist, "", false); err != nil {
		t.Fatalf("create note: %v", err)
	}

	notes, err := s.List(model.NoteTypeChecklist)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("filtered list has %d notes, want 1", len(notes))
	}
	if notes[0].Title != "Chores" {
		t.Errorf("filtered note = %q, want %q", notes[0].Title, "Chores")
	}

	all, err := s.List("")
	if err != nil {
		t.Fatalf("list all notes: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("full list has %d notes, want 2", len(all))
	}
}

func TestNoteTogglePinned(t *testing.T) {
	s := NewNoteStore(openTestDB(t))

	note, err := s.Create("Important", "", model.NoteTypeFreeform, "", false)
	if err != nil {
		t.Fatalf("create note: %v", err)
	}

	note, err = s.TogglePinned(note.ID)
	if err != nil {
		t.Fatalf("toggle pinned: %v", err)
	}
	if !note.Pinned {
		t.Error("note should be pinned after toggle")
	}
}
