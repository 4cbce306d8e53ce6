package store

import (
	"testing"
	"time"
)

func TestBackupCreateAndLatest(t *testing.T) {
	s := NewBackupStore(openTestDB(t))

	if _, err := s.Create("backups/2026-08-01.db.enc", 1024); err != nil {
		t.Fatalf("create backup record: %v", err)
	}
	// The timestamps come from time.Now, so force an ordering gap.
	time.Sleep(5 * time.Millisecond)
	if _, err := s.Create("backups/2026-08-02.db.enc", 2048); err != nil {
		t.Fatalf("create backup record: %v", err)
	}

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil {
		t.Fatal("expected a latest backup")
	}
	if latest.ObjectKey != "backups/2026-08-02.db.enc" {
		t.Errorf("latest = %q, want %q", latest.ObjectKey, "backups/2026-08-02.db.enc")
	}

	total, err := s.TotalSize()
	if err != nil {
		t.Fatalf("total size: %v", err)
	}
	if total != 3072 {
		t.Errorf("total size = %d, want 3072", total)
	}
}

func TestBackupDeleteOlderThan(t *testing.T) {
	s := NewBackupStore(openTestDB(t))

	if _, err := s.Create("backups/old.db.enc", 100); err != nil {
		t.Fatalf("create backup record: %v", err)
	}

	keys, err := s.DeleteOlderThan(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("delete older than: %v", err)
	}
	if len(keys) != 1 || keys[0] != "backups/old.db.enc" {
		t.Errorf("deleted keys = %v, want [backups/old.db.enc]", keys)
	}

	records, err := s.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("list has %d records, want 0", len(records))
	}
}
