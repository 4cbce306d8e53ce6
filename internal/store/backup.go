package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type BackupStore struct {
	db *sql.DB
}

func NewBackupStore(db *sql.DB) *BackupStore {
	return &BackupStore{db: db}
}

func (s *BackupStore) Create(objectKey string, sizeBytes int64) (*model.BackupRecord, error) {
	now := time.Now().UTC()
	result, err := s.db.Exec(
		"INSERT INTO backups (object_key, size_bytes, created_at) VALUES (?, ?, ?)",
		objectKey, sizeBytes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create backup record: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.BackupRecord{
		ID:        id,
		ObjectKey: objectKey,
		SizeBytes: sizeBytes,
		CreatedAt: now,
	}, nil
}

func (s *BackupStore) List(limit int) ([]model.BackupRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, object_key, size_bytes, created_at FROM backups ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var backups []model.BackupRecord
	for rows.Next() {
		var b model.BackupRecord
		if err := rows.Scan(&b.ID, &b.ObjectKey, &b.SizeBytes, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan backup: %w", err)
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

func (s *BackupStore) Latest() (*model.BackupRecord, error) {
	var b model.BackupRecord
	err := s.db.QueryRow(
		"SELECT id, object_key, size_bytes, created_at FROM backups ORDER BY created_at DESC LIMIT 1",
	).Scan(&b.ID, &b.ObjectKey, &b.SizeBytes, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest backup: %w", err)
	}
	return &b, nil
}

// DeleteOlderThan removes records older than the given time and returns
// their object keys so the caller can clean up remote storage.
func (s *BackupStore) DeleteOlderThan(before time.Time) ([]string, error) {
	rows, err := s.db.Query("SELECT object_key FROM backups WHERE created_at < ?", before.UTC())
	if err != nil {
		return nil, fmt.Errorf("select old backups: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan object key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	_, err = s.db.Exec("DELETE FROM backups WHERE created_at < ?", before.UTC())
	if err != nil {
		return nil, fmt.Errorf("delete old backups: %w", err)
	}
	return keys, nil
}

func (s *BackupStore) TotalSize() (int64, error) {
	var total sql.NullInt64
	err := s.db.QueryRow("SELECT SUM(size_bytes) FROM backups").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total backup size: %w", err)
	}
	if !total.Valid {
		return 0, nil
	}
	return total.Int64, nil
}
