package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type PushStore struct {
	db *sql.DB
}

func NewPushStore(db *sql.DB) *PushStore {
	return &PushStore{db: db}
}

const subscriptionCols = `id, member_id, endpoint, p256dh_key, auth_key, device_name, created_at`

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	var memberID sql.NullInt64

	err := scanner.Scan(&sub.ID, &memberID, &sub.Endpoint, &sub.P256dhKey, &sub.AuthKey, &sub.DeviceName, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	if memberID.Valid {
		sub.MemberID = &memberID.Int64
	}
	return &sub, nil
}

// CreateSubscription upserts on endpoint so a browser re-subscribing with
// fresh keys replaces its old record.
func (s *PushStore) CreateSubscription(memberID *int64, endpoint, p256dh, auth, deviceName string) (*model.PushSubscription, error) {
	var member sql.NullInt64
	if memberID != nil {
		member = sql.NullInt64{Int64: *memberID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO push_subscriptions (member_id, endpoint, p256dh_key, auth_key, device_name)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET p256dh_key = excluded.p256dh_key, auth_key = excluded.auth_key, device_name = excluded.device_name`,
		member, endpoint, p256dh, auth, deviceName,
	)
	if err != nil {
		return nil, fmt.Errorf("create push subscription: %w", err)
	}
	id, _ := result.LastInsertId()

	// LastInsertId may be 0 on conflict update; re-query by endpoint
	if id == 0 {
		return s.GetByEndpoint(endpoint)
	}
	return s.GetByID(id)
}

func (s *PushStore) GetByID(id int64) (*model.PushSubscription, error) {
	row := s.db.QueryRow("SELECT "+subscriptionCols+" FROM push_subscriptions WHERE id = ?", id)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get push subscription: %w", err)
	}
	return sub, nil
}

func (s *PushStore) GetByEndpoint(endpoint string) (*model.PushSubscription, error) {
	row := s.db.QueryRow("SELECT "+subscriptionCols+" FROM push_subscriptions WHERE endpoint = ?", endpoint)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get push subscription by endpoint: %w", err)
	}
	return sub, nil
}

func (s *PushStore) List() ([]model.PushSubscription, error) {
	rows, err := s.db.Query("SELECT " + subscriptionCols + " FROM push_subscriptions ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan push subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// ListForMember returns the member's subscriptions plus any device-level
// subscriptions not tied to a member.
func (s *PushStore) ListForMember(memberID int64) ([]model.PushSubscription, error) {
	rows, err := s.db.Query(
		"SELECT "+subscriptionCols+" FROM push_subscriptions WHERE member_id = ? OR member_id IS NULL ORDER BY created_at DESC",
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list push subscriptions for member: %w", err)
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan push subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *PushStore) DeleteSubscription(id int64) error {
	_, err := s.db.Exec("DELETE FROM push_subscriptions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

// DeleteByEndpoint removes a subscription the push service reported gone.
func (s *PushStore) DeleteByEndpoint(endpoint string) error {
	_, err := s.db.Exec("DELETE FROM push_subscriptions WHERE endpoint = ?", endpoint)
	if err != nil {
		return fmt.Errorf("delete push subscription by endpoint: %w", err)
	}
	return nil
}

// RecordSent records that a notification went out (for dedup).
func (s *PushStore) RecordSent(notifType, refID string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO push_sent (notification_type, ref_id) VALUES (?, ?)",
		notifType, refID,
	)
	if err != nil {
		return fmt.Errorf("record sent notification: %w", err)
	}
	return nil
}

// WasSent checks if a notification already went out.
func (s *PushStore) WasSent(notifType, refID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM push_sent WHERE notification_type = ? AND ref_id = ?",
		notifType, refID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check sent notification: %w", err)
	}
	return count > 0, nil
}

// CleanupSent deletes dedup records older than the given time.
func (s *PushStore) CleanupSent(before time.Time) error {
	_, err := s.db.Exec("DELETE FROM push_sent WHERE created_at < ?", before.UTC())
	if err != nil {
		return fmt.Errorf("cleanup sent notifications: %w", err)
	}
	return nil
}
