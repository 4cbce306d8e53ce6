package store

import (
	"database/sql"
	"fmt"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
)

type FamilyMemberStore struct {
	db *sql.DB
}

func NewFamilyMemberStore(db *sql.DB) *FamilyMemberStore {
	return &FamilyMemberStore{db: db}
}

const memberCols = `id, name, role, color, avatar_emoji, phone, email, emergency_contact, pin_hash IS NOT NULL, sort_order, created_at, updated_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.FamilyMember, error) {
	var m model.FamilyMember
	err := scanner.Scan(
		&m.ID, &m.Name, &m.Role, &m.Color, &m.AvatarEmoji,
		&m.Phone, &m.Email, &m.EmergencyContact,
		&m.HasPIN, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *FamilyMemberStore) Create(name, role, color, avatarEmoji, phone, email, emergencyContact string) (*model.FamilyMember, error) {
	var maxOrder int
	err := s.db.QueryRow("SELECT COALESCE(MAX(sort_order), -1) FROM family_members").Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO family_members (name, role, color, avatar_emoji, phone, email, emergency_contact, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name, role, color, avatarEmoji, phone, email, emergencyContact, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert family member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

func (s *FamilyMemberStore) List() ([]model.FamilyMember, error) {
	rows, err := s.db.Query("SELECT " + memberCols + " FROM family_members ORDER BY sort_order")
	if err != nil {
		return nil, fmt.Errorf("query family members: %w", err)
	}
	defer rows.Close()

	var members []model.FamilyMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *FamilyMemberStore) GetByID(id int64) (*model.FamilyMember, error) {
	row := s.db.QueryRow("SELECT "+memberCols+" FROM family_members WHERE id = ?", id)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query family member: %w", err)
	}
	return m, nil
}

func (s *FamilyMemberStore) Update(id int64, name, role, color, avatarEmoji, phone, email, emergencyContact string) (*model.FamilyMember, error) {
	_, err := s.db.Exec(
		`UPDATE family_members
		 SET name = ?, role = ?, color = ?, avatar_emoji = ?, phone = ?, email = ?, emergency_contact = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, role, color, avatarEmoji, phone, email, emergencyContact, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update family member: %w", err)
	}
	return s.GetByID(id)
}

func (s *FamilyMemberStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM family_members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete family member: %w", err)
	}
	return nil
}

func (s *FamilyMemberStore) UpdateSortOrder(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE family_members SET sort_order = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.Exec(i, id); err != nil {
			return fmt.Errorf("update sort order for id %d: %w", id, err)
		}
	}

	return tx.Commit()
}

func (s *FamilyMemberStore) SetPIN(id int64, hashedPIN string) error {
	_, err := s.db.Exec("UPDATE family_members SET pin_hash = ? WHERE id = ?", hashedPIN, id)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	return nil
}

func (s *FamilyMemberStore) ClearPIN(id int64) error {
	_, err := s.db.Exec("UPDATE family_members SET pin_hash = NULL WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("clear pin: %w", err)
	}
	return nil
}

// GetPINHash returns the stored hash, or empty string when no PIN is set.
func (s *FamilyMemberStore) GetPINHash(id int64) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRow("SELECT pin_hash FROM family_members WHERE id = ?", id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pin hash: %w", err)
	}
	return hash.String, nil
}
