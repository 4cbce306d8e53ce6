package model

import "time"

const (
	RoleParent = "parent"
	RoleChild  = "child"
)

type FamilyMember struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Role             string    `json:"role"`
	Color            string    `json:"color"`
	AvatarEmoji      string    `json:"avatar_emoji"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	EmergencyContact string    `json:"emergency_contact"`
	HasPIN           bool      `json:"has_pin"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CanManage reports whether the member may edit budgets, bills and
// other parent-only resources.
func (m FamilyMember) CanManage() bool {
	return m.Role == RoleParent
}
