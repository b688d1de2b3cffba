package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleHead   Role = "Head"
	RoleMember Role = "Member"
)

type Group struct {
	ID          int64     `db:"group_id" json:"id"`
	Name        string    `db:"group_name" json:"name"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
	CreatorName string    `json:"creator_name,omitempty"`
	InviteCode  string    `db:"invite_code" json:"invite_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	// Role of the requesting user, set only when groups are listed per user.
	Role Role `db:"member_role" json:"role,omitempty"`
}

// Membership is keyed by (GroupID, UserID).
type Membership struct {
	ID       int64     `db:"membership_id" json:"id"`
	GroupID  int64     `db:"group_id" json:"group_id"`
	UserID   uuid.UUID `db:"user_id" json:"user_id"`
	Role     Role      `db:"member_role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

type Member struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}
