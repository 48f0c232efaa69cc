package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a team membership role. The team owner always holds RoleAdmin.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	// RoleNone marks the absence of a membership; it is never stored.
	RoleNone Role = ""
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TeamMember struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
}

type Invitation struct {
	ID        uuid.UUID    `json:"id"`
	TeamID    uuid.UUID    `json:"team_id"`
	InviterID uuid.UUID    `json:"inviter_id"`
	InviteeID uuid.UUID    `json:"invitee_id"`
	Status    InviteStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Team      *Team        `json:"team,omitempty"`
	Inviter   *User        `json:"inviter,omitempty"`
	Invitee   *User        `json:"invitee,omitempty"`
}
