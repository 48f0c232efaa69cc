package dto

import (
	"time"

	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type UpdateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type InviteMemberRequest struct {
	Username string `json:"username" validate:"required"`
}

type TeamResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	OwnerID uuid.UUID `json:"owner_id"`
	Role    string    `json:"role,omitempty"`
}

type TeamMemberResponse struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	Role   string       `json:"role"`
	User   UserResponse `json:"user"`
}

type InvitationResponse struct {
	ID        uuid.UUID     `json:"id"`
	TeamID    uuid.UUID     `json:"team_id"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	Team      *TeamResponse `json:"team,omitempty"`
	Inviter   *UserResponse `json:"inviter,omitempty"`
	Invitee   *UserResponse `json:"invitee,omitempty"`
}

func NewTeamResponse(team *models.Team, role models.Role) TeamResponse {
	return TeamResponse{
		ID:      team.ID,
		Name:    team.Name,
		OwnerID: team.OwnerID,
		Role:    string(role),
	}
}

func NewInvitationResponse(inv *models.Invitation) InvitationResponse {
	resp := InvitationResponse{
		ID:        inv.ID,
		TeamID:    inv.TeamID,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
	}
	if inv.Team != nil {
		team := NewTeamResponse(inv.Team, models.RoleNone)
		resp.Team = &team
	}
	if inv.Inviter != nil {
		inviter := NewUserResponse(inv.Inviter)
		resp.Inviter = &inviter
	}
	if inv.Invitee != nil {
		invitee := NewUserResponse(inv.Invitee)
		resp.Invitee = &invitee
	}
	return resp
}
