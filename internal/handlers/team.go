package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/dotlib/dotlib-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TeamHandler struct {
	teamService  TeamServiceInterface
	userService  UserServiceInterface
	emailService EmailServiceInterface
	baseURL      string
}

func NewTeamHandler(teamService TeamServiceInterface, userService UserServiceInterface, emailService EmailServiceInterface, baseURL string) *TeamHandler {
	return &TeamHandler{
		teamService:  teamService,
		userService:  userService,
		emailService: emailService,
		baseURL:      baseURL,
	}
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	team, err := h.teamService.Create(context.Background(), req.Name, userID)
	if err != nil {
		c.InternalServerError("failed to create team")
		return
	}

	_ = c.JSON(201, dto.NewTeamResponse(team, "admin"))
}

func (h *TeamHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teams, roles, err := h.teamService.GetUserTeams(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get teams")
		return
	}

	response := make([]dto.TeamResponse, len(teams))
	for i := range teams {
		response[i] = dto.NewTeamResponse(&teams[i], roles[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	teams, roles, err := h.teamService.GetUserTeams(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get team")
		return
	}
	for i := range teams {
		if teams[i].ID == teamID {
			_ = c.JSON(200, dto.NewTeamResponse(&teams[i], roles[i]))
			return
		}
	}

	c.NotFound("team not found")
}

func (h *TeamHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	team, err := h.teamService.Update(context.Background(), teamID, userID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			c.NotFound("team not found")
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("only the owner can update the team")
		default:
			c.InternalServerError("failed to update team")
		}
		return
	}

	_ = c.JSON(200, dto.NewTeamResponse(team, ""))
}

func (h *TeamHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.teamService.Delete(context.Background(), teamID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrTeamNotFound):
			c.NotFound("team not found")
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("only the owner can delete the team")
		default:
			c.InternalServerError("failed to delete team")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "team deleted"})
}

func (h *TeamHandler) GetMembers(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	ctx := context.Background()
	if !h.isMember(ctx, teamID, userID) {
		c.NotFound("team not found")
		return
	}

	members, err := h.teamService.GetMembers(ctx, teamID)
	if err != nil {
		c.InternalServerError("failed to get members")
		return
	}

	response := make([]dto.TeamMemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.TeamMemberResponse{
			ID:     m.ID,
			UserID: m.UserID,
			Role:   string(m.Role),
		}
		if m.User != nil {
			response[i].User = dto.NewUserResponse(m.User)
		}
	}

	_ = c.JSON(200, response)
}

// Invite creates a pending invitation for the named user and, when SMTP is
// configured and the invitee has an email, mails them a link.
func (h *TeamHandler) Invite(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	var req dto.InviteMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	ctx := context.Background()
	invitation, err := h.teamService.SendInvitation(ctx, teamID, userID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("only admins can invite members")
		case errors.Is(err, services.ErrUserNotFound):
			c.NotFound("user not found")
		case errors.Is(err, services.ErrSelfInvite):
			c.BadRequest("you cannot invite yourself")
		case errors.Is(err, services.ErrAlreadyMember):
			c.BadRequest("user is already a member")
		case errors.Is(err, services.ErrDuplicateInvitation):
			c.BadRequest("user already has a pending invitation")
		default:
			c.InternalServerError("failed to send invitation")
		}
		return
	}

	go h.sendInviteEmail(invitation.ID, teamID, userID, req.Username)

	_ = c.JSON(201, dto.NewInvitationResponse(invitation))
}

func (h *TeamHandler) sendInviteEmail(invitationID, teamID, inviterID uuid.UUID, inviteeUsername string) {
	ctx := context.Background()

	invitee, err := h.userService.GetByUsername(ctx, inviteeUsername)
	if err != nil || invitee.Email == nil {
		return
	}
	team, err := h.teamService.GetByID(ctx, teamID)
	if err != nil {
		return
	}
	inviter, err := h.userService.GetByID(ctx, inviterID)
	if err != nil {
		return
	}

	inviterName := derefString(inviter.Username)
	if inviterName == "" {
		inviterName = derefString(inviter.Email)
	}

	inviteURL := fmt.Sprintf("%s/invitations/%s", h.baseURL, invitationID)
	_ = h.emailService.SendTeamInvite(*invitee.Email, team.Name, inviterName, inviteURL)
}

func (h *TeamHandler) ListInvitations(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	ctx := context.Background()
	if !h.isMember(ctx, teamID, userID) {
		c.NotFound("team not found")
		return
	}

	invitations, err := h.teamService.GetTeamPendingInvitations(ctx, teamID)
	if err != nil {
		c.InternalServerError("failed to get invitations")
		return
	}

	response := make([]dto.InvitationResponse, len(invitations))
	for i := range invitations {
		response[i] = dto.NewInvitationResponse(&invitations[i])
	}

	_ = c.JSON(200, response)
}

func (h *TeamHandler) CancelInvitation(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	invitationID, err := uuid.Parse(c.Param("invitationId"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	if err := h.teamService.CancelInvitation(context.Background(), invitationID, teamID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("only admins can cancel invitations")
		case errors.Is(err, services.ErrInvitationNotFound):
			c.NotFound("invitation not found")
		default:
			c.InternalServerError("failed to cancel invitation")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation cancelled"})
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if err := h.teamService.RemoveMember(context.Background(), teamID, userID, targetID); err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("only admins can remove members")
		case errors.Is(err, services.ErrCannotRemoveOwner):
			c.BadRequest("the owner cannot be removed")
		case errors.Is(err, services.ErrMemberNotFound):
			c.NotFound("member not found")
		default:
			c.InternalServerError("failed to remove member")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "member removed"})
}

func (h *TeamHandler) Leave(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid team id")
		return
	}

	if err := h.teamService.Leave(context.Background(), teamID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrCannotRemoveOwner):
			c.BadRequest("the owner cannot leave the team")
		case errors.Is(err, services.ErrTeamNotFound), errors.Is(err, services.ErrMemberNotFound):
			c.NotFound("team not found")
		default:
			c.InternalServerError("failed to leave team")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "left team"})
}

func (h *TeamHandler) isMember(ctx context.Context, teamID, userID uuid.UUID) bool {
	teams, _, err := h.teamService.GetUserTeams(ctx, userID)
	if err != nil {
		return false
	}
	for i := range teams {
		if teams[i].ID == teamID {
			return true
		}
	}
	return false
}
