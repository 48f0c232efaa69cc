package handlers

import (
	"context"
	"errors"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/dotlib/dotlib-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// InvitationHandler serves the invitee's side of the invitation workflow.
type InvitationHandler struct {
	teamService TeamServiceInterface
}

func NewInvitationHandler(teamService TeamServiceInterface) *InvitationHandler {
	return &InvitationHandler{teamService: teamService}
}

func (h *InvitationHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitations, err := h.teamService.GetUserPendingInvitations(context.Background(), userID)
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

func (h *InvitationHandler) Accept(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	if err := h.teamService.AcceptInvitation(context.Background(), invitationID, userID); err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			c.NotFound("invitation not found")
			return
		}
		c.InternalServerError("failed to accept invitation")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation accepted"})
}

func (h *InvitationHandler) Decline(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	invitationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid invitation id")
		return
	}

	if err := h.teamService.DeclineInvitation(context.Background(), invitationID, userID); err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			c.NotFound("invitation not found")
			return
		}
		c.InternalServerError("failed to decline invitation")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "invitation declined"})
}
