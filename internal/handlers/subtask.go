package handlers

import (
	"context"
	"errors"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/dotlib/dotlib-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type SubtaskHandler struct {
	subtaskService SubtaskServiceInterface
}

func NewSubtaskHandler(subtaskService SubtaskServiceInterface) *SubtaskHandler {
	return &SubtaskHandler{subtaskService: subtaskService}
}

func (h *SubtaskHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.BadRequest("invalid item id")
		return
	}

	var req dto.CreateSubtaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	state := models.SubtaskStateTodo
	if req.State != "" {
		state = models.SubtaskState(req.State)
	}

	subtask, err := h.subtaskService.Create(context.Background(), userID, itemID, req.Text, state)
	if err != nil {
		h.respondSubtaskError(c, err)
		return
	}

	_ = c.JSON(201, subtask)
}

func (h *SubtaskHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.BadRequest("invalid item id")
		return
	}

	subtasks, err := h.subtaskService.GetByItem(context.Background(), userID, itemID)
	if err != nil {
		h.respondSubtaskError(c, err)
		return
	}

	_ = c.JSON(200, subtasks)
}

func (h *SubtaskHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	subtaskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid subtask id")
		return
	}

	var req dto.UpdateSubtaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	var state *models.SubtaskState
	if req.State != nil {
		s := models.SubtaskState(*req.State)
		state = &s
	}

	subtask, err := h.subtaskService.Update(context.Background(), userID, subtaskID, req.Text, state)
	if err != nil {
		h.respondSubtaskError(c, err)
		return
	}

	_ = c.JSON(200, subtask)
}

func (h *SubtaskHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	subtaskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid subtask id")
		return
	}

	if err := h.subtaskService.Delete(context.Background(), userID, subtaskID); err != nil {
		h.respondSubtaskError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "subtask deleted"})
}

func (h *SubtaskHandler) respondSubtaskError(c *drift.Context, err error) {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		c.NotFound("item not found")
	case errors.Is(err, services.ErrSubtaskNotFound):
		c.NotFound("subtask not found")
	case errors.Is(err, services.ErrUnauthorized):
		c.Forbidden("you cannot access this subtask")
	default:
		c.InternalServerError("request failed")
	}
}
