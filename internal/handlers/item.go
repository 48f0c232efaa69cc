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

type ItemHandler struct {
	itemService      ItemServiceInterface
	breakdownService BreakdownServiceInterface
}

func NewItemHandler(itemService ItemServiceInterface, breakdownService BreakdownServiceInterface) *ItemHandler {
	return &ItemHandler{
		itemService:      itemService,
		breakdownService: breakdownService,
	}
}

func (h *ItemHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	var req dto.CreateItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	state := models.ItemStateRed
	if req.State != "" {
		state = models.ItemState(req.State)
	}

	item, err := h.itemService.Create(context.Background(), userID, listID, req.Text, state)
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	_ = c.JSON(201, item)
}

func (h *ItemHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	items, err := h.itemService.GetByList(context.Background(), userID, listID)
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	_ = c.JSON(200, items)
}

func (h *ItemHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid item id")
		return
	}

	var req dto.UpdateItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	update := services.ItemUpdate{
		Text:          req.Text,
		AssigneeID:    req.AssigneeID,
		ClearAssignee: req.ClearAssignee,
		StartDate:     req.StartDate,
		DueDate:       req.DueDate,
	}
	if req.State != nil {
		state := models.ItemState(*req.State)
		update.State = &state
	}

	item, err := h.itemService.Update(context.Background(), userID, itemID, update)
	if err != nil {
		h.respondItemError(c, err)
		return
	}

	_ = c.JSON(200, item)
}

func (h *ItemHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid item id")
		return
	}

	if err := h.itemService.Delete(context.Background(), userID, itemID); err != nil {
		h.respondItemError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "item deleted"})
}

// Breakdown schedules AI subtask generation for the item.
func (h *ItemHandler) Breakdown(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid item id")
		return
	}

	if err := h.breakdownService.Breakdown(context.Background(), userID, itemID); err != nil {
		h.respondItemError(c, err)
		return
	}

	_ = c.JSON(202, map[string]string{"message": "breakdown scheduled"})
}

func (h *ItemHandler) respondItemError(c *drift.Context, err error) {
	switch {
	case errors.Is(err, services.ErrListNotFound):
		c.NotFound("list not found")
	case errors.Is(err, services.ErrItemNotFound):
		c.NotFound("item not found")
	case errors.Is(err, services.ErrUnauthorized):
		c.Forbidden("you cannot access this item")
	default:
		c.InternalServerError("request failed")
	}
}
