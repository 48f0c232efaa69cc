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

type CommentHandler struct {
	commentService CommentServiceInterface
}

func NewCommentHandler(commentService CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *drift.Context) {
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

	var req dto.CreateCommentRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	comment, err := h.commentService.Add(context.Background(), userID, itemID, req.Text)
	if err != nil {
		h.respondCommentError(c, err)
		return
	}

	_ = c.JSON(201, comment)
}

func (h *CommentHandler) List(c *drift.Context) {
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

	comments, err := h.commentService.GetByItem(context.Background(), userID, itemID)
	if err != nil {
		h.respondCommentError(c, err)
		return
	}

	_ = c.JSON(200, comments)
}

func (h *CommentHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid comment id")
		return
	}

	if err := h.commentService.Delete(context.Background(), userID, commentID); err != nil {
		h.respondCommentError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "comment deleted"})
}

func (h *CommentHandler) respondCommentError(c *drift.Context, err error) {
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		c.NotFound("item not found")
	case errors.Is(err, services.ErrCommentNotFound):
		c.NotFound("comment not found")
	case errors.Is(err, services.ErrUnauthorized):
		c.Forbidden("you cannot access this comment")
	default:
		c.InternalServerError("request failed")
	}
}
