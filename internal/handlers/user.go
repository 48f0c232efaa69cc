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

type UserHandler struct {
	userService    UserServiceInterface
	accountService AccountServiceInterface
}

func NewUserHandler(userService UserServiceInterface, accountService AccountServiceInterface) *UserHandler {
	return &UserHandler{
		userService:    userService,
		accountService: accountService,
	}
}

func (h *UserHandler) Me(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, dto.NewUserResponse(user))
}

func (h *UserHandler) CreateProfile(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	user, err := h.userService.CreateProfile(context.Background(), userID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			c.BadRequest("username is taken")
		case errors.Is(err, services.ErrProfileExists):
			c.BadRequest("profile already created")
		default:
			c.InternalServerError("failed to create profile")
		}
		return
	}

	_ = c.JSON(201, dto.NewUserResponse(user))
}

func (h *UserHandler) GetByUsername(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	user, err := h.userService.GetByUsername(context.Background(), c.Param("username"))
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, dto.UserResponse{ID: user.ID, Username: derefString(user.Username)})
}

// DeleteAccount removes the caller's account. Teams they belong to are
// handed over or deleted, then their sessions are gone with the user row.
func (h *UserHandler) DeleteAccount(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.accountService.DeleteAccount(context.Background(), userID); err != nil {
		c.InternalServerError("failed to delete account")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "account deleted"})
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
