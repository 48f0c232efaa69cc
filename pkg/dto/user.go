package dto

import (
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
)

type CreateProfileRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
}

func NewUserResponse(user *models.User) UserResponse {
	resp := UserResponse{ID: user.ID}
	if user.Username != nil {
		resp.Username = *user.Username
	}
	if user.Email != nil {
		resp.Email = *user.Email
	}
	return resp
}
