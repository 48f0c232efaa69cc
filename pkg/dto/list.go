package dto

import "github.com/google/uuid"

type CreateListRequest struct {
	Name   string     `json:"name" validate:"required,min=1,max=255"`
	TeamID *uuid.UUID `json:"team_id,omitempty"`
}

type RenameListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}
