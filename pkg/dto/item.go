package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateItemRequest struct {
	Text  string `json:"text" validate:"required,min=1"`
	State string `json:"state,omitempty" validate:"omitempty,oneof=red yellow green"`
}

type UpdateItemRequest struct {
	Text          *string    `json:"text,omitempty" validate:"omitempty,min=1"`
	State         *string    `json:"state,omitempty" validate:"omitempty,oneof=red yellow green"`
	AssigneeID    *uuid.UUID `json:"assignee_id,omitempty"`
	ClearAssignee bool       `json:"clear_assignee,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}

type CreateSubtaskRequest struct {
	Text  string `json:"text" validate:"required,min=1"`
	State string `json:"state,omitempty" validate:"omitempty,oneof=todo in-progress done"`
}

type UpdateSubtaskRequest struct {
	Text  *string `json:"text,omitempty" validate:"omitempty,min=1"`
	State *string `json:"state,omitempty" validate:"omitempty,oneof=todo in-progress done"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}
