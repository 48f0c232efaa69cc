package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationAssignment NotificationType = "assignment"
	NotificationComment    NotificationType = "comment"
	NotificationInvitation NotificationType = "invitation"
)

// Notification rows are created by the emitter as a side effect of other
// operations, never directly by a client.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	ActorID     uuid.UUID        `json:"actor_id"`
	Type        NotificationType `json:"type"`
	ItemID      *uuid.UUID       `json:"item_id,omitempty"`
	TeamID      *uuid.UUID       `json:"team_id,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
	ActorName   string           `json:"actor_name,omitempty"`
}

type Webhook struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"created_at"`
}
