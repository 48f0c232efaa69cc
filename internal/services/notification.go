package services

import (
	"context"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/sse"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// NotificationService is the emitter: it records user-facing events as a
// side effect of other operations. Emit methods never return an error —
// a failed notification is logged and must not fail the operation that
// triggered it.
type NotificationService struct {
	db  *database.DB
	hub *sse.Hub
	log *logrus.Logger
}

func NewNotificationService(db *database.DB, hub *sse.Hub, log *logrus.Logger) *NotificationService {
	return &NotificationService{db: db, hub: hub, log: log}
}

// EmitAssignment fires when an item's assignee changes to someone other
// than the actor.
func (s *NotificationService) EmitAssignment(ctx context.Context, recipientID, actorID, itemID uuid.UUID) {
	s.emit(ctx, models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        models.NotificationAssignment,
		ItemID:      &itemID,
	})
}

// EmitComment fires when someone comments on an item assigned to another
// user.
func (s *NotificationService) EmitComment(ctx context.Context, recipientID, actorID, itemID uuid.UUID) {
	s.emit(ctx, models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        models.NotificationComment,
		ItemID:      &itemID,
	})
}

// EmitInvitation fires when an invitation is sent.
func (s *NotificationService) EmitInvitation(ctx context.Context, recipientID, actorID, teamID uuid.UUID) {
	s.emit(ctx, models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        models.NotificationInvitation,
		TeamID:      &teamID,
	})
}

func (s *NotificationService) emit(ctx context.Context, n models.Notification) {
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO notifications (recipient_id, actor_id, type, item_id, team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, n.RecipientID, n.ActorID, n.Type, n.ItemID, n.TeamID).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"type":      n.Type,
			"recipient": n.RecipientID,
		}).Warn("failed to record notification")
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToUser(n.RecipientID, "notification", n)
	}
}

// GetUnread returns the recipient's unread notifications, newest first,
// with the actor's username resolved for display.
func (s *NotificationService) GetUnread(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT n.id, n.recipient_id, n.actor_id, n.type, n.item_id, n.team_id, n.read, n.created_at,
		       COALESCE(u.username, 'someone')
		FROM notifications n
		JOIN users u ON n.actor_id = u.id
		WHERE n.recipient_id = $1 AND n.read = FALSE
		ORDER BY n.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.RecipientID, &n.ActorID, &n.Type, &n.ItemID, &n.TeamID,
			&n.Read, &n.CreatedAt, &n.ActorName,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkAsRead flips the read flag. Recipient only; no cascading effect.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, actorID uuid.UUID) error {
	var recipientID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT recipient_id FROM notifications WHERE id = $1
	`, notificationID).Scan(&recipientID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotificationNotFound
		}
		return err
	}

	if recipientID != actorID {
		return ErrUnauthorized
	}

	_, err = s.db.Pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1
	`, notificationID)
	return err
}
