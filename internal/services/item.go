package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/sse"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ItemService struct {
	db       *database.DB
	access   *AccessService
	cascade  *CascadeService
	notifier *NotificationService
	hub      *sse.Hub
}

func NewItemService(db *database.DB, access *AccessService, cascade *CascadeService, notifier *NotificationService, hub *sse.Hub) *ItemService {
	return &ItemService{db: db, access: access, cascade: cascade, notifier: notifier, hub: hub}
}

// ItemUpdate carries the optional fields of an item patch. Nil means leave
// unchanged; ClearAssignee removes the assignee explicitly.
type ItemUpdate struct {
	Text          *string
	State         *models.ItemState
	AssigneeID    *uuid.UUID
	ClearAssignee bool
	StartDate     *time.Time
	DueDate       *time.Time
}

func (s *ItemService) Create(ctx context.Context, actorID, listID uuid.UUID, text string, state models.ItemState) (*models.Item, error) {
	ok, err := s.access.HasAccessToList(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var item models.Item
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO items (list_id, text, state)
		VALUES ($1, $2, $3)
		RETURNING id, list_id, text, state, assignee_id, start_date, due_date, created_at, updated_at
	`, listID, text, state).Scan(
		&item.ID, &item.ListID, &item.Text, &item.State, &item.AssigneeID,
		&item.StartDate, &item.DueDate, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToList(listID, "item.created", item)
	}
	return &item, nil
}

func (s *ItemService) GetByID(ctx context.Context, itemID uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, list_id, text, state, assignee_id, start_date, due_date, created_at, updated_at
		FROM items WHERE id = $1
	`, itemID).Scan(
		&item.ID, &item.ListID, &item.Text, &item.State, &item.AssigneeID,
		&item.StartDate, &item.DueDate, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *ItemService) GetByList(ctx context.Context, actorID, listID uuid.UUID) ([]models.Item, error) {
	ok, err := s.access.HasAccessToList(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, list_id, text, state, assignee_id, start_date, due_date, created_at, updated_at
		FROM items WHERE list_id = $1
		ORDER BY created_at
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(
			&item.ID, &item.ListID, &item.Text, &item.State, &item.AssigneeID,
			&item.StartDate, &item.DueDate, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update patches the item. Assigning it to a new user other than the actor
// fires the assignment notification.
func (s *ItemService) Update(ctx context.Context, actorID, itemID uuid.UUID, update ItemUpdate) (*models.Item, error) {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.HasAccessToList(ctx, actorID, item.ListID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	text := item.Text
	if update.Text != nil {
		text = *update.Text
	}
	state := item.State
	if update.State != nil {
		state = *update.State
	}
	assigneeID := item.AssigneeID
	if update.ClearAssignee {
		assigneeID = nil
	} else if update.AssigneeID != nil {
		assigneeID = update.AssigneeID
	}
	startDate := item.StartDate
	if update.StartDate != nil {
		startDate = update.StartDate
	}
	dueDate := item.DueDate
	if update.DueDate != nil {
		dueDate = update.DueDate
	}

	assigneeChanged := assigneeID != nil &&
		(item.AssigneeID == nil || *item.AssigneeID != *assigneeID)

	err = s.db.Pool.QueryRow(ctx, `
		UPDATE items SET text = $1, state = $2, assignee_id = $3, start_date = $4, due_date = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, list_id, text, state, assignee_id, start_date, due_date, created_at, updated_at
	`, text, state, assigneeID, startDate, dueDate, itemID).Scan(
		&item.ID, &item.ListID, &item.Text, &item.State, &item.AssigneeID,
		&item.StartDate, &item.DueDate, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assigneeChanged && *assigneeID != actorID {
		s.notifier.EmitAssignment(ctx, *assigneeID, actorID, itemID)
	}

	if s.hub != nil {
		s.hub.BroadcastToList(item.ListID, "item.updated", item)
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, actorID, itemID uuid.UUID) error {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return err
	}

	ok, err := s.access.HasAccessToList(ctx, actorID, item.ListID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	if err := s.cascade.DeleteItemTree(ctx, itemID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToList(item.ListID, "item.deleted", map[string]uuid.UUID{"item_id": itemID})
	}
	return nil
}
