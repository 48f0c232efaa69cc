package services

import (
	"context"
	"fmt"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SubtaskService gates every operation on access to the parent item's list.
type SubtaskService struct {
	db     *database.DB
	access *AccessService
}

func NewSubtaskService(db *database.DB, access *AccessService) *SubtaskService {
	return &SubtaskService{db: db, access: access}
}

func (s *SubtaskService) Create(ctx context.Context, actorID, itemID uuid.UUID, text string, state models.SubtaskState) (*models.Subtask, error) {
	ok, err := s.access.HasAccessToItem(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var subtask models.Subtask
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO subtasks (item_id, text, state)
		VALUES ($1, $2, $3)
		RETURNING id, item_id, text, state, created_at, updated_at
	`, itemID, text, state).Scan(
		&subtask.ID, &subtask.ItemID, &subtask.Text, &subtask.State,
		&subtask.CreatedAt, &subtask.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	return &subtask, nil
}

func (s *SubtaskService) GetByItem(ctx context.Context, actorID, itemID uuid.UUID) ([]models.Subtask, error) {
	ok, err := s.access.HasAccessToItem(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, item_id, text, state, created_at, updated_at
		FROM subtasks WHERE item_id = $1
		ORDER BY created_at
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtasks []models.Subtask
	for rows.Next() {
		var subtask models.Subtask
		if err := rows.Scan(
			&subtask.ID, &subtask.ItemID, &subtask.Text, &subtask.State,
			&subtask.CreatedAt, &subtask.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, subtask)
	}
	return subtasks, rows.Err()
}

func (s *SubtaskService) Update(ctx context.Context, actorID, subtaskID uuid.UUID, text *string, state *models.SubtaskState) (*models.Subtask, error) {
	subtask, err := s.getByID(ctx, subtaskID)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.HasAccessToItem(ctx, actorID, subtask.ItemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	newText := subtask.Text
	if text != nil {
		newText = *text
	}
	newState := subtask.State
	if state != nil {
		newState = *state
	}

	err = s.db.Pool.QueryRow(ctx, `
		UPDATE subtasks SET text = $1, state = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, item_id, text, state, created_at, updated_at
	`, newText, newState, subtaskID).Scan(
		&subtask.ID, &subtask.ItemID, &subtask.Text, &subtask.State,
		&subtask.CreatedAt, &subtask.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return subtask, nil
}

func (s *SubtaskService) Delete(ctx context.Context, actorID, subtaskID uuid.UUID) error {
	subtask, err := s.getByID(ctx, subtaskID)
	if err != nil {
		return err
	}

	ok, err := s.access.HasAccessToItem(ctx, actorID, subtask.ItemID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	_, err = s.db.Pool.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, subtaskID)
	return err
}

func (s *SubtaskService) getByID(ctx context.Context, subtaskID uuid.UUID) (*models.Subtask, error) {
	var subtask models.Subtask
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, item_id, text, state, created_at, updated_at
		FROM subtasks WHERE id = $1
	`, subtaskID).Scan(
		&subtask.ID, &subtask.ItemID, &subtask.Text, &subtask.State,
		&subtask.CreatedAt, &subtask.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSubtaskNotFound
		}
		return nil, err
	}
	return &subtask, nil
}
