package services

import (
	"context"
	"fmt"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CommentService struct {
	db       *database.DB
	access   *AccessService
	notifier *NotificationService
}

func NewCommentService(db *database.DB, access *AccessService, notifier *NotificationService) *CommentService {
	return &CommentService{db: db, access: access, notifier: notifier}
}

// Add inserts the comment and notifies the item's assignee unless the
// assignee is the commenter.
func (s *CommentService) Add(ctx context.Context, actorID, itemID uuid.UUID, text string) (*models.Comment, error) {
	ok, err := s.access.HasAccessToItem(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var assigneeID *uuid.UUID
	err = s.db.Pool.QueryRow(ctx, `
		SELECT assignee_id FROM items WHERE id = $1
	`, itemID).Scan(&assigneeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	var comment models.Comment
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO comments (item_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, item_id, author_id, text, created_at
	`, itemID, actorID, text).Scan(
		&comment.ID, &comment.ItemID, &comment.AuthorID, &comment.Text, &comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	if assigneeID != nil && *assigneeID != actorID {
		s.notifier.EmitComment(ctx, *assigneeID, actorID, itemID)
	}

	return &comment, nil
}

func (s *CommentService) GetByItem(ctx context.Context, actorID, itemID uuid.UUID) ([]models.Comment, error) {
	ok, err := s.access.HasAccessToItem(ctx, actorID, itemID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT c.id, c.item_id, c.author_id, c.text, c.created_at,
		       u.id, u.username, u.email, u.created_at, u.updated_at
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.item_id = $1
		ORDER BY c.created_at
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		var author models.User
		if err := rows.Scan(
			&comment.ID, &comment.ItemID, &comment.AuthorID, &comment.Text, &comment.CreatedAt,
			&author.ID, &author.Username, &author.Email, &author.CreatedAt, &author.UpdatedAt,
		); err != nil {
			return nil, err
		}
		comment.Author = &author
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Delete is author-only.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	var authorID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT author_id FROM comments WHERE id = $1
	`, commentID).Scan(&authorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrCommentNotFound
		}
		return err
	}

	if authorID != actorID {
		return ErrUnauthorized
	}

	_, err = s.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	return err
}
