package services

import (
	"context"
	"fmt"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/sse"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ListService struct {
	db      *database.DB
	access  *AccessService
	cascade *CascadeService
	hub     *sse.Hub
}

func NewListService(db *database.DB, access *AccessService, cascade *CascadeService, hub *sse.Hub) *ListService {
	return &ListService{db: db, access: access, cascade: cascade, hub: hub}
}

// Create makes a personal list when teamID is nil, or a team list the actor
// must be a member of. The actor becomes the display owner either way.
func (s *ListService) Create(ctx context.Context, name string, actorID uuid.UUID, teamID *uuid.UUID) (*models.List, error) {
	if teamID != nil {
		role, err := s.access.RoleInTeam(ctx, actorID, *teamID)
		if err != nil {
			return nil, err
		}
		if role == models.RoleNone {
			// No membership could also mean no team at all.
			var exists bool
			err := s.db.Pool.QueryRow(ctx, `
				SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)
			`, *teamID).Scan(&exists)
			if err != nil {
				return nil, err
			}
			if !exists {
				return nil, ErrTeamNotFound
			}
			return nil, ErrUnauthorized
		}
	}

	var list models.List
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO lists (name, owner_id, team_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, team_id, sort_order, created_at, updated_at
	`, name, actorID, teamID).Scan(
		&list.ID, &list.Name, &list.OwnerID, &list.TeamID, &list.SortOrder,
		&list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return &list, nil
}

func (s *ListService) GetByID(ctx context.Context, listID uuid.UUID) (*models.List, error) {
	var list models.List
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, owner_id, team_id, sort_order, created_at, updated_at
		FROM lists WHERE id = $1
	`, listID).Scan(
		&list.ID, &list.Name, &list.OwnerID, &list.TeamID, &list.SortOrder,
		&list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

// GetUserLists returns the user's personal lists plus all lists of teams
// they belong to, ordered by name.
func (s *ListService) GetUserLists(ctx context.Context, userID uuid.UUID) ([]models.List, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, owner_id, team_id, sort_order, created_at, updated_at
		FROM lists
		WHERE (team_id IS NULL AND owner_id = $1)
		   OR team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []models.List
	for rows.Next() {
		var list models.List
		if err := rows.Scan(
			&list.ID, &list.Name, &list.OwnerID, &list.TeamID, &list.SortOrder,
			&list.CreatedAt, &list.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// Rename requires ownership for personal lists and membership for team
// lists.
func (s *ListService) Rename(ctx context.Context, listID, actorID uuid.UUID, name string) (*models.List, error) {
	list, err := s.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	if err := s.requireRename(ctx, list, actorID); err != nil {
		return nil, err
	}

	err = s.db.Pool.QueryRow(ctx, `
		UPDATE lists SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, owner_id, team_id, sort_order, created_at, updated_at
	`, name, listID).Scan(
		&list.ID, &list.Name, &list.OwnerID, &list.TeamID, &list.SortOrder,
		&list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToList(listID, "list.renamed", list)
	}
	return list, nil
}

func (s *ListService) requireRename(ctx context.Context, list *models.List, actorID uuid.UUID) error {
	if !list.IsTeamList() {
		if list.OwnerID != actorID {
			return ErrUnauthorized
		}
		return nil
	}
	role, err := s.access.RoleInTeam(ctx, actorID, *list.TeamID)
	if err != nil {
		return err
	}
	if role == models.RoleNone {
		return ErrUnauthorized
	}
	return nil
}

// Delete cascades the list subtree. Personal lists are owner-only and the
// user's last personal list cannot be deleted; team lists require admin.
func (s *ListService) Delete(ctx context.Context, listID, actorID uuid.UUID) error {
	list, err := s.GetByID(ctx, listID)
	if err != nil {
		return err
	}

	if list.IsTeamList() {
		role, err := s.access.RoleInTeam(ctx, actorID, *list.TeamID)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin {
			return ErrUnauthorized
		}
	} else {
		if list.OwnerID != actorID {
			return ErrUnauthorized
		}
		var personalCount int
		err = s.db.Pool.QueryRow(ctx, `
			SELECT COUNT(*) FROM lists WHERE owner_id = $1 AND team_id IS NULL
		`, actorID).Scan(&personalCount)
		if err != nil {
			return err
		}
		if personalCount <= 1 {
			return ErrLastList
		}
	}

	if err := s.cascade.DeleteListTree(ctx, listID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToList(listID, "list.deleted", map[string]uuid.UUID{"list_id": listID})
	}
	return nil
}
