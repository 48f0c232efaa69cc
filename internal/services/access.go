package services

import (
	"context"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccessService resolves what an actor may do with a list or inside a team.
// It only reads; every mutating service consults it before writing.
type AccessService struct {
	db *database.DB
}

func NewAccessService(db *database.DB) *AccessService {
	return &AccessService{db: db}
}

// HasAccessToList reports whether the user may read and mutate the list:
// personal lists require being the owner, team lists require any membership.
// A missing list yields ErrListNotFound so callers can distinguish a
// concurrent delete from a denied actor.
func (s *AccessService) HasAccessToList(ctx context.Context, userID, listID uuid.UUID) (bool, error) {
	var ownerID uuid.UUID
	var teamID *uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT owner_id, team_id FROM lists WHERE id = $1
	`, listID).Scan(&ownerID, &teamID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, ErrListNotFound
		}
		return false, err
	}

	if teamID == nil {
		return ownerID == userID, nil
	}

	var exists bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, *teamID, userID).Scan(&exists)
	return exists, err
}

// RoleInTeam returns the user's membership role, or RoleNone without error
// when no membership exists.
func (s *AccessService) RoleInTeam(ctx context.Context, userID, teamID uuid.UUID) (models.Role, error) {
	var role models.Role
	err := s.db.Pool.QueryRow(ctx, `
		SELECT role FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID).Scan(&role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.RoleNone, nil
		}
		return models.RoleNone, err
	}
	return role, nil
}

// HasAccessToItem resolves the item's list and applies HasAccessToList.
func (s *AccessService) HasAccessToItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var listID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT list_id FROM items WHERE id = $1
	`, itemID).Scan(&listID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, ErrItemNotFound
		}
		return false, err
	}
	return s.HasAccessToList(ctx, userID, listID)
}
