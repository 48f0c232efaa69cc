package services

import (
	"context"
	"fmt"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/google/uuid"
)

// CascadeService is the single place that deletes entity subtrees. Every
// delete entry point (list delete, team delete, account deletion) goes
// through it.
//
// Cascades run leaf-to-root as autonomous statements rather than one
// cross-entity transaction: an interruption leaves a structurally valid
// graph (a parent with fewer children) and the next attempt resumes where
// the last one stopped. A child is never left referencing a deleted parent.
type CascadeService struct {
	db *database.DB
}

func NewCascadeService(db *database.DB) *CascadeService {
	return &CascadeService{db: db}
}

// DeleteItemTree removes an item and everything under it: subtasks and
// comments first, then the item row.
func (s *CascadeService) DeleteItemTree(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM subtasks WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to delete subtasks of item %s: %w", itemID, err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM comments WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to delete comments of item %s: %w", itemID, err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, err)
	}
	return nil
}

// DeleteListTree removes every item of the list via DeleteItemTree, the
// list's linked repos, then the list row.
func (s *CascadeService) DeleteListTree(ctx context.Context, listID uuid.UUID) error {
	rows, err := s.db.Pool.Query(ctx, `SELECT id FROM items WHERE list_id = $1`, listID)
	if err != nil {
		return fmt.Errorf("failed to load items of list %s: %w", listID, err)
	}
	var itemIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		itemIDs = append(itemIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, itemID := range itemIDs {
		if err := s.DeleteItemTree(ctx, itemID); err != nil {
			return err
		}
	}

	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM linked_repos WHERE list_id = $1`, listID); err != nil {
		return fmt.Errorf("failed to delete linked repos of list %s: %w", listID, err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM lists WHERE id = $1`, listID); err != nil {
		return fmt.Errorf("failed to delete list %s: %w", listID, err)
	}
	return nil
}

// DeleteTeamTree removes memberships, every team list via DeleteListTree,
// invitations referencing the team, then the team row.
func (s *CascadeService) DeleteTeamTree(ctx context.Context, teamID uuid.UUID) error {
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete members of team %s: %w", teamID, err)
	}

	rows, err := s.db.Pool.Query(ctx, `SELECT id FROM lists WHERE team_id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("failed to load lists of team %s: %w", teamID, err)
	}
	var listIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		listIDs = append(listIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, listID := range listIDs {
		if err := s.DeleteListTree(ctx, listID); err != nil {
			return err
		}
	}

	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM invitations WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete invitations of team %s: %w", teamID, err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete team %s: %w", teamID, err)
	}
	return nil
}
