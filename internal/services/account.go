package services

import (
	"context"
	"fmt"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// AccountService runs the account-deletion sequence: ownership transfer for
// every team the user belongs to, then removal of the user's own resources.
//
// The sequence is ordered so that any interruption leaves a valid state. A
// crash after a team was handed off but before the departing membership was
// deleted leaves the user as an ordinary member of a team they no longer
// own, which the next attempt cleans up.
type AccountService struct {
	db      *database.DB
	cascade *CascadeService
	log     *logrus.Logger
}

func NewAccountService(db *database.DB, cascade *CascadeService, log *logrus.Logger) *AccountService {
	return &AccountService{db: db, cascade: cascade, log: log}
}

// DeleteAccount removes the user and everything they own. Team-owned data
// survives under a successor; personal data is cascade-deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	teamIDs, err := s.userTeamIDs(ctx, userID)
	if err != nil {
		return err
	}

	for _, teamID := range teamIDs {
		if err := s.departTeam(ctx, teamID, userID); err != nil {
			return err
		}
	}

	listIDs, err := s.personalListIDs(ctx, userID)
	if err != nil {
		return err
	}
	for _, listID := range listIDs {
		if err := s.cascade.DeleteListTree(ctx, listID); err != nil {
			return err
		}
	}

	// Cross references into surviving resources: assigned items lose their
	// assignee, authored comments and any invitations involving the user
	// are removed outright.
	if _, err := s.db.Pool.Exec(ctx, `UPDATE items SET assignee_id = NULL WHERE assignee_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear item assignments: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM comments WHERE author_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete authored comments: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM invitations WHERE inviter_id = $1 OR invitee_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete invitations: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM notifications WHERE recipient_id = $1 OR actor_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM auth_accounts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete auth accounts: %w", err)
	}
	if _, err := s.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.WithField("user_id", userID).Info("account deleted")
	return nil
}

// departTeam removes the user from one team. Sole member: the whole team
// subtree goes. Otherwise a successor takes over before the departing
// membership is deleted.
//
// Successor selection is deterministic: remaining admins first, then plain
// members, earliest-joined wins within each group.
func (s *AccountService) departTeam(ctx context.Context, teamID, userID uuid.UUID) error {
	var successorID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT user_id FROM team_members
		WHERE team_id = $1 AND user_id != $2
		ORDER BY (role = $3) DESC, created_at ASC
		LIMIT 1
	`, teamID, userID, models.RoleAdmin).Scan(&successorID)
	if err == pgx.ErrNoRows {
		return s.cascade.DeleteTeamTree(ctx, teamID)
	}
	if err != nil {
		return fmt.Errorf("failed to pick successor for team %s: %w", teamID, err)
	}

	var ownerID uuid.UUID
	err = s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Team vanished under a concurrent delete; just drop the
			// leftover membership.
			_, err = s.db.Pool.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
			return err
		}
		return err
	}

	if ownerID == userID {
		// Promote before reassigning owner_id: a crash between the two
		// leaves a spare admin, never an owner_id pointing at a plain
		// member, and the retry still sees ownerID == userID.
		if _, err := s.db.Pool.Exec(ctx, `
			UPDATE team_members SET role = $1 WHERE team_id = $2 AND user_id = $3
		`, models.RoleAdmin, teamID, successorID); err != nil {
			return fmt.Errorf("failed to promote successor in team %s: %w", teamID, err)
		}
		if _, err := s.db.Pool.Exec(ctx, `
			UPDATE teams SET owner_id = $1, updated_at = NOW() WHERE id = $2
		`, successorID, teamID); err != nil {
			return fmt.Errorf("failed to reassign team %s: %w", teamID, err)
		}
		if _, err := s.db.Pool.Exec(ctx, `
			UPDATE lists SET owner_id = $1, updated_at = NOW() WHERE team_id = $2
		`, successorID, teamID); err != nil {
			return fmt.Errorf("failed to repoint lists of team %s: %w", teamID, err)
		}
	} else {
		// Departing non-owner: only lists they display-own need a new
		// display owner.
		if _, err := s.db.Pool.Exec(ctx, `
			UPDATE lists SET owner_id = $1, updated_at = NOW() WHERE team_id = $2 AND owner_id = $3
		`, ownerID, teamID, userID); err != nil {
			return fmt.Errorf("failed to repoint lists of team %s: %w", teamID, err)
		}
	}

	_, err = s.db.Pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete membership in team %s: %w", teamID, err)
	}
	return nil
}

func (s *AccountService) userTeamIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT team_id FROM team_members WHERE user_id = $1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *AccountService) personalListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id FROM lists WHERE owner_id = $1 AND team_id IS NULL
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
