package services

import (
	"context"
	"fmt"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TeamService owns the membership and invitation workflow. Every mutating
// entry point checks the actor's role before touching any row.
type TeamService struct {
	db       *database.DB
	access   *AccessService
	cascade  *CascadeService
	notifier *NotificationService
}

func NewTeamService(db *database.DB, access *AccessService, cascade *CascadeService, notifier *NotificationService) *TeamService {
	return &TeamService{db: db, access: access, cascade: cascade, notifier: notifier}
}

// Create inserts the team and the creator's admin membership in one
// transaction, so the owner-has-admin-membership invariant holds from the
// first committed state.
func (s *TeamService) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var team models.Team
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at, updated_at
	`, name, ownerID).Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
	`, team.ID, ownerID, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to add owner as admin: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &team, nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM teams WHERE id = $1
	`, teamID).Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []models.Role, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT t.id, t.name, t.owner_id, t.created_at, t.updated_at, tm.role
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var teams []models.Team
	var roles []models.Role
	for rows.Next() {
		var team models.Team
		var role models.Role
		if err := rows.Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt, &role); err != nil {
			return nil, nil, err
		}
		teams = append(teams, team)
		roles = append(roles, role)
	}
	return teams, roles, rows.Err()
}

func (s *TeamService) Update(ctx context.Context, teamID, actorID uuid.UUID, name string) (*models.Team, error) {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.OwnerID != actorID {
		return nil, ErrUnauthorized
	}

	err = s.db.Pool.QueryRow(ctx, `
		UPDATE teams SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, owner_id, created_at, updated_at
	`, name, teamID).Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return team, nil
}

// Delete cascades the whole team subtree. Owner only.
func (s *TeamService) Delete(ctx context.Context, teamID, actorID uuid.UUID) error {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID != actorID {
		return ErrUnauthorized
	}
	return s.cascade.DeleteTeamTree(ctx, teamID)
}

func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.created_at,
		       u.id, u.username, u.email, u.created_at, u.updated_at
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.CreatedAt,
			&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, rows.Err()
}

// SendInvitation resolves the invitee by username and creates a pending
// invitation. Guard order follows the product behavior: admin role, invitee
// exists, not self, not already a member, no pending invitation yet.
func (s *TeamService) SendInvitation(ctx context.Context, teamID, inviterID uuid.UUID, inviteeUsername string) (*models.Invitation, error) {
	role, err := s.access.RoleInTeam(ctx, inviterID, teamID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin {
		return nil, ErrUnauthorized
	}

	var inviteeID uuid.UUID
	err = s.db.Pool.QueryRow(ctx, `
		SELECT id FROM users WHERE username = $1
	`, inviteeUsername).Scan(&inviteeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if inviteeID == inviterID {
		return nil, ErrSelfInvite
	}

	memberRole, err := s.access.RoleInTeam(ctx, inviteeID, teamID)
	if err != nil {
		return nil, err
	}
	if memberRole != models.RoleNone {
		return nil, ErrAlreadyMember
	}

	var pendingExists bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM invitations WHERE team_id = $1 AND invitee_id = $2 AND status = $3)
	`, teamID, inviteeID, models.InviteStatusPending).Scan(&pendingExists)
	if err != nil {
		return nil, err
	}
	if pendingExists {
		return nil, ErrDuplicateInvitation
	}

	var invitation models.Invitation
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (team_id, inviter_id, invitee_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_id, inviter_id, invitee_id, status, created_at, updated_at
	`, teamID, inviterID, inviteeID, models.InviteStatusPending).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
		&invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.notifier.EmitInvitation(ctx, inviteeID, inviterID, teamID)

	return &invitation, nil
}

func (s *TeamService) GetInvitationByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, team_id, inviter_id, invitee_id, status, created_at, updated_at
		FROM invitations WHERE id = $1
	`, invitationID).Scan(
		&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
		&invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
	)
	if err != nil {
		return nil, ErrInvitationNotFound
	}
	return &invitation, nil
}

// AcceptInvitation flips a pending invitation to accepted and inserts the
// member-role membership in one transaction. Only the invitee may accept;
// any other state, including a second accept, is ErrInvitationNotFound.
func (s *TeamService) AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var invitation models.Invitation
	err = tx.QueryRow(ctx, `
		SELECT id, team_id, invitee_id, status FROM invitations WHERE id = $1
	`, invitationID).Scan(&invitation.ID, &invitation.TeamID, &invitation.InviteeID, &invitation.Status)
	if err != nil {
		return ErrInvitationNotFound
	}

	if invitation.InviteeID != userID {
		return ErrInvitationNotFound
	}

	if invitation.Status != models.InviteStatusPending {
		return ErrInvitationNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE invitations SET status = $1, updated_at = NOW() WHERE id = $2
	`, models.InviteStatusAccepted, invitationID)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`, invitation.TeamID, userID, models.RoleMember)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *TeamService) DeclineInvitation(ctx context.Context, invitationID, userID uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `
		UPDATE invitations SET status = $1, updated_at = NOW()
		WHERE id = $2 AND invitee_id = $3 AND status = $4
	`, models.InviteStatusDeclined, invitationID, userID, models.InviteStatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (s *TeamService) CancelInvitation(ctx context.Context, invitationID, teamID, actorID uuid.UUID) error {
	role, err := s.access.RoleInTeam(ctx, actorID, teamID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return ErrUnauthorized
	}

	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM invitations WHERE id = $1 AND team_id = $2 AND status = $3
	`, invitationID, teamID, models.InviteStatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (s *TeamService) GetUserPendingInvitations(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.team_id, i.inviter_id, i.invitee_id, i.status, i.created_at, i.updated_at,
		       t.id, t.name, t.owner_id, t.created_at, t.updated_at,
		       u.id, u.username, u.email, u.created_at, u.updated_at
		FROM invitations i
		JOIN teams t ON i.team_id = t.id
		JOIN users u ON i.inviter_id = u.id
		WHERE i.invitee_id = $1 AND i.status = $2
		ORDER BY i.created_at DESC
	`, userID, models.InviteStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var team models.Team
		var inviter models.User
		if err := rows.Scan(
			&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
			&invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
			&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
			&inviter.ID, &inviter.Username, &inviter.Email, &inviter.CreatedAt, &inviter.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitation.Team = &team
		invitation.Inviter = &inviter
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

func (s *TeamService) GetTeamPendingInvitations(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.team_id, i.inviter_id, i.invitee_id, i.status, i.created_at, i.updated_at,
		       u.id, u.username, u.email, u.created_at, u.updated_at
		FROM invitations i
		JOIN users u ON i.invitee_id = u.id
		WHERE i.team_id = $1 AND i.status = $2
		ORDER BY i.created_at DESC
	`, teamID, models.InviteStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var invitation models.Invitation
		var invitee models.User
		if err := rows.Scan(
			&invitation.ID, &invitation.TeamID, &invitation.InviterID, &invitation.InviteeID,
			&invitation.Status, &invitation.CreatedAt, &invitation.UpdatedAt,
			&invitee.ID, &invitee.Username, &invitee.Email, &invitee.CreatedAt, &invitee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		invitation.Invitee = &invitee
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}

// RemoveMember deletes the target's membership row only; the target's other
// resources are untouched. Admin only, and the owner can never be removed.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, actorID, targetID uuid.UUID) error {
	role, err := s.access.RoleInTeam(ctx, actorID, teamID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return ErrUnauthorized
	}

	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID == targetID {
		return ErrCannotRemoveOwner
	}

	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, targetID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// Leave removes the caller's own membership. The owner cannot leave; they
// either transfer ownership by deleting their account or delete the team.
func (s *TeamService) Leave(ctx context.Context, teamID, userID uuid.UUID) error {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID == userID {
		return ErrCannotRemoveOwner
	}

	result, err := s.db.Pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2
	`, teamID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}
