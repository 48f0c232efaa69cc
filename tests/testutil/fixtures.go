package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/oauth"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	username := fmt.Sprintf("user%d", f.counter)
	email := fmt.Sprintf("user%d@example.com", f.counter)
	user := &models.User{
		Username: &username,
		Email:    &email,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at, updated_at
	`, user.Username, user.Email, user.PasswordHash).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = &email
	}
}

// WithUsername sets the user's username
func WithUsername(username string) UserOption {
	return func(u *models.User) {
		u.Username = &username
	}
}

// WithoutUsername leaves the profile unset, as after signup but before
// profile creation.
func WithoutUsername() UserOption {
	return func(u *models.User) {
		u.Username = nil
	}
}

// WithPasswordHash sets the user's stored password hash
func WithPasswordHash(hash string) UserOption {
	return func(u *models.User) {
		u.PasswordHash = &hash
	}
}

// CreateTeam creates a test team with the given owner as admin member
func (f *Fixtures) CreateTeam(t *testing.T, owner *models.User, opts ...TeamOption) *models.Team {
	t.Helper()
	f.counter++

	team := &models.Team{
		Name:    fmt.Sprintf("Test Team %d", f.counter),
		OwnerID: owner.ID,
	}

	for _, opt := range opts {
		opt(team)
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at, updated_at
	`, team.Name, team.OwnerID).Scan(&team.ID, &team.Name, &team.OwnerID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
	`, team.ID, owner.ID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("failed to add owner as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return team
}

// TeamOption configures a test team
type TeamOption func(*models.Team)

// WithTeamName sets the team's name
func WithTeamName(name string) TeamOption {
	return func(t *models.Team) {
		t.Name = name
	}
}

// AddTeamMember adds a member to a team with the given role
func (f *Fixtures) AddTeamMember(t *testing.T, team *models.Team, user *models.User, role models.Role) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`, team.ID, user.ID, role)
	if err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}
}

// CreateInvitation creates a pending invitation
func (f *Fixtures) CreateInvitation(t *testing.T, team *models.Team, inviter, invitee *models.User) *models.Invitation {
	t.Helper()
	ctx := context.Background()

	inv := &models.Invitation{
		TeamID:    team.ID,
		InviterID: inviter.ID,
		InviteeID: invitee.ID,
	}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO invitations (team_id, inviter_id, invitee_id, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, team_id, inviter_id, invitee_id, status, created_at, updated_at
	`, inv.TeamID, inv.InviterID, inv.InviteeID).Scan(
		&inv.ID, &inv.TeamID, &inv.InviterID, &inv.InviteeID,
		&inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create invitation: %v", err)
	}

	return inv
}

// CreateList creates a test list (personal or team)
func (f *Fixtures) CreateList(t *testing.T, owner *models.User, opts ...ListOption) *models.List {
	t.Helper()
	f.counter++

	list := &models.List{
		Name:    fmt.Sprintf("Test List %d", f.counter),
		OwnerID: owner.ID,
	}

	for _, opt := range opts {
		opt(list)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO lists (name, owner_id, team_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, team_id, sort_order, created_at, updated_at
	`, list.Name, list.OwnerID, list.TeamID).Scan(
		&list.ID, &list.Name, &list.OwnerID, &list.TeamID,
		&list.SortOrder, &list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create list: %v", err)
	}

	return list
}

// ListOption configures a test list
type ListOption func(*models.List)

// WithListName sets the list name
func WithListName(name string) ListOption {
	return func(l *models.List) {
		l.Name = name
	}
}

// WithTeam makes the list team-owned
func WithTeam(team *models.Team) ListOption {
	return func(l *models.List) {
		l.TeamID = &team.ID
	}
}

// CreateItem creates a test item in a list
func (f *Fixtures) CreateItem(t *testing.T, list *models.List, opts ...ItemOption) *models.Item {
	t.Helper()
	f.counter++

	item := &models.Item{
		ListID: list.ID,
		Text:   fmt.Sprintf("Test Item %d", f.counter),
		State:  models.ItemStateRed,
	}

	for _, opt := range opts {
		opt(item)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO items (list_id, text, state, assignee_id, start_date, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, list_id, text, state, assignee_id, start_date, due_date, created_at, updated_at
	`, item.ListID, item.Text, item.State, item.AssigneeID, item.StartDate, item.DueDate).Scan(
		&item.ID, &item.ListID, &item.Text, &item.State,
		&item.AssigneeID, &item.StartDate, &item.DueDate,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	return item
}

// ItemOption configures a test item
type ItemOption func(*models.Item)

// WithItemText sets the item text
func WithItemText(text string) ItemOption {
	return func(i *models.Item) {
		i.Text = text
	}
}

// WithItemState sets the item state
func WithItemState(state models.ItemState) ItemOption {
	return func(i *models.Item) {
		i.State = state
	}
}

// WithAssignee assigns the item to a user
func WithAssignee(user *models.User) ItemOption {
	return func(i *models.Item) {
		i.AssigneeID = &user.ID
	}
}

// CreateSubtask creates a test subtask under an item
func (f *Fixtures) CreateSubtask(t *testing.T, item *models.Item, text string) *models.Subtask {
	t.Helper()
	ctx := context.Background()

	sub := &models.Subtask{ItemID: item.ID, Text: text, State: models.SubtaskStateTodo}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO subtasks (item_id, text, state)
		VALUES ($1, $2, $3)
		RETURNING id, item_id, text, state, created_at, updated_at
	`, sub.ItemID, sub.Text, sub.State).Scan(
		&sub.ID, &sub.ItemID, &sub.Text, &sub.State, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create subtask: %v", err)
	}

	return sub
}

// CreateComment creates a test comment on an item
func (f *Fixtures) CreateComment(t *testing.T, item *models.Item, author *models.User, text string) *models.Comment {
	t.Helper()
	ctx := context.Background()

	c := &models.Comment{ItemID: item.ID, AuthorID: author.ID, Text: text}
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO comments (item_id, author_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, item_id, author_id, text, created_at
	`, c.ItemID, c.AuthorID, c.Text).Scan(
		&c.ID, &c.ItemID, &c.AuthorID, &c.Text, &c.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	return c
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
