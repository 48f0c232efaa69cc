package services

import (
	"context"
	"fmt"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db       *database.DB
	webhooks *WebhookService
}

func NewUserService(db *database.DB, webhooks *WebhookService) *UserService {
	return &UserService{db: db, webhooks: webhooks}
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a credentials-based user. The username stays empty until
// the user picks one through CreateProfile.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING `+userColumns, email, string(hash)))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies email+password credentials. OAuth-only accounts have no
// password hash and always fail here.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
	if err == pgx.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// CreateProfile claims a username for a user that does not have one yet.
// Announcement side effects run in the background and never fail the claim.
func (s *UserService) CreateProfile(ctx context.Context, userID uuid.UUID, username string) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Username != nil {
		return nil, ErrProfileExists
	}

	var taken bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)
	`, username).Scan(&taken)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	user, err = scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET username = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns, username, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to set username: %w", err)
	}

	if s.webhooks != nil {
		s.webhooks.AnnounceNewUser(username)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1
	`, username))
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return user, err
}

// FindOrCreateFromOAuth resolves an external identity to a local user,
// creating both on first sign-in. An existing account with a matching email
// gets the identity linked instead of a duplicate user.
func (s *UserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at
		FROM users u
		JOIN auth_accounts a ON a.user_id = u.id
		WHERE a.provider = $1 AND a.provider_id = $2
	`, info.Provider, info.ID))
	if err == nil {
		return user, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	if info.Email != "" {
		user, err = scanUser(s.db.Pool.QueryRow(ctx, `
			SELECT `+userColumns+` FROM users WHERE email = $1
		`, info.Email))
		if err != nil && err != pgx.ErrNoRows {
			return nil, err
		}
	} else {
		err = pgx.ErrNoRows
	}

	if err == pgx.ErrNoRows {
		user, err = scanUser(s.db.Pool.QueryRow(ctx, `
			INSERT INTO users (email)
			VALUES ($1)
			RETURNING `+userColumns, nullableString(info.Email)))
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO auth_accounts (user_id, provider, provider_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider, provider_id) DO NOTHING
	`, user.ID, info.Provider, info.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to link auth account: %w", err)
	}
	return user, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
