package handlers

import (
	"context"
	"time"

	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/oauth"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	CreateProfile(ctx context.Context, userID uuid.UUID, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
}

// AccountServiceInterface defines the methods used by handlers from AccountService
type AccountServiceInterface interface {
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []models.Role, error)
	Update(ctx context.Context, teamID, actorID uuid.UUID, name string) (*models.Team, error)
	Delete(ctx context.Context, teamID, actorID uuid.UUID) error
	GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	SendInvitation(ctx context.Context, teamID, inviterID uuid.UUID, inviteeUsername string) (*models.Invitation, error)
	GetInvitationByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error)
	AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) error
	DeclineInvitation(ctx context.Context, invitationID, userID uuid.UUID) error
	CancelInvitation(ctx context.Context, invitationID, teamID, actorID uuid.UUID) error
	GetUserPendingInvitations(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error)
	GetTeamPendingInvitations(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error)
	RemoveMember(ctx context.Context, teamID, actorID, targetID uuid.UUID) error
	Leave(ctx context.Context, teamID, userID uuid.UUID) error
}

// ListServiceInterface defines the methods used by handlers from ListService
type ListServiceInterface interface {
	Create(ctx context.Context, name string, actorID uuid.UUID, teamID *uuid.UUID) (*models.List, error)
	GetByID(ctx context.Context, listID uuid.UUID) (*models.List, error)
	GetUserLists(ctx context.Context, userID uuid.UUID) ([]models.List, error)
	Rename(ctx context.Context, listID, actorID uuid.UUID, name string) (*models.List, error)
	Delete(ctx context.Context, listID, actorID uuid.UUID) error
}

// ItemServiceInterface defines the methods used by handlers from ItemService
type ItemServiceInterface interface {
	Create(ctx context.Context, actorID, listID uuid.UUID, text string, state models.ItemState) (*models.Item, error)
	GetByList(ctx context.Context, actorID, listID uuid.UUID) ([]models.Item, error)
	Update(ctx context.Context, actorID, itemID uuid.UUID, update services.ItemUpdate) (*models.Item, error)
	Delete(ctx context.Context, actorID, itemID uuid.UUID) error
}

// SubtaskServiceInterface defines the methods used by handlers from SubtaskService
type SubtaskServiceInterface interface {
	Create(ctx context.Context, actorID, itemID uuid.UUID, text string, state models.SubtaskState) (*models.Subtask, error)
	GetByItem(ctx context.Context, actorID, itemID uuid.UUID) ([]models.Subtask, error)
	Update(ctx context.Context, actorID, subtaskID uuid.UUID, text *string, state *models.SubtaskState) (*models.Subtask, error)
	Delete(ctx context.Context, actorID, subtaskID uuid.UUID) error
}

// CommentServiceInterface defines the methods used by handlers from CommentService
type CommentServiceInterface interface {
	Add(ctx context.Context, actorID, itemID uuid.UUID, text string) (*models.Comment, error)
	GetByItem(ctx context.Context, actorID, itemID uuid.UUID) ([]models.Comment, error)
	Delete(ctx context.Context, actorID, commentID uuid.UUID) error
}

// NotificationServiceInterface defines the methods used by handlers from NotificationService
type NotificationServiceInterface interface {
	GetUnread(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, notificationID, actorID uuid.UUID) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, username string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	SendTeamInvite(to, teamName, inviterName, inviteURL string) error
}

// CalendarServiceInterface defines the methods used by handlers from CalendarService
type CalendarServiceInterface interface {
	RenderListCalendar(ctx context.Context, actorID, listID uuid.UUID) (string, error)
}

// GanttServiceInterface defines the methods used by handlers from GanttService
type GanttServiceInterface interface {
	GetListChart(ctx context.Context, actorID, listID uuid.UUID) ([]services.GanttTask, error)
}

// WebhookServiceInterface defines the methods used by handlers from WebhookService
type WebhookServiceInterface interface {
	Create(ctx context.Context, name, url, event string) (*models.Webhook, error)
	GetAll(ctx context.Context) ([]models.Webhook, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GitHubServiceInterface defines the methods used by handlers from GitHubService
type GitHubServiceInterface interface {
	Link(ctx context.Context, actorID, listID uuid.UUID, repoOwner, repoName string) (*models.LinkedRepo, error)
	Unlink(ctx context.Context, actorID, listID, repoID uuid.UUID) error
	GetByList(ctx context.Context, actorID, listID uuid.UUID) ([]models.LinkedRepo, error)
	Sync(ctx context.Context, actorID, listID uuid.UUID) error
}

// BreakdownServiceInterface defines the methods used by handlers from BreakdownService
type BreakdownServiceInterface interface {
	Breakdown(ctx context.Context, actorID, itemID uuid.UUID) error
}
