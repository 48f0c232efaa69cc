package testutil

import (
	"context"
	"time"

	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/oauth"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) CreateProfile(ctx context.Context, userID uuid.UUID, username string) (*models.User, error) {
	args := m.Called(ctx, userID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockAccountService mocks the AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Create(ctx context.Context, name string, ownerID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, name, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, []models.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Team), args.Get(1).([]models.Role), args.Error(2)
}

func (m *MockTeamService) Update(ctx context.Context, teamID, actorID uuid.UUID, name string) (*models.Team, error) {
	args := m.Called(ctx, teamID, actorID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) Delete(ctx context.Context, teamID, actorID uuid.UUID) error {
	args := m.Called(ctx, teamID, actorID)
	return args.Error(0)
}

func (m *MockTeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]models.TeamMember), args.Error(1)
}

func (m *MockTeamService) SendInvitation(ctx context.Context, teamID, inviterID uuid.UUID, inviteeUsername string) (*models.Invitation, error) {
	args := m.Called(ctx, teamID, inviterID, inviteeUsername)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockTeamService) GetInvitationByID(ctx context.Context, invitationID uuid.UUID) (*models.Invitation, error) {
	args := m.Called(ctx, invitationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invitation), args.Error(1)
}

func (m *MockTeamService) AcceptInvitation(ctx context.Context, invitationID, userID uuid.UUID) error {
	args := m.Called(ctx, invitationID, userID)
	return args.Error(0)
}

func (m *MockTeamService) DeclineInvitation(ctx context.Context, invitationID, userID uuid.UUID) error {
	args := m.Called(ctx, invitationID, userID)
	return args.Error(0)
}

func (m *MockTeamService) CancelInvitation(ctx context.Context, invitationID, teamID, actorID uuid.UUID) error {
	args := m.Called(ctx, invitationID, teamID, actorID)
	return args.Error(0)
}

func (m *MockTeamService) GetUserPendingInvitations(ctx context.Context, userID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockTeamService) GetTeamPendingInvitations(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]models.Invitation), args.Error(1)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, actorID, targetID uuid.UUID) error {
	args := m.Called(ctx, teamID, actorID, targetID)
	return args.Error(0)
}

func (m *MockTeamService) Leave(ctx context.Context, teamID, userID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

// MockListService mocks the ListService
type MockListService struct {
	mock.Mock
}

func (m *MockListService) Create(ctx context.Context, name string, actorID uuid.UUID, teamID *uuid.UUID) (*models.List, error) {
	args := m.Called(ctx, name, actorID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.List), args.Error(1)
}

func (m *MockListService) GetByID(ctx context.Context, listID uuid.UUID) (*models.List, error) {
	args := m.Called(ctx, listID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.List), args.Error(1)
}

func (m *MockListService) GetUserLists(ctx context.Context, userID uuid.UUID) ([]models.List, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.List), args.Error(1)
}

func (m *MockListService) Rename(ctx context.Context, listID, actorID uuid.UUID, name string) (*models.List, error) {
	args := m.Called(ctx, listID, actorID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.List), args.Error(1)
}

func (m *MockListService) Delete(ctx context.Context, listID, actorID uuid.UUID) error {
	args := m.Called(ctx, listID, actorID)
	return args.Error(0)
}

// MockItemService mocks the ItemService
type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, actorID, listID uuid.UUID, text string, state models.ItemState) (*models.Item, error) {
	args := m.Called(ctx, actorID, listID, text, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) GetByList(ctx context.Context, actorID, listID uuid.UUID) ([]models.Item, error) {
	args := m.Called(ctx, actorID, listID)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, actorID, itemID uuid.UUID, update services.ItemUpdate) (*models.Item, error) {
	args := m.Called(ctx, actorID, itemID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, actorID, itemID uuid.UUID) error {
	args := m.Called(ctx, actorID, itemID)
	return args.Error(0)
}

// MockSubtaskService mocks the SubtaskService
type MockSubtaskService struct {
	mock.Mock
}

func (m *MockSubtaskService) Create(ctx context.Context, actorID, itemID uuid.UUID, text string, state models.SubtaskState) (*models.Subtask, error) {
	args := m.Called(ctx, actorID, itemID, text, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *MockSubtaskService) GetByItem(ctx context.Context, actorID, itemID uuid.UUID) ([]models.Subtask, error) {
	args := m.Called(ctx, actorID, itemID)
	return args.Get(0).([]models.Subtask), args.Error(1)
}

func (m *MockSubtaskService) Update(ctx context.Context, actorID, subtaskID uuid.UUID, text *string, state *models.SubtaskState) (*models.Subtask, error) {
	args := m.Called(ctx, actorID, subtaskID, text, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *MockSubtaskService) Delete(ctx context.Context, actorID, subtaskID uuid.UUID) error {
	args := m.Called(ctx, actorID, subtaskID)
	return args.Error(0)
}

// MockCommentService mocks the CommentService
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Add(ctx context.Context, actorID, itemID uuid.UUID, text string) (*models.Comment, error) {
	args := m.Called(ctx, actorID, itemID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) GetByItem(ctx context.Context, actorID, itemID uuid.UUID) ([]models.Comment, error) {
	args := m.Called(ctx, actorID, itemID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	args := m.Called(ctx, actorID, commentID)
	return args.Error(0)
}

// MockNotificationService mocks the NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetUnread(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, notificationID, actorID uuid.UUID) error {
	args := m.Called(ctx, notificationID, actorID)
	return args.Error(0)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email, username string) (*services.TokenPair, error) {
	args := m.Called(userID, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendTeamInvite(to, teamName, inviterName, inviteURL string) error {
	args := m.Called(to, teamName, inviterName, inviteURL)
	return args.Error(0)
}

// MockCalendarService mocks the CalendarService
type MockCalendarService struct {
	mock.Mock
}

func (m *MockCalendarService) RenderListCalendar(ctx context.Context, actorID, listID uuid.UUID) (string, error) {
	args := m.Called(ctx, actorID, listID)
	return args.String(0), args.Error(1)
}

// MockGanttService mocks the GanttService
type MockGanttService struct {
	mock.Mock
}

func (m *MockGanttService) GetListChart(ctx context.Context, actorID, listID uuid.UUID) ([]services.GanttTask, error) {
	args := m.Called(ctx, actorID, listID)
	return args.Get(0).([]services.GanttTask), args.Error(1)
}

// MockWebhookService mocks the WebhookService
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) Create(ctx context.Context, name, url, event string) (*models.Webhook, error) {
	args := m.Called(ctx, name, url, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Webhook), args.Error(1)
}

func (m *MockWebhookService) GetAll(ctx context.Context) ([]models.Webhook, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Webhook), args.Error(1)
}

func (m *MockWebhookService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockGitHubService mocks the GitHubService
type MockGitHubService struct {
	mock.Mock
}

func (m *MockGitHubService) Link(ctx context.Context, actorID, listID uuid.UUID, repoOwner, repoName string) (*models.LinkedRepo, error) {
	args := m.Called(ctx, actorID, listID, repoOwner, repoName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LinkedRepo), args.Error(1)
}

func (m *MockGitHubService) Unlink(ctx context.Context, actorID, listID, repoID uuid.UUID) error {
	args := m.Called(ctx, actorID, listID, repoID)
	return args.Error(0)
}

func (m *MockGitHubService) GetByList(ctx context.Context, actorID, listID uuid.UUID) ([]models.LinkedRepo, error) {
	args := m.Called(ctx, actorID, listID)
	return args.Get(0).([]models.LinkedRepo), args.Error(1)
}

func (m *MockGitHubService) Sync(ctx context.Context, actorID, listID uuid.UUID) error {
	args := m.Called(ctx, actorID, listID)
	return args.Error(0)
}

// MockBreakdownService mocks the BreakdownService
type MockBreakdownService struct {
	mock.Mock
}

func (m *MockBreakdownService) Breakdown(ctx context.Context, actorID, itemID uuid.UUID) error {
	args := m.Called(ctx, actorID, itemID)
	return args.Error(0)
}

// MockSSEHub mocks the subscription surface of the SSE hub
type MockSSEHub struct {
	mock.Mock
}

func (m *MockSSEHub) SubscribeToList(clientID string, listID uuid.UUID) {
	m.Called(clientID, listID)
}

func (m *MockSSEHub) UnsubscribeFromList(clientID string, listID uuid.UUID) {
	m.Called(clientID, listID)
}

// MockAccessChecker mocks the list access resolver
type MockAccessChecker struct {
	mock.Mock
}

func (m *MockAccessChecker) HasAccessToList(ctx context.Context, userID, listID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, listID)
	return args.Bool(0), args.Error(1)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
