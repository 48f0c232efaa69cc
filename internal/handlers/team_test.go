package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/dotlib/dotlib-api/pkg/dto"
	"github.com/dotlib/dotlib-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTeamTest(t *testing.T) (*testutil.MockTeamService, *testutil.MockUserService, *testutil.MockEmailService, *TeamHandler, *services.JWTService) {
	t.Helper()
	mockTeamService := new(testutil.MockTeamService)
	mockUserService := new(testutil.MockUserService)
	mockEmailService := new(testutil.MockEmailService)
	handler := NewTeamHandler(mockTeamService, mockUserService, mockEmailService, "http://localhost:8080")
	jwtSvc := services.NewJWTService("test-secret-key", 15*time.Minute, 24*time.Hour)
	return mockTeamService, mockUserService, mockEmailService, handler, jwtSvc
}

func TestTeamHandler_Create_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	email := "test@example.com"
	team := &models.Team{
		ID:      uuid.New(),
		Name:    "My Team",
		OwnerID: userID,
	}

	mockTeamService.On("Create", mock.Anything, "My Team", userID).Return(team, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams", handler.Create)

	body := dto.CreateTeamRequest{Name: "My Team"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.TeamResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, team.ID, response.ID)
	assert.Equal(t, "My Team", response.Name)
	assert.Equal(t, "admin", response.Role)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Create_EmptyName(t *testing.T) {
	_, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams", handler.Create)

	body := dto.CreateTeamRequest{Name: ""}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")
}

func TestTeamHandler_Create_ServiceError(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()

	mockTeamService.On("Create", mock.Anything, "My Team", userID).Return(nil, errors.New("database error"))

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams", handler.Create)

	body := dto.CreateTeamRequest{Name: "My Team"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to create team")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_List_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teams := []models.Team{
		{ID: uuid.New(), Name: "Team 1", OwnerID: userID},
		{ID: uuid.New(), Name: "Team 2", OwnerID: uuid.New()},
	}
	roles := []models.Role{models.RoleAdmin, models.RoleMember}

	mockTeamService.On("GetUserTeams", mock.Anything, userID).Return(teams, roles, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams", handler.List)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.TeamResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Len(t, response, 2)
	assert.Equal(t, "admin", response[0].Role)
	assert.Equal(t, "member", response[1].Role)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Get_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	teams := []models.Team{
		{ID: teamID, Name: "My Team", OwnerID: userID},
	}
	roles := []models.Role{models.RoleAdmin}

	mockTeamService.On("GetUserTeams", mock.Anything, userID).Return(teams, roles, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id", handler.Get)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TeamResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, teamID, response.ID)
	assert.Equal(t, "My Team", response.Name)
	assert.Equal(t, "admin", response.Role)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Get_NotMember(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("GetUserTeams", mock.Anything, userID).Return([]models.Team{}, []models.Role{}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id", handler.Get)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "team not found")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Update_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	updatedTeam := &models.Team{
		ID:      teamID,
		Name:    "Updated Team",
		OwnerID: userID,
	}

	mockTeamService.On("Update", mock.Anything, teamID, userID, "Updated Team").Return(updatedTeam, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Patch("/teams/:id", handler.Update)

	body := dto.UpdateTeamRequest{Name: "Updated Team"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPatch, "/teams/"+teamID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TeamResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "Updated Team", response.Name)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Update_NotOwner(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("Update", mock.Anything, teamID, userID, "Updated Team").Return(nil, services.ErrUnauthorized)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Patch("/teams/:id", handler.Update)

	body := dto.UpdateTeamRequest{Name: "Updated Team"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPatch, "/teams/"+teamID.String(), bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only the owner can update the team")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Delete_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("Delete", mock.Anything, teamID, userID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id", handler.Delete)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "team deleted")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Delete_NotOwner(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("Delete", mock.Anything, teamID, userID).Return(services.ErrUnauthorized)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id", handler.Delete)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only the owner can delete the team")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_GetMembers_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	email := "test@example.com"
	username := "tester"
	members := []models.TeamMember{
		{
			ID:     uuid.New(),
			TeamID: teamID,
			UserID: userID,
			Role:   models.RoleAdmin,
			User: &models.User{
				ID:       userID,
				Username: &username,
				Email:    &email,
			},
		},
	}

	mockTeamService.On("GetUserTeams", mock.Anything, userID).
		Return([]models.Team{{ID: teamID, Name: "My Team", OwnerID: userID}}, []models.Role{models.RoleAdmin}, nil)
	mockTeamService.On("GetMembers", mock.Anything, teamID).Return(members, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id/members", handler.GetMembers)

	token := generateTestToken(t, jwtSvc, userID, email)
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/members", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.TeamMemberResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Len(t, response, 1)
	assert.Equal(t, "admin", response[0].Role)
	assert.Equal(t, "tester", response[0].User.Username)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_GetMembers_NotMember(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("GetUserTeams", mock.Anything, userID).Return([]models.Team{}, []models.Role{}, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id/members", handler.GetMembers)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/members", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "team not found")

	mockTeamService.AssertExpectations(t)
}

// Invite tests

func TestTeamHandler_Invite_Success(t *testing.T) {
	mockTeamService, mockUserService, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	inviteeID := uuid.New()
	now := time.Now()

	invitation := &models.Invitation{
		ID:        uuid.New(),
		TeamID:    teamID,
		InviterID: userID,
		InviteeID: inviteeID,
		Status:    models.InviteStatusPending,
		CreatedAt: now,
	}

	mockTeamService.On("SendInvitation", mock.Anything, teamID, userID, "bob").Return(invitation, nil)
	// the email lookup runs in a goroutine; returning an error ends it early
	mockUserService.On("GetByUsername", mock.Anything, "bob").Return(nil, services.ErrUserNotFound).Maybe()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/invitations", handler.Invite)

	body := dto.InviteMemberRequest{Username: "bob"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/invitations", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.InvitationResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, invitation.ID, response.ID)
	assert.Equal(t, teamID, response.TeamID)
	assert.Equal(t, "pending", response.Status)

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Invite_NotAdmin(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("SendInvitation", mock.Anything, teamID, userID, "bob").Return(nil, services.ErrUnauthorized)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/invitations", handler.Invite)

	body := dto.InviteMemberRequest{Username: "bob"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/invitations", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only admins can invite members")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Invite_UserNotFound(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("SendInvitation", mock.Anything, teamID, userID, "ghost").Return(nil, services.ErrUserNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/invitations", handler.Invite)

	body := dto.InviteMemberRequest{Username: "ghost"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/invitations", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Invite_Self(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("SendInvitation", mock.Anything, teamID, userID, "me").Return(nil, services.ErrSelfInvite)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/invitations", handler.Invite)

	body := dto.InviteMemberRequest{Username: "me"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/invitations", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "you cannot invite yourself")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Invite_AlreadyMember(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("SendInvitation", mock.Anything, teamID, userID, "bob").Return(nil, services.ErrAlreadyMember)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/invitations", handler.Invite)

	body := dto.InviteMemberRequest{Username: "bob"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/invitations", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user is already a member")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Invite_Duplicate(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("SendInvitation", mock.Anything, teamID, userID, "bob").Return(nil, services.ErrDuplicateInvitation)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/invitations", handler.Invite)

	body := dto.InviteMemberRequest{Username: "bob"}
	jsonBody, _ := json.Marshal(body)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/invitations", bytes.NewReader(jsonBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user already has a pending invitation")

	mockTeamService.AssertExpectations(t)
}

// ListInvitations tests

func TestTeamHandler_ListInvitations_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	now := time.Now()
	inviteeUsername := "invitee"

	invitations := []models.Invitation{
		{
			ID:        uuid.New(),
			TeamID:    teamID,
			InviterID: userID,
			InviteeID: uuid.New(),
			Status:    models.InviteStatusPending,
			CreatedAt: now,
			Invitee:   &models.User{ID: uuid.New(), Username: &inviteeUsername},
		},
	}

	mockTeamService.On("GetUserTeams", mock.Anything, userID).
		Return([]models.Team{{ID: teamID, Name: "My Team", OwnerID: userID}}, []models.Role{models.RoleAdmin}, nil)
	mockTeamService.On("GetTeamPendingInvitations", mock.Anything, teamID).Return(invitations, nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id/invitations", handler.ListInvitations)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/invitations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.InvitationResponse
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, invitations[0].ID, response[0].ID)
	assert.NotNil(t, response[0].Invitee)

	mockTeamService.AssertExpectations(t)
}

// CancelInvitation tests

func TestTeamHandler_CancelInvitation_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	invitationID := uuid.New()

	mockTeamService.On("CancelInvitation", mock.Anything, invitationID, teamID, userID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id/invitations/:invitationId", handler.CancelInvitation)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/invitations/"+invitationID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "invitation cancelled")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_CancelInvitation_NotFound(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	invitationID := uuid.New()

	mockTeamService.On("CancelInvitation", mock.Anything, invitationID, teamID, userID).Return(services.ErrInvitationNotFound)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id/invitations/:invitationId", handler.CancelInvitation)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/invitations/"+invitationID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "invitation not found")

	mockTeamService.AssertExpectations(t)
}

// RemoveMember tests

func TestTeamHandler_RemoveMember_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	targetID := uuid.New()

	mockTeamService.On("RemoveMember", mock.Anything, teamID, userID, targetID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id/members/:userId", handler.RemoveMember)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/members/"+targetID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "member removed")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_RemoveMember_CannotRemoveOwner(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	targetID := uuid.New()

	mockTeamService.On("RemoveMember", mock.Anything, teamID, userID, targetID).Return(services.ErrCannotRemoveOwner)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id/members/:userId", handler.RemoveMember)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/members/"+targetID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "the owner cannot be removed")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_RemoveMember_NotAdmin(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()
	targetID := uuid.New()

	mockTeamService.On("RemoveMember", mock.Anything, teamID, userID, targetID).Return(services.ErrUnauthorized)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Delete("/teams/:id/members/:userId", handler.RemoveMember)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/members/"+targetID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "only admins can remove members")

	mockTeamService.AssertExpectations(t)
}

// Leave tests

func TestTeamHandler_Leave_Success(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("Leave", mock.Anything, teamID, userID).Return(nil)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/leave", handler.Leave)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/leave", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "left team")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_Leave_OwnerCannotLeave(t *testing.T) {
	mockTeamService, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()
	teamID := uuid.New()

	mockTeamService.On("Leave", mock.Anything, teamID, userID).Return(services.ErrCannotRemoveOwner)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Post("/teams/:id/leave", handler.Leave)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/leave", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "the owner cannot leave the team")

	mockTeamService.AssertExpectations(t)
}

func TestTeamHandler_InvalidTeamID(t *testing.T) {
	_, _, _, handler, jwtSvc := setupTeamTest(t)

	userID := uuid.New()

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams/:id", handler.Get)

	token := generateTestToken(t, jwtSvc, userID, "test@example.com")
	req := httptest.NewRequest(http.MethodGet, "/teams/invalid-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid team id")
}

func TestTeamHandler_NotAuthenticated(t *testing.T) {
	_, _, _, handler, jwtSvc := setupTeamTest(t)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(jwtSvc))
	app.Get("/teams", handler.List)
	app.Post("/teams", handler.Create)

	req := httptest.NewRequest(http.MethodGet, "/teams", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body := dto.CreateTeamRequest{Name: "Test"}
	jsonBody, _ := json.Marshal(body)
	req = httptest.NewRequest(http.MethodPost, "/teams", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
