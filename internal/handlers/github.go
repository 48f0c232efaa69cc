package handlers

import (
	"context"
	"errors"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/dotlib/dotlib-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type GitHubHandler struct {
	githubService GitHubServiceInterface
}

func NewGitHubHandler(githubService GitHubServiceInterface) *GitHubHandler {
	return &GitHubHandler{githubService: githubService}
}

func (h *GitHubHandler) Link(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	var req dto.LinkRepoRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if err := dto.Validate(&req); err != nil {
		c.BadRequest(err.Error())
		return
	}

	repo, err := h.githubService.Link(context.Background(), userID, listID, req.RepoOwner, req.RepoName)
	if err != nil {
		h.respondRepoError(c, err)
		return
	}

	_ = c.JSON(201, repo)
}

func (h *GitHubHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	repos, err := h.githubService.GetByList(context.Background(), userID, listID)
	if err != nil {
		h.respondRepoError(c, err)
		return
	}

	_ = c.JSON(200, repos)
}

func (h *GitHubHandler) Unlink(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	repoID, err := uuid.Parse(c.Param("repoId"))
	if err != nil {
		c.BadRequest("invalid repo id")
		return
	}

	if err := h.githubService.Unlink(context.Background(), userID, listID, repoID); err != nil {
		h.respondRepoError(c, err)
		return
	}

	_ = c.JSON(200, map[string]string{"message": "repo unlinked"})
}

// Sync schedules an issue import for every repo linked to the list.
func (h *GitHubHandler) Sync(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	listID, err := uuid.Parse(c.Param("listId"))
	if err != nil {
		c.BadRequest("invalid list id")
		return
	}

	if err := h.githubService.Sync(context.Background(), userID, listID); err != nil {
		h.respondRepoError(c, err)
		return
	}

	_ = c.JSON(202, map[string]string{"message": "sync scheduled"})
}

func (h *GitHubHandler) respondRepoError(c *drift.Context, err error) {
	switch {
	case errors.Is(err, services.ErrListNotFound):
		c.NotFound("list not found")
	case errors.Is(err, services.ErrRepoNotFound):
		c.NotFound("repo not found")
	case errors.Is(err, services.ErrUnauthorized):
		c.Forbidden("you cannot access this list")
	default:
		c.InternalServerError("request failed")
	}
}
