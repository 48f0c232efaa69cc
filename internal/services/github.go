package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GitHubService links repositories to lists and imports their open issues
// as items. Imports run in the background; a failed import is logged and the
// next sync retries from scratch.
type GitHubService struct {
	db     *database.DB
	access *AccessService
	log    *logrus.Logger

	client *http.Client
	token  string
}

func NewGitHubService(db *database.DB, access *AccessService, log *logrus.Logger, token string) *GitHubService {
	return &GitHubService{
		db:     db,
		access: access,
		log:    log,
		client: &http.Client{Timeout: 30 * time.Second},
		token:  token,
	}
}

func (s *GitHubService) Link(ctx context.Context, actorID, listID uuid.UUID, repoOwner, repoName string) (*models.LinkedRepo, error) {
	if err := s.requireList(ctx, actorID, listID); err != nil {
		return nil, err
	}

	var repo models.LinkedRepo
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO linked_repos (list_id, repo_owner, repo_name)
		VALUES ($1, $2, $3)
		RETURNING id, list_id, repo_owner, repo_name, created_at
	`, listID, repoOwner, repoName).Scan(
		&repo.ID, &repo.ListID, &repo.RepoOwner, &repo.RepoName, &repo.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to link repo: %w", err)
	}
	return &repo, nil
}

func (s *GitHubService) Unlink(ctx context.Context, actorID, listID, repoID uuid.UUID) error {
	if err := s.requireList(ctx, actorID, listID); err != nil {
		return err
	}

	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM linked_repos WHERE id = $1 AND list_id = $2
	`, repoID, listID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRepoNotFound
	}
	return nil
}

func (s *GitHubService) GetByList(ctx context.Context, actorID, listID uuid.UUID) ([]models.LinkedRepo, error) {
	if err := s.requireList(ctx, actorID, listID); err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, list_id, repo_owner, repo_name, created_at
		FROM linked_repos WHERE list_id = $1 ORDER BY created_at
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	repos := []models.LinkedRepo{}
	for rows.Next() {
		var repo models.LinkedRepo
		if err := rows.Scan(&repo.ID, &repo.ListID, &repo.RepoOwner, &repo.RepoName, &repo.CreatedAt); err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

// Sync schedules an issue import for every repo linked to the list.
func (s *GitHubService) Sync(ctx context.Context, actorID, listID uuid.UUID) error {
	repos, err := s.GetByList(ctx, actorID, listID)
	if err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		for _, repo := range repos {
			s.importIssues(ctx, &repo)
		}
	}()
	return nil
}

type githubIssue struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	PullRequest any    `json:"pull_request"`
}

func (s *GitHubService) importIssues(ctx context.Context, repo *models.LinkedRepo) {
	log := s.log.WithFields(logrus.Fields{
		"list_id": repo.ListID,
		"repo":    repo.RepoOwner + "/" + repo.RepoName,
	})

	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/issues?state=open&per_page=100",
		repo.RepoOwner, repo.RepoName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.WithError(err).Warn("failed to build github request")
		return
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("github issue fetch failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.WithField("status", resp.StatusCode).WithField("body", string(data)).Warn("github rejected issue fetch")
		return
	}

	var issues []githubIssue
	if err := json.NewDecoder(resp.Body).Decode(&issues); err != nil {
		log.WithError(err).Warn("failed to decode github issues")
		return
	}

	imported := 0
	for _, issue := range issues {
		if issue.PullRequest != nil {
			continue
		}
		text := fmt.Sprintf("#%d %s", issue.Number, issue.Title)

		var exists bool
		err := s.db.Pool.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM items WHERE list_id = $1 AND text = $2)
		`, repo.ListID, text).Scan(&exists)
		if err != nil {
			log.WithError(err).Warn("issue import aborted")
			return
		}
		if exists {
			continue
		}

		if _, err := s.db.Pool.Exec(ctx, `
			INSERT INTO items (list_id, text) VALUES ($1, $2)
		`, repo.ListID, text); err != nil {
			log.WithError(err).Warn("issue import aborted")
			return
		}
		imported++
	}
	log.WithField("imported", imported).Info("github issues imported")
}

func (s *GitHubService) requireList(ctx context.Context, actorID, listID uuid.UUID) error {
	ok, err := s.access.HasAccessToList(ctx, actorID, listID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
