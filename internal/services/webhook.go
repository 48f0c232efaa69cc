package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// WebhookService keeps the outbound webhook registry and delivers events to
// registered endpoints. Delivery is fire and forget: a dead endpoint is
// logged and skipped, it never fails the operation that raised the event.
type WebhookService struct {
	db  *database.DB
	log *logrus.Logger

	client           *http.Client
	discordBotToken  string
	discordChannelID string
}

func NewWebhookService(db *database.DB, log *logrus.Logger, discordBotToken, discordChannelID string) *WebhookService {
	return &WebhookService{
		db:               db,
		log:              log,
		client:           &http.Client{Timeout: 10 * time.Second},
		discordBotToken:  discordBotToken,
		discordChannelID: discordChannelID,
	}
}

func (s *WebhookService) Create(ctx context.Context, name, url, event string) (*models.Webhook, error) {
	var wh models.Webhook
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO webhooks (name, url, event)
		VALUES ($1, $2, $3)
		RETURNING id, name, url, event, created_at
	`, name, url, event).Scan(&wh.ID, &wh.Name, &wh.URL, &wh.Event, &wh.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return &wh, nil
}

func (s *WebhookService) GetAll(ctx context.Context) ([]models.Webhook, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, url, event, created_at FROM webhooks ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	webhooks := []models.Webhook{}
	for rows.Next() {
		var wh models.Webhook
		if err := rows.Scan(&wh.ID, &wh.Name, &wh.URL, &wh.Event, &wh.CreatedAt); err != nil {
			return nil, err
		}
		webhooks = append(webhooks, wh)
	}
	return webhooks, rows.Err()
}

func (s *WebhookService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWebhookNotFound
	}
	return nil
}

// Dispatch posts the payload to every webhook registered for the event.
// Runs in the background; the caller does not wait.
func (s *WebhookService) Dispatch(event string, payload any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		webhooks, err := s.GetAll(ctx)
		if err != nil {
			s.log.WithError(err).Warn("failed to load webhooks for dispatch")
			return
		}

		body, err := json.Marshal(payload)
		if err != nil {
			s.log.WithError(err).Warn("failed to encode webhook payload")
			return
		}

		for _, wh := range webhooks {
			if wh.Event != event {
				continue
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.URL, bytes.NewReader(body))
			if err != nil {
				s.log.WithError(err).WithField("webhook", wh.Name).Warn("failed to build webhook request")
				continue
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.client.Do(req)
			if err != nil {
				s.log.WithError(err).WithField("webhook", wh.Name).Warn("webhook delivery failed")
				continue
			}
			resp.Body.Close()
			if resp.StatusCode >= 300 {
				s.log.WithFields(logrus.Fields{
					"webhook": wh.Name,
					"status":  resp.StatusCode,
				}).Warn("webhook endpoint rejected delivery")
			}
		}
	}()
}

// AnnounceNewUser fires the user.created webhooks and, when a Discord bot is
// configured, renames the configured channel to reflect the new user count.
func (s *WebhookService) AnnounceNewUser(username string) {
	s.Dispatch("user.created", map[string]string{
		"content": fmt.Sprintf("%s just joined!", username),
	})

	if s.discordBotToken == "" || s.discordChannelID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var count int
		if err := s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username IS NOT NULL`).Scan(&count); err != nil {
			s.log.WithError(err).Warn("failed to count users for discord rename")
			return
		}

		body, _ := json.Marshal(map[string]string{
			"name": fmt.Sprintf("members-%d", count),
		})
		url := fmt.Sprintf("https://discord.com/api/v10/channels/%s", s.discordChannelID)
		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
		if err != nil {
			s.log.WithError(err).Warn("failed to build discord request")
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bot "+s.discordBotToken)

		resp, err := s.client.Do(req)
		if err != nil {
			s.log.WithError(err).Warn("discord channel rename failed")
			return
		}
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			s.log.WithField("status", resp.StatusCode).Warn("discord rejected channel rename")
		}
	}()
}
