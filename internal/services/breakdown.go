package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BreakdownService asks Gemini to split an item into subtasks. The model
// call runs in the background after authorization; generated subtasks appear
// under the item when the call finishes.
type BreakdownService struct {
	db     *database.DB
	access *AccessService
	log    *logrus.Logger

	client *http.Client
	apiKey string
}

func NewBreakdownService(db *database.DB, access *AccessService, log *logrus.Logger, apiKey string) *BreakdownService {
	return &BreakdownService{
		db:     db,
		access: access,
		log:    log,
		client: &http.Client{Timeout: 60 * time.Second},
		apiKey: apiKey,
	}
}

const geminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Breakdown schedules subtask generation for the item. Errors after
// scheduling are logged, not surfaced.
func (s *BreakdownService) Breakdown(ctx context.Context, actorID, itemID uuid.UUID) error {
	if s.apiKey == "" {
		return fmt.Errorf("breakdown is not configured")
	}

	ok, err := s.access.HasAccessToItem(ctx, actorID, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}

	var text string
	if err := s.db.Pool.QueryRow(ctx, `SELECT text FROM items WHERE id = $1`, itemID).Scan(&text); err != nil {
		return ErrItemNotFound
	}

	go s.generate(itemID, text)
	return nil
}

func (s *BreakdownService) generate(itemID uuid.UUID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	log := s.log.WithField("item_id", itemID)

	subtasks, err := s.askModel(ctx, text)
	if err != nil {
		log.WithError(err).Warn("subtask generation failed")
		return
	}

	for _, st := range subtasks {
		if _, err := s.db.Pool.Exec(ctx, `
			INSERT INTO subtasks (item_id, text) VALUES ($1, $2)
		`, itemID, st); err != nil {
			log.WithError(err).Warn("failed to insert generated subtask")
			return
		}
	}
	log.WithField("count", len(subtasks)).Info("generated subtasks")
}

func (s *BreakdownService) askModel(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Break down the following task into 3 to 5 concrete subtasks. "+
			"Respond with only a JSON array of strings, no other text.\n\nTask: %s", text)

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiURL+"?key="+s.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gemini returned %d: %s", resp.StatusCode, data)
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	return parseSubtasks(gr.Candidates[0].Content.Parts[0].Text)
}

// parseSubtasks pulls a JSON string array out of the model reply, tolerating
// markdown code fences around it.
func parseSubtasks(reply string) ([]string, error) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	var subtasks []string
	if err := json.Unmarshal([]byte(reply), &subtasks); err != nil {
		return nil, fmt.Errorf("unparseable model reply: %w", err)
	}

	out := make([]string, 0, len(subtasks))
	for _, st := range subtasks {
		st = strings.TrimSpace(st)
		if st != "" {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("model reply contained no subtasks")
	}
	if len(out) > 5 {
		out = out[:5]
	}
	return out, nil
}
