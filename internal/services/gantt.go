package services

import (
	"context"
	"time"

	"github.com/dotlib/dotlib-api/internal/database"
	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
)

// GanttTask is one bar on a Gantt chart. Progress is derived from the item
// state: red 0, yellow 50, green 100.
type GanttTask struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Progress int       `json:"progress"`
	Assignee string    `json:"assignee,omitempty"`
}

type GanttService struct {
	db     *database.DB
	access *AccessService
}

func NewGanttService(db *database.DB, access *AccessService) *GanttService {
	return &GanttService{db: db, access: access}
}

// GetListChart maps the list's items to Gantt rows. Items without dates use
// their creation day as start and a one-day bar.
func (s *GanttService) GetListChart(ctx context.Context, actorID, listID uuid.UUID) ([]GanttTask, error) {
	ok, err := s.access.HasAccessToList(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT i.id, i.text, i.state, i.start_date, i.due_date, i.created_at, u.username
		FROM items i
		LEFT JOIN users u ON u.id = i.assignee_id
		WHERE i.list_id = $1
		ORDER BY i.created_at
	`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []GanttTask{}
	for rows.Next() {
		var (
			task      GanttTask
			state     models.ItemState
			start     *time.Time
			due       *time.Time
			createdAt time.Time
			assignee  *string
		)
		if err := rows.Scan(&task.ID, &task.Name, &state, &start, &due, &createdAt, &assignee); err != nil {
			return nil, err
		}

		task.Start = createdAt
		if start != nil {
			task.Start = *start
		}
		task.End = task.Start.Add(24 * time.Hour)
		if due != nil {
			task.End = *due
		}
		task.Progress = stateProgress(state)
		if assignee != nil {
			task.Assignee = *assignee
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func stateProgress(state models.ItemState) int {
	switch state {
	case models.ItemStateGreen:
		return 100
	case models.ItemStateYellow:
		return 50
	default:
		return 0
	}
}
