package models

import (
	"time"

	"github.com/google/uuid"
)

// ItemState is the traffic-light state of a top-level item.
type ItemState string

const (
	ItemStateRed    ItemState = "red"
	ItemStateYellow ItemState = "yellow"
	ItemStateGreen  ItemState = "green"
)

func (s ItemState) Valid() bool {
	return s == ItemStateRed || s == ItemStateYellow || s == ItemStateGreen
}

type SubtaskState string

const (
	SubtaskStateTodo       SubtaskState = "todo"
	SubtaskStateInProgress SubtaskState = "in-progress"
	SubtaskStateDone       SubtaskState = "done"
)

func (s SubtaskState) Valid() bool {
	return s == SubtaskStateTodo || s == SubtaskStateInProgress || s == SubtaskStateDone
}

// List is either personal (TeamID nil, OwnerID grants access) or team-owned
// (TeamID set; OwnerID is the display owner only and access is decided by
// team membership).
type List struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	TeamID    *uuid.UUID `json:"team_id,omitempty"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (l *List) IsTeamList() bool {
	return l.TeamID != nil
}

type Item struct {
	ID         uuid.UUID  `json:"id"`
	ListID     uuid.UUID  `json:"list_id"`
	Text       string     `json:"text"`
	State      ItemState  `json:"state"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Subtask struct {
	ID        uuid.UUID    `json:"id"`
	ItemID    uuid.UUID    `json:"item_id"`
	Text      string       `json:"text"`
	State     SubtaskState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Author    *User     `json:"author,omitempty"`
}

// LinkedRepo ties a GitHub repository to a list for issue import.
type LinkedRepo struct {
	ID        uuid.UUID `json:"id"`
	ListID    uuid.UUID `json:"list_id"`
	RepoOwner string    `json:"repo_owner"`
	RepoName  string    `json:"repo_name"`
	CreatedAt time.Time `json:"created_at"`
}
