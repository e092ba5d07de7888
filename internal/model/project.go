package model

import (
	"encoding/json"
	"time"
)

const (
	ProjectAcademic = "academic"
	ProjectPersonal = "personal"
	ProjectCareer   = "career"

	ProjectNotStarted = "not_started"
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
	ProjectOnHold     = "on_hold"
)

type Project struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
