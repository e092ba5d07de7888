package model

import "time"

const (
	ScheduleClass      = "class"
	ScheduleStudy      = "study"
	ScheduleAssignment = "assignment"
	ScheduleExam       = "exam"
	SchedulePersonal   = "personal"
)

type Schedule struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Location    *string   `json:"location"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}
