package model

import "time"

type StudySession struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Duration  int       `json:"duration"`
	Subject   *string   `json:"subject"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type StudyStats struct {
	TotalSessions int            `json:"totalSessions"`
	TotalMinutes  int            `json:"totalMinutes"`
	TodaySessions int            `json:"todaySessions"`
	TodayMinutes  int            `json:"todayMinutes"`
	BySubject     map[string]int `json:"bySubject"`
}
