package service

import (
	"context"
	"time"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
)

type StudySessionService struct {
	repo   *repository.StudySessionRepository
	logger logging.Logger
	now    func() time.Time
}

type CreateStudySessionInput struct {
	Duration int     `json:"duration" binding:"required,gt=0"`
	Subject  *string `json:"subject"`
	Type     string  `json:"type" binding:"omitempty,timer_mode"`
}

func NewStudySessionService(repo *repository.StudySessionRepository, logger logging.Logger) *StudySessionService {
	return &StudySessionService{repo: repo, logger: logger, now: time.Now}
}

func (s *StudySessionService) List(ctx context.Context, userID int64) ([]model.StudySession, *apperrors.APIError) {
	sessions, err := s.repo.List(ctx, userID, 0)
	if err != nil {
		return nil, internalError(s.logger, "list study sessions", err)
	}
	return sessions, nil
}

func (s *StudySessionService) Create(ctx context.Context, userID int64, input CreateStudySessionInput) (*model.StudySession, *apperrors.APIError) {
	session := model.StudySession{
		UserID:   userID,
		Duration: input.Duration,
		Subject:  input.Subject,
		Type:     input.Type,
	}
	if session.Type == "" {
		session.Type = model.ModePomodoro
	}
	if err := s.repo.Create(ctx, &session); err != nil {
		return nil, internalError(s.logger, "log study session", err)
	}
	return &session, nil
}

// Stats aggregates the user's sessions. "Today" is the current UTC day.
func (s *StudySessionService) Stats(ctx context.Context, userID int64) (*model.StudyStats, *apperrors.APIError) {
	sessions, err := s.repo.List(ctx, userID, 0)
	if err != nil {
		return nil, internalError(s.logger, "load study stats", err)
	}
	return summarize(sessions, s.now().UTC()), nil
}

func summarize(sessions []model.StudySession, now time.Time) *model.StudyStats {
	stats := &model.StudyStats{BySubject: map[string]int{}}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for _, session := range sessions {
		stats.TotalSessions++
		stats.TotalMinutes += session.Duration
		stats.BySubject[stringOr(session.Subject, model.DefaultSubject)] += session.Duration
		if !session.CreatedAt.Before(dayStart) {
			stats.TodaySessions++
			stats.TodayMinutes += session.Duration
		}
	}
	return stats
}
