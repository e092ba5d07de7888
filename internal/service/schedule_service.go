package service

import (
	"context"
	"time"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
)

// upcomingLimit caps the calendar events listing.
const upcomingLimit = 50

type ScheduleService struct {
	repo   *repository.ScheduleRepository
	logger logging.Logger
	now    func() time.Time
}

type CreateScheduleInput struct {
	Title       string    `json:"title" binding:"required"`
	Description *string   `json:"description"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required,gtfield=StartTime"`
	Location    *string   `json:"location"`
	Type        string    `json:"type" binding:"required,schedule_type"`
}

type UpdateScheduleInput struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Location    *string    `json:"location"`
	Type        *string    `json:"type" binding:"omitempty,schedule_type"`
}

func NewScheduleService(repo *repository.ScheduleRepository, logger logging.Logger) *ScheduleService {
	return &ScheduleService{repo: repo, logger: logger, now: time.Now}
}

func (s *ScheduleService) List(ctx context.Context, userID int64) ([]model.Schedule, *apperrors.APIError) {
	schedules, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, internalError(s.logger, "list schedules", err)
	}
	return schedules, nil
}

// Upcoming returns schedules that have not ended yet.
func (s *ScheduleService) Upcoming(ctx context.Context, userID int64) ([]model.Schedule, *apperrors.APIError) {
	schedules, err := s.repo.ListUpcoming(ctx, userID, s.now(), upcomingLimit)
	if err != nil {
		return nil, internalError(s.logger, "list upcoming schedules", err)
	}
	return schedules, nil
}

func (s *ScheduleService) Create(ctx context.Context, userID int64, input CreateScheduleInput) (*model.Schedule, *apperrors.APIError) {
	schedule := model.Schedule{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		StartTime:   input.StartTime.UTC(),
		EndTime:     input.EndTime.UTC(),
		Location:    input.Location,
		Type:        input.Type,
	}
	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, internalError(s.logger, "create schedule", err)
	}
	return &schedule, nil
}

func (s *ScheduleService) Update(ctx context.Context, userID, id int64, input UpdateScheduleInput) (*model.Schedule, *apperrors.APIError) {
	schedule, err := s.repo.Get(ctx, userID, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("schedule_not_found", "schedule not found")
	}
	if err != nil {
		return nil, internalError(s.logger, "get schedule", err)
	}

	if input.Title != nil {
		schedule.Title = *input.Title
	}
	if input.Description != nil {
		schedule.Description = input.Description
	}
	if input.StartTime != nil {
		schedule.StartTime = input.StartTime.UTC()
	}
	if input.EndTime != nil {
		schedule.EndTime = input.EndTime.UTC()
	}
	if input.Location != nil {
		schedule.Location = input.Location
	}
	if input.Type != nil {
		schedule.Type = *input.Type
	}
	if !schedule.EndTime.After(schedule.StartTime) {
		return nil, apperrors.Validation(map[string]string{"endTime": "endTime must be after startTime"})
	}

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, internalError(s.logger, "update schedule", err)
	}
	return schedule, nil
}

func (s *ScheduleService) Delete(ctx context.Context, userID, id int64) *apperrors.APIError {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return internalError(s.logger, "delete schedule", err)
	}
	return nil
}
