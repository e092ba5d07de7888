package service

import (
	"context"
	"sync"
	"time"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
	"studysync/backend/internal/timer"
)

// completionTimeout bounds the study session insert made when a timer
// finishes.
const completionTimeout = 10 * time.Second

// TimerService hosts one live countdown per user. Countdowns live in memory;
// mode, subject and durations are persisted so that a restart brings the
// user back to an idle timer with the same settings.
type TimerService struct {
	settingsRepo *repository.TimerSettingsRepository
	sessionRepo  *repository.StudySessionRepository
	logger       logging.Logger
	clock        timer.Clock

	mu      sync.Mutex
	entries map[int64]*timerEntry
}

type timerEntry struct {
	mu       sync.Mutex
	userID   int64
	settings model.TimerSettings
	timer    *timer.Timer
	version  int
}

type TimerView struct {
	timer.Snapshot
	Mode              string    `json:"mode"`
	PomodoroSeconds   int       `json:"pomodoroSeconds"`
	ShortBreakSeconds int       `json:"shortBreakSeconds"`
	LongBreakSeconds  int       `json:"longBreakSeconds"`
	Version           int       `json:"version"`
	ServerTime        time.Time `json:"serverTime"`
}

type UpdateTimerSettingsInput struct {
	BaseVersion       int `json:"baseVersion"`
	PomodoroSeconds   int `json:"pomodoroSeconds" binding:"required,gt=0"`
	ShortBreakSeconds int `json:"shortBreakSeconds" binding:"required,gt=0"`
	LongBreakSeconds  int `json:"longBreakSeconds" binding:"required,gt=0"`
}

func NewTimerService(
	settingsRepo *repository.TimerSettingsRepository,
	sessionRepo *repository.StudySessionRepository,
	logger logging.Logger,
	clock timer.Clock,
) *TimerService {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	return &TimerService{
		settingsRepo: settingsRepo,
		sessionRepo:  sessionRepo,
		logger:       logger,
		clock:        clock,
		entries:      make(map[int64]*timerEntry),
	}
}

func (s *TimerService) Get(ctx context.Context, userID int64) (*TimerView, *apperrors.APIError) {
	entry, apiErr := s.entry(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	view := entry.view()
	return &view, nil
}

func (s *TimerService) Start(ctx context.Context, userID int64, baseVersion int) (*TimerView, *apperrors.APIError) {
	return s.mutate(ctx, userID, baseVersion, func(entry *timerEntry) *apperrors.APIError {
		entry.timer.Start()
		return nil
	})
}

func (s *TimerService) Pause(ctx context.Context, userID int64, baseVersion int) (*TimerView, *apperrors.APIError) {
	return s.mutate(ctx, userID, baseVersion, func(entry *timerEntry) *apperrors.APIError {
		entry.timer.Pause()
		return nil
	})
}

// Reset returns the timer to idle with the current preset, picking up
// durations changed while it was running.
func (s *TimerService) Reset(ctx context.Context, userID int64, baseVersion int) (*TimerView, *apperrors.APIError) {
	return s.mutate(ctx, userID, baseVersion, func(entry *timerEntry) *apperrors.APIError {
		total := entry.settings.DurationFor(entry.settings.Mode)
		if total != entry.timer.Snapshot().TotalSeconds {
			entry.timer.SetTotal(total)
			return nil
		}
		entry.timer.Reset()
		return nil
	})
}

// SwitchMode selects a preset and leaves the timer idle with that preset's
// full duration.
func (s *TimerService) SwitchMode(ctx context.Context, userID int64, baseVersion int, mode string) (*TimerView, *apperrors.APIError) {
	if !model.IsValidMode(mode) {
		return nil, apperrors.BadRequest("invalid_mode", "mode must be one of pomodoro, short_break, long_break")
	}

	return s.mutate(ctx, userID, baseVersion, func(entry *timerEntry) *apperrors.APIError {
		next := entry.settings
		next.Mode = mode
		if err := s.settingsRepo.Save(ctx, &next); err != nil {
			return internalError(s.logger, "save timer mode", err)
		}
		entry.settings = next
		entry.timer.SetTotal(next.DurationFor(mode))
		return nil
	})
}

// SetSubject changes the label recorded with the next completed session.
func (s *TimerService) SetSubject(ctx context.Context, userID int64, baseVersion int, subject string) (*TimerView, *apperrors.APIError) {
	return s.mutate(ctx, userID, baseVersion, func(entry *timerEntry) *apperrors.APIError {
		next := entry.settings
		next.Subject = subject
		if err := s.settingsRepo.Save(ctx, &next); err != nil {
			return internalError(s.logger, "save timer subject", err)
		}
		entry.settings = next
		entry.timer.SetSubject(subject)
		return nil
	})
}

// UpdateSettings stores new preset durations. An idle or paused timer whose
// current preset changed is reset to the new duration; a running countdown
// keeps its interval.
func (s *TimerService) UpdateSettings(ctx context.Context, userID int64, input UpdateTimerSettingsInput) (*TimerView, *apperrors.APIError) {
	if input.PomodoroSeconds <= 0 || input.ShortBreakSeconds <= 0 || input.LongBreakSeconds <= 0 {
		return nil, apperrors.BadRequest("invalid_duration", "all durations must be positive seconds")
	}

	return s.mutate(ctx, userID, input.BaseVersion, func(entry *timerEntry) *apperrors.APIError {
		next := entry.settings
		next.PomodoroSeconds = input.PomodoroSeconds
		next.ShortBreakSeconds = input.ShortBreakSeconds
		next.LongBreakSeconds = input.LongBreakSeconds
		if err := s.settingsRepo.Save(ctx, &next); err != nil {
			return internalError(s.logger, "save timer settings", err)
		}

		previous := entry.settings.DurationFor(entry.settings.Mode)
		entry.settings = next
		current := next.DurationFor(next.Mode)
		if current != previous && entry.timer.State() != timer.StateRunning {
			entry.timer.SetTotal(current)
		}
		return nil
	})
}

// Close stops every live countdown.
func (s *TimerService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		entry.timer.Close()
	}
}

func (s *TimerService) mutate(
	ctx context.Context,
	userID int64,
	baseVersion int,
	apply func(entry *timerEntry) *apperrors.APIError,
) (*TimerView, *apperrors.APIError) {
	entry, apiErr := s.entry(ctx, userID)
	if apiErr != nil {
		return nil, apiErr
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if apiErr := entry.ensureVersion(baseVersion); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := apply(entry); apiErr != nil {
		return nil, apiErr
	}

	entry.version++
	view := entry.view()
	return &view, nil
}

// entry returns the live timer for userID, creating it from the stored
// settings on first use. The settings are read without holding s.mu.
func (s *TimerService) entry(ctx context.Context, userID int64) (*timerEntry, *apperrors.APIError) {
	s.mu.Lock()
	entry, ok := s.entries[userID]
	s.mu.Unlock()
	if ok {
		return entry, nil
	}

	settings, err := s.settingsRepo.Get(ctx, userID)
	if err == repository.ErrNotFound {
		defaults := model.DefaultTimerSettings(userID)
		settings = &defaults
	} else if err != nil {
		return nil, internalError(s.logger, "load timer settings", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[userID]; ok {
		return entry, nil
	}

	entry = &timerEntry{
		userID:   userID,
		settings: *settings,
		version:  1,
	}
	entry.timer = timer.New(
		settings.DurationFor(settings.Mode),
		timer.WithClock(s.clock),
		timer.WithSubject(settings.Subject),
		timer.WithOnComplete(func(done timer.Completion) {
			s.complete(entry, done)
		}),
	)
	s.entries[userID] = entry
	return entry, nil
}

// complete runs on the clock goroutine after the timer released its lock.
func (s *TimerService) complete(entry *timerEntry, done timer.Completion) {
	entry.mu.Lock()
	entry.version++
	mode := entry.settings.Mode
	entry.mu.Unlock()

	subject := done.Subject
	if subject == "" {
		subject = model.DefaultSubject
	}
	session := model.StudySession{
		UserID:   entry.userID,
		Duration: done.DurationMinutes,
		Subject:  &subject,
		Type:     mode,
	}

	ctx, cancel := context.WithTimeout(context.Background(), completionTimeout)
	defer cancel()
	if err := s.sessionRepo.Create(ctx, &session); err != nil {
		s.logger.Error("log completed study session", err)
		return
	}
	s.logger.Info("study session logged", entry.userID, session.Duration, subject)
}

func (e *timerEntry) ensureVersion(baseVersion int) *apperrors.APIError {
	if baseVersion <= 0 || baseVersion == e.version {
		return nil
	}
	return apperrors.Conflict("state_conflict", "timer changed on another device", map[string]interface{}{
		"timer": e.view(),
	})
}

func (e *timerEntry) view() TimerView {
	return TimerView{
		Snapshot:          e.timer.Snapshot(),
		Mode:              e.settings.Mode,
		PomodoroSeconds:   e.settings.PomodoroSeconds,
		ShortBreakSeconds: e.settings.ShortBreakSeconds,
		LongBreakSeconds:  e.settings.LongBreakSeconds,
		Version:           e.version,
		ServerTime:        time.Now().UTC(),
	}
}
