package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type TimerSettingsRepository struct {
	db *sqlx.DB
}

func NewTimerSettingsRepository(db *sqlx.DB) *TimerSettingsRepository {
	return &TimerSettingsRepository{db: db}
}

type timerSettingsRow struct {
	UserID            int64  `db:"user_id"`
	Mode              string `db:"mode"`
	Subject           string `db:"subject"`
	PomodoroSeconds   int    `db:"pomodoro_seconds"`
	ShortBreakSeconds int    `db:"short_break_seconds"`
	LongBreakSeconds  int    `db:"long_break_seconds"`
	UpdatedAt         string `db:"updated_at"`
}

// Get returns the stored settings for userID, or ErrNotFound when the user
// never changed them.
func (r *TimerSettingsRepository) Get(ctx context.Context, userID int64) (*model.TimerSettings, error) {
	var row timerSettingsRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		`SELECT user_id, mode, subject, pomodoro_seconds, short_break_seconds, long_break_seconds, updated_at
		 FROM timer_settings WHERE user_id = ?`), userID)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get timer settings: %w", err)
	}

	updatedAt, err := parseTime(row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse timer settings updated_at: %w", err)
	}
	return &model.TimerSettings{
		UserID:            row.UserID,
		Mode:              row.Mode,
		Subject:           row.Subject,
		PomodoroSeconds:   row.PomodoroSeconds,
		ShortBreakSeconds: row.ShortBreakSeconds,
		LongBreakSeconds:  row.LongBreakSeconds,
		UpdatedAt:         updatedAt,
	}, nil
}

func (r *TimerSettingsRepository) Save(ctx context.Context, settings *model.TimerSettings) error {
	settings.UpdatedAt = now()

	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`INSERT INTO timer_settings (
			user_id, mode, subject, pomodoro_seconds, short_break_seconds, long_break_seconds, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			mode = excluded.mode,
			subject = excluded.subject,
			pomodoro_seconds = excluded.pomodoro_seconds,
			short_break_seconds = excluded.short_break_seconds,
			long_break_seconds = excluded.long_break_seconds,
			updated_at = excluded.updated_at`),
		settings.UserID,
		settings.Mode,
		settings.Subject,
		settings.PomodoroSeconds,
		settings.ShortBreakSeconds,
		settings.LongBreakSeconds,
		formatTime(settings.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save timer settings: %w", err)
	}
	return nil
}
