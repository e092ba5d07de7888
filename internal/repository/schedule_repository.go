package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

type scheduleRow struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	StartTime   string         `db:"start_time"`
	EndTime     string         `db:"end_time"`
	Location    sql.NullString `db:"location"`
	Type        string         `db:"type"`
	CreatedAt   string         `db:"created_at"`
}

func (row scheduleRow) toModel() (*model.Schedule, error) {
	schedule := &model.Schedule{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: stringPtr(row.Description),
		Location:    stringPtr(row.Location),
		Type:        row.Type,
	}
	var err error
	if schedule.StartTime, err = parseTime(row.StartTime); err != nil {
		return nil, fmt.Errorf("parse schedule start_time: %w", err)
	}
	if schedule.EndTime, err = parseTime(row.EndTime); err != nil {
		return nil, fmt.Errorf("parse schedule end_time: %w", err)
	}
	if schedule.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, fmt.Errorf("parse schedule created_at: %w", err)
	}
	return schedule, nil
}

const scheduleColumns = `id, user_id, title, description, start_time, end_time, location, type, created_at`

func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.Schedule) error {
	schedule.CreatedAt = now()

	err := r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`INSERT INTO schedules (user_id, title, description, start_time, end_time, location, type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		schedule.UserID,
		schedule.Title,
		nullString(schedule.Description),
		formatTime(schedule.StartTime),
		formatTime(schedule.EndTime),
		nullString(schedule.Location),
		schedule.Type,
		formatTime(schedule.CreatedAt),
	).Scan(&schedule.ID)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) Get(ctx context.Context, userID, id int64) (*model.Schedule, error) {
	var row scheduleRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT `+scheduleColumns+` FROM schedules WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return row.toModel()
}

func (r *ScheduleRepository) List(ctx context.Context, userID int64) ([]model.Schedule, error) {
	return r.selectSchedules(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE user_id = ? ORDER BY start_time ASC, id ASC`, userID)
}

// ListUpcoming returns schedules that have not ended by from, soonest first.
func (r *ScheduleRepository) ListUpcoming(ctx context.Context, userID int64, from time.Time, limit int) ([]model.Schedule, error) {
	return r.selectSchedules(ctx,
		`SELECT `+scheduleColumns+` FROM schedules
		 WHERE user_id = ? AND end_time >= ?
		 ORDER BY start_time ASC, id ASC
		 LIMIT ?`,
		userID, formatTime(from), limit)
}

func (r *ScheduleRepository) selectSchedules(ctx context.Context, query string, args ...interface{}) ([]model.Schedule, error) {
	var rows []scheduleRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	schedules := make([]model.Schedule, 0, len(rows))
	for _, row := range rows {
		schedule, err := row.toModel()
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *schedule)
	}
	return schedules, nil
}

func (r *ScheduleRepository) Update(ctx context.Context, schedule *model.Schedule) error {
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`UPDATE schedules
		 SET title = ?, description = ?, start_time = ?, end_time = ?, location = ?, type = ?
		 WHERE id = ? AND user_id = ?`),
		schedule.Title,
		nullString(schedule.Description),
		formatTime(schedule.StartTime),
		formatTime(schedule.EndTime),
		nullString(schedule.Location),
		schedule.Type,
		schedule.ID,
		schedule.UserID,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM schedules WHERE id = ? AND user_id = ?`), id, userID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
