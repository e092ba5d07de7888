package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type StudySessionRepository struct {
	db *sqlx.DB
}

func NewStudySessionRepository(db *sqlx.DB) *StudySessionRepository {
	return &StudySessionRepository{db: db}
}

type studySessionRow struct {
	ID        int64          `db:"id"`
	UserID    int64          `db:"user_id"`
	Duration  int            `db:"duration"`
	Subject   sql.NullString `db:"subject"`
	Type      string         `db:"type"`
	CreatedAt string         `db:"created_at"`
}

func (row studySessionRow) toModel() (*model.StudySession, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse study session created_at: %w", err)
	}
	return &model.StudySession{
		ID:        row.ID,
		UserID:    row.UserID,
		Duration:  row.Duration,
		Subject:   stringPtr(row.Subject),
		Type:      row.Type,
		CreatedAt: createdAt,
	}, nil
}

const studySessionColumns = `id, user_id, duration, subject, type, created_at`

func (r *StudySessionRepository) Create(ctx context.Context, session *model.StudySession) error {
	session.CreatedAt = now()

	err := r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`INSERT INTO study_sessions (user_id, duration, subject, type, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		session.UserID,
		session.Duration,
		nullString(session.Subject),
		session.Type,
		formatTime(session.CreatedAt),
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("create study session: %w", err)
	}
	return nil
}

// List returns the newest sessions first. A non-positive limit returns all.
func (r *StudySessionRepository) List(ctx context.Context, userID int64, limit int) ([]model.StudySession, error) {
	query := `SELECT ` + studySessionColumns + ` FROM study_sessions WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []studySessionRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}

	sessions := make([]model.StudySession, 0, len(rows))
	for _, row := range rows {
		session, err := row.toModel()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, nil
}
