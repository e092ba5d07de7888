package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type projectRow struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Type        string         `db:"type"`
	Status      string         `db:"status"`
	Data        string         `db:"data"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (row projectRow) toModel() (*model.Project, error) {
	project := &model.Project{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: stringPtr(row.Description),
		Type:        row.Type,
		Status:      row.Status,
		Data:        json.RawMessage(row.Data),
	}
	var err error
	if project.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, fmt.Errorf("parse project created_at: %w", err)
	}
	if project.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parse project updated_at: %w", err)
	}
	return project, nil
}

const projectColumns = `id, user_id, title, description, type, status, data, created_at, updated_at`

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	ts := now()
	project.CreatedAt = ts
	project.UpdatedAt = ts

	err := r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`INSERT INTO projects (user_id, title, description, type, status, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		project.UserID,
		project.Title,
		nullString(project.Description),
		project.Type,
		project.Status,
		string(project.Data),
		formatTime(ts),
		formatTime(ts),
	).Scan(&project.ID)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Get(ctx context.Context, userID, id int64) (*model.Project, error) {
	var row projectRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT `+projectColumns+` FROM projects WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return row.toModel()
}

// List returns the user's projects, optionally restricted to one type.
func (r *ProjectRepository) List(ctx context.Context, userID int64, projectType string) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = ?`
	args := []interface{}{userID}
	if projectType != "" {
		query += ` AND type = ?`
		args = append(args, projectType)
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		project, err := row.toModel()
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = now()

	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`UPDATE projects
		 SET title = ?, description = ?, type = ?, status = ?, data = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`),
		project.Title,
		nullString(project.Description),
		project.Type,
		project.Status,
		string(project.Data),
		formatTime(project.UpdatedAt),
		project.ID,
		project.UserID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM projects WHERE id = ? AND user_id = ?`), id, userID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
