package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type TodoRepository struct {
	db *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// TodoFilter narrows List. Zero values match everything.
type TodoFilter struct {
	Completed *bool
	Priority  string
}

type todoRow struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Completed   bool           `db:"completed"`
	Priority    string         `db:"priority"`
	DueDate     sql.NullString `db:"due_date"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (row todoRow) toModel() (*model.Todo, error) {
	todo := &model.Todo{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Description: stringPtr(row.Description),
		Completed:   row.Completed,
		Priority:    row.Priority,
	}
	var err error
	if todo.DueDate, err = parseNullTime(row.DueDate); err != nil {
		return nil, fmt.Errorf("parse todo due_date: %w", err)
	}
	if todo.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, fmt.Errorf("parse todo created_at: %w", err)
	}
	if todo.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parse todo updated_at: %w", err)
	}
	return todo, nil
}

const todoColumns = `id, user_id, title, description, completed, priority, due_date, created_at, updated_at`

func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	ts := now()
	todo.CreatedAt = ts
	todo.UpdatedAt = ts

	err := r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`INSERT INTO todos (user_id, title, description, completed, priority, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		todo.UserID,
		todo.Title,
		nullString(todo.Description),
		todo.Completed,
		todo.Priority,
		formatTimePtr(todo.DueDate),
		formatTime(ts),
		formatTime(ts),
	).Scan(&todo.ID)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) Get(ctx context.Context, userID, id int64) (*model.Todo, error) {
	var row todoRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT `+todoColumns+` FROM todos WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get todo: %w", err)
	}
	return row.toModel()
}

func (r *TodoRepository) List(ctx context.Context, userID int64, filter TodoFilter) ([]model.Todo, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{userID}
	if filter.Completed != nil {
		where = append(where, "completed = ?")
		args = append(args, *filter.Completed)
	}
	if filter.Priority != "" {
		where = append(where, "priority = ?")
		args = append(args, filter.Priority)
	}

	query := `SELECT ` + todoColumns + ` FROM todos WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY updated_at DESC, id DESC`

	var rows []todoRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos := make([]model.Todo, 0, len(rows))
	for _, row := range rows {
		todo, err := row.toModel()
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, nil
}

func (r *TodoRepository) Update(ctx context.Context, todo *model.Todo) error {
	todo.UpdatedAt = now()

	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`UPDATE todos
		 SET title = ?, description = ?, completed = ?, priority = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`),
		todo.Title,
		nullString(todo.Description),
		todo.Completed,
		todo.Priority,
		formatTimePtr(todo.DueDate),
		formatTime(todo.UpdatedAt),
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM todos WHERE id = ? AND user_id = ?`), id, userID); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}
