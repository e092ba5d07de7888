package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type NoteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

type noteRow struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	Title     string `db:"title"`
	Content   string `db:"content"`
	Tags      string `db:"tags"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (row noteRow) toModel() (*model.Note, error) {
	note := &model.Note{
		ID:      row.ID,
		UserID:  row.UserID,
		Title:   row.Title,
		Content: row.Content,
		Tags:    []string{},
	}
	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &note.Tags); err != nil {
			return nil, fmt.Errorf("decode note tags: %w", err)
		}
	}
	var err error
	if note.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, fmt.Errorf("parse note created_at: %w", err)
	}
	if note.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parse note updated_at: %w", err)
	}
	return note, nil
}

const noteColumns = `id, user_id, title, content, tags, created_at, updated_at`

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(raw), nil
}

func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}
	ts := now()
	note.CreatedAt = ts
	note.UpdatedAt = ts
	if note.Tags == nil {
		note.Tags = []string{}
	}

	err = r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`INSERT INTO notes (user_id, title, content, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		note.UserID, note.Title, note.Content, tags, formatTime(ts), formatTime(ts),
	).Scan(&note.ID)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) Get(ctx context.Context, userID, id int64) (*model.Note, error) {
	var row noteRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT `+noteColumns+` FROM notes WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return row.toModel()
}

func (r *NoteRepository) List(ctx context.Context, userID int64) ([]model.Note, error) {
	var rows []noteRow
	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`SELECT `+noteColumns+` FROM notes WHERE user_id = ? ORDER BY updated_at DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]model.Note, 0, len(rows))
	for _, row := range rows {
		note, err := row.toModel()
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, note *model.Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}
	note.UpdatedAt = now()

	_, err = r.db.ExecContext(
		ctx,
		r.db.Rebind(`UPDATE notes SET title = ?, content = ?, tags = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`),
		note.Title, note.Content, tags, formatTime(note.UpdatedAt), note.ID, note.UserID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM notes WHERE id = ? AND user_id = ?`), id, userID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
