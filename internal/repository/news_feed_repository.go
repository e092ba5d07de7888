package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type NewsFeedRepository struct {
	db *sqlx.DB
}

func NewNewsFeedRepository(db *sqlx.DB) *NewsFeedRepository {
	return &NewsFeedRepository{db: db}
}

type newsFeedRow struct {
	ID        int64          `db:"id"`
	UserID    int64          `db:"user_id"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	ImageURL  sql.NullString `db:"image_url"`
	Likes     int            `db:"likes"`
	CreatedAt string         `db:"created_at"`
}

func (row newsFeedRow) toModel() (*model.NewsFeed, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse news feed created_at: %w", err)
	}
	return &model.NewsFeed{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		Content:   row.Content,
		ImageURL:  stringPtr(row.ImageURL),
		Likes:     row.Likes,
		CreatedAt: createdAt,
	}, nil
}

const newsFeedColumns = `id, user_id, title, content, image_url, likes, created_at`

func (r *NewsFeedRepository) Create(ctx context.Context, post *model.NewsFeed) error {
	post.CreatedAt = now()

	err := r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`INSERT INTO news_feeds (user_id, title, content, image_url, likes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		post.UserID,
		post.Title,
		post.Content,
		nullString(post.ImageURL),
		post.Likes,
		formatTime(post.CreatedAt),
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("create news feed post: %w", err)
	}
	return nil
}

// Get looks a post up by id regardless of owner.
func (r *NewsFeedRepository) Get(ctx context.Context, id int64) (*model.NewsFeed, error) {
	var row newsFeedRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT `+newsFeedColumns+` FROM news_feeds WHERE id = ?`), id)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get news feed post: %w", err)
	}
	return row.toModel()
}

// List returns posts from every user, newest first.
func (r *NewsFeedRepository) List(ctx context.Context) ([]model.NewsFeed, error) {
	var rows []newsFeedRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+newsFeedColumns+` FROM news_feeds ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list news feed: %w", err)
	}

	posts := make([]model.NewsFeed, 0, len(rows))
	for _, row := range rows {
		post, err := row.toModel()
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (r *NewsFeedRepository) Update(ctx context.Context, post *model.NewsFeed) error {
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`UPDATE news_feeds SET title = ?, content = ?, image_url = ?
		 WHERE id = ? AND user_id = ?`),
		post.Title,
		post.Content,
		nullString(post.ImageURL),
		post.ID,
		post.UserID,
	)
	if err != nil {
		return fmt.Errorf("update news feed post: %w", err)
	}
	return nil
}

func (r *NewsFeedRepository) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM news_feeds WHERE id = ? AND user_id = ?`), id, userID); err != nil {
		return fmt.Errorf("delete news feed post: %w", err)
	}
	return nil
}

// Like increments the like counter and returns the updated post.
func (r *NewsFeedRepository) Like(ctx context.Context, id int64) (*model.NewsFeed, error) {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE news_feeds SET likes = likes + 1 WHERE id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("like news feed post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("like news feed post: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}
