package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	FirstName    sql.NullString `db:"first_name"`
	LastName     sql.NullString `db:"last_name"`
	ProfileImage sql.NullString `db:"profile_image"`
	CreatedAt    string         `db:"created_at"`
	UpdatedAt    string         `db:"updated_at"`
}

func (row userRow) toModel() (*model.User, error) {
	createdAt, err := parseTime(row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse user created_at: %w", err)
	}
	updatedAt, err := parseTime(row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse user updated_at: %w", err)
	}
	return &model.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		FirstName:    stringPtr(row.FirstName),
		LastName:     stringPtr(row.LastName),
		ProfileImage: stringPtr(row.ProfileImage),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

const userColumns = `id, username, email, first_name, last_name, profile_image, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	err := r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`INSERT INTO users (username, email, first_name, last_name, profile_image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		user.Username,
		user.Email,
		nullString(user.FirstName),
		nullString(user.LastName),
		nullString(user.ProfileImage),
		formatTime(ts),
		formatTime(ts),
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return row.toModel()
}

// ExistsByUsernameOrEmail reports whether either value is already taken.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.db.GetContext(
		ctx,
		&count,
		r.db.Rebind(`SELECT COUNT(1) FROM users WHERE username = ? OR email = ?`),
		username,
		email,
	)
	if err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return count > 0, nil
}
