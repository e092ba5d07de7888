package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"studysync/backend/internal/model"
)

type FlashcardRepository struct {
	db *sqlx.DB
}

func NewFlashcardRepository(db *sqlx.DB) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

type flashcardRow struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	DeckName  string `db:"deck_name"`
	Cards     string `db:"cards"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (row flashcardRow) toModel() (*model.Flashcard, error) {
	deck := &model.Flashcard{
		ID:       row.ID,
		UserID:   row.UserID,
		DeckName: row.DeckName,
		Cards:    []model.Card{},
	}
	if err := json.Unmarshal([]byte(row.Cards), &deck.Cards); err != nil {
		return nil, fmt.Errorf("decode flashcard cards: %w", err)
	}
	var err error
	if deck.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, fmt.Errorf("parse flashcard created_at: %w", err)
	}
	if deck.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("parse flashcard updated_at: %w", err)
	}
	return deck, nil
}

const flashcardColumns = `id, user_id, deck_name, cards, created_at, updated_at`

func (r *FlashcardRepository) Create(ctx context.Context, deck *model.Flashcard) error {
	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	ts := now()
	deck.CreatedAt = ts
	deck.UpdatedAt = ts

	err = r.db.QueryRowxContext(
		ctx,
		r.db.Rebind(`INSERT INTO flashcards (user_id, deck_name, cards, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		deck.UserID, deck.DeckName, string(cards), formatTime(ts), formatTime(ts),
	).Scan(&deck.ID)
	if err != nil {
		return fmt.Errorf("create flashcard: %w", err)
	}
	return nil
}

func (r *FlashcardRepository) Get(ctx context.Context, userID, id int64) (*model.Flashcard, error) {
	var row flashcardRow
	err := r.db.GetContext(ctx, &row,
		r.db.Rebind(`SELECT `+flashcardColumns+` FROM flashcards WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get flashcard: %w", err)
	}
	return row.toModel()
}

func (r *FlashcardRepository) List(ctx context.Context, userID int64) ([]model.Flashcard, error) {
	var rows []flashcardRow
	err := r.db.SelectContext(ctx, &rows,
		r.db.Rebind(`SELECT `+flashcardColumns+` FROM flashcards WHERE user_id = ? ORDER BY updated_at DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}

	decks := make([]model.Flashcard, 0, len(rows))
	for _, row := range rows {
		deck, err := row.toModel()
		if err != nil {
			return nil, err
		}
		decks = append(decks, *deck)
	}
	return decks, nil
}

func (r *FlashcardRepository) Update(ctx context.Context, deck *model.Flashcard) error {
	cards, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	deck.UpdatedAt = now()

	_, err = r.db.ExecContext(
		ctx,
		r.db.Rebind(`UPDATE flashcards SET deck_name = ?, cards = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`),
		deck.DeckName, string(cards), formatTime(deck.UpdatedAt), deck.ID, deck.UserID,
	)
	if err != nil {
		return fmt.Errorf("update flashcard: %w", err)
	}
	return nil
}

func (r *FlashcardRepository) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM flashcards WHERE id = ? AND user_id = ?`), id, userID); err != nil {
		return fmt.Errorf("delete flashcard: %w", err)
	}
	return nil
}
