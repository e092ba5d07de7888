package model

import "time"

type Card struct {
	Front string `json:"front" binding:"required"`
	Back  string `json:"back" binding:"required"`
}

// Flashcard is a named deck of cards.
type Flashcard struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	DeckName  string    `json:"deckName"`
	Cards     []Card    `json:"cards"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
