package service

import (
	"context"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
)

type FlashcardService struct {
	repo   *repository.FlashcardRepository
	logger logging.Logger
}

type CreateFlashcardInput struct {
	DeckName string       `json:"deckName" binding:"required"`
	Cards    []model.Card `json:"cards" binding:"required,min=1,dive"`
}

type UpdateFlashcardInput struct {
	DeckName *string       `json:"deckName" binding:"omitempty,min=1"`
	Cards    *[]model.Card `json:"cards" binding:"omitempty,min=1,dive"`
}

func NewFlashcardService(repo *repository.FlashcardRepository, logger logging.Logger) *FlashcardService {
	return &FlashcardService{repo: repo, logger: logger}
}

func (s *FlashcardService) List(ctx context.Context, userID int64) ([]model.Flashcard, *apperrors.APIError) {
	decks, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, internalError(s.logger, "list flashcards", err)
	}
	return decks, nil
}

func (s *FlashcardService) Create(ctx context.Context, userID int64, input CreateFlashcardInput) (*model.Flashcard, *apperrors.APIError) {
	deck := model.Flashcard{
		UserID:   userID,
		DeckName: input.DeckName,
		Cards:    input.Cards,
	}
	if err := s.repo.Create(ctx, &deck); err != nil {
		return nil, internalError(s.logger, "create flashcard deck", err)
	}
	return &deck, nil
}

func (s *FlashcardService) Update(ctx context.Context, userID, id int64, input UpdateFlashcardInput) (*model.Flashcard, *apperrors.APIError) {
	deck, err := s.repo.Get(ctx, userID, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("flashcard_not_found", "flashcard deck not found")
	}
	if err != nil {
		return nil, internalError(s.logger, "get flashcard deck", err)
	}

	if input.DeckName != nil {
		deck.DeckName = *input.DeckName
	}
	if input.Cards != nil {
		deck.Cards = *input.Cards
	}

	if err := s.repo.Update(ctx, deck); err != nil {
		return nil, internalError(s.logger, "update flashcard deck", err)
	}
	return deck, nil
}

func (s *FlashcardService) Delete(ctx context.Context, userID, id int64) *apperrors.APIError {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return internalError(s.logger, "delete flashcard deck", err)
	}
	return nil
}
