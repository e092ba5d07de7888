package service

import (
	"context"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
)

type NoteService struct {
	repo   *repository.NoteRepository
	logger logging.Logger
}

type CreateNoteInput struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

type UpdateNoteInput struct {
	Title   *string   `json:"title" binding:"omitempty,min=1"`
	Content *string   `json:"content" binding:"omitempty,min=1"`
	Tags    *[]string `json:"tags"`
}

func NewNoteService(repo *repository.NoteRepository, logger logging.Logger) *NoteService {
	return &NoteService{repo: repo, logger: logger}
}

func (s *NoteService) List(ctx context.Context, userID int64) ([]model.Note, *apperrors.APIError) {
	notes, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, internalError(s.logger, "list notes", err)
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, userID int64, input CreateNoteInput) (*model.Note, *apperrors.APIError) {
	note := model.Note{
		UserID:  userID,
		Title:   input.Title,
		Content: input.Content,
		Tags:    input.Tags,
	}
	if err := s.repo.Create(ctx, &note); err != nil {
		return nil, internalError(s.logger, "create note", err)
	}
	return &note, nil
}

func (s *NoteService) Update(ctx context.Context, userID, id int64, input UpdateNoteInput) (*model.Note, *apperrors.APIError) {
	note, err := s.repo.Get(ctx, userID, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("note_not_found", "note not found")
	}
	if err != nil {
		return nil, internalError(s.logger, "get note", err)
	}

	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	if input.Tags != nil {
		note.Tags = *input.Tags
	}

	if err := s.repo.Update(ctx, note); err != nil {
		return nil, internalError(s.logger, "update note", err)
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id int64) *apperrors.APIError {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return internalError(s.logger, "delete note", err)
	}
	return nil
}
