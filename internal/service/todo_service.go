package service

import (
	"context"
	"time"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
)

type TodoService struct {
	repo   *repository.TodoRepository
	logger logging.Logger
}

type CreateTodoInput struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority" binding:"omitempty,priority"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTodoInput struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority" binding:"omitempty,priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func NewTodoService(repo *repository.TodoRepository, logger logging.Logger) *TodoService {
	return &TodoService{repo: repo, logger: logger}
}

func (s *TodoService) List(ctx context.Context, userID int64, filter repository.TodoFilter) ([]model.Todo, *apperrors.APIError) {
	todos, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, internalError(s.logger, "list todos", err)
	}
	return todos, nil
}

func (s *TodoService) Create(ctx context.Context, userID int64, input CreateTodoInput) (*model.Todo, *apperrors.APIError) {
	todo := model.Todo{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	if todo.Priority == "" {
		todo.Priority = model.PriorityMedium
	}
	if err := s.repo.Create(ctx, &todo); err != nil {
		return nil, internalError(s.logger, "create todo", err)
	}
	return &todo, nil
}

func (s *TodoService) Update(ctx context.Context, userID, id int64, input UpdateTodoInput) (*model.Todo, *apperrors.APIError) {
	todo, err := s.repo.Get(ctx, userID, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("todo_not_found", "todo not found")
	}
	if err != nil {
		return nil, internalError(s.logger, "get todo", err)
	}

	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = input.Description
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}
	if input.Priority != nil {
		todo.Priority = *input.Priority
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, internalError(s.logger, "update todo", err)
	}
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) *apperrors.APIError {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return internalError(s.logger, "delete todo", err)
	}
	return nil
}
