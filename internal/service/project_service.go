package service

import (
	"context"
	"encoding/json"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
)

type ProjectService struct {
	repo   *repository.ProjectRepository
	logger logging.Logger
}

type CreateProjectInput struct {
	Title       string          `json:"title" binding:"required"`
	Description *string         `json:"description"`
	Type        string          `json:"type" binding:"required,project_type"`
	Status      string          `json:"status" binding:"omitempty,project_status"`
	Data        json.RawMessage `json:"data" binding:"required"`
}

type UpdateProjectInput struct {
	Title       *string          `json:"title" binding:"omitempty,min=1"`
	Description *string          `json:"description"`
	Type        *string          `json:"type" binding:"omitempty,project_type"`
	Status      *string          `json:"status" binding:"omitempty,project_status"`
	Data        *json.RawMessage `json:"data"`
}

func NewProjectService(repo *repository.ProjectRepository, logger logging.Logger) *ProjectService {
	return &ProjectService{repo: repo, logger: logger}
}

func (s *ProjectService) List(ctx context.Context, userID int64, projectType string) ([]model.Project, *apperrors.APIError) {
	projects, err := s.repo.List(ctx, userID, projectType)
	if err != nil {
		return nil, internalError(s.logger, "list projects", err)
	}
	return projects, nil
}

func (s *ProjectService) Create(ctx context.Context, userID int64, input CreateProjectInput) (*model.Project, *apperrors.APIError) {
	if !json.Valid(input.Data) || string(input.Data) == "null" {
		return nil, apperrors.Validation(map[string]string{"data": "data is required"})
	}
	project := model.Project{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      input.Status,
		Data:        input.Data,
	}
	if project.Status == "" {
		project.Status = model.ProjectInProgress
	}
	if err := s.repo.Create(ctx, &project); err != nil {
		return nil, internalError(s.logger, "create project", err)
	}
	return &project, nil
}

func (s *ProjectService) Update(ctx context.Context, userID, id int64, input UpdateProjectInput) (*model.Project, *apperrors.APIError) {
	project, err := s.repo.Get(ctx, userID, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("project_not_found", "project not found")
	}
	if err != nil {
		return nil, internalError(s.logger, "get project", err)
	}

	if input.Title != nil {
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.Type != nil {
		project.Type = *input.Type
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.Data != nil && len(*input.Data) > 0 && string(*input.Data) != "null" {
		project.Data = *input.Data
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, internalError(s.logger, "update project", err)
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, userID, id int64) *apperrors.APIError {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return internalError(s.logger, "delete project", err)
	}
	return nil
}
