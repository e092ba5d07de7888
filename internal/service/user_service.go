package service

import (
	"context"
	"strings"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
)

type UserService struct {
	repo   *repository.UserRepository
	logger logging.Logger
}

type CreateUserInput struct {
	Username     string  `json:"username" binding:"required,min=3,max=50"`
	Email        string  `json:"email" binding:"required,email"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	ProfileImage *string `json:"profileImage" binding:"omitempty,url"`
}

func NewUserService(repo *repository.UserRepository, logger logging.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, *apperrors.APIError) {
	user := model.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		ProfileImage: input.ProfileImage,
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return nil, internalError(s.logger, "check user", err)
	}
	if exists {
		return nil, apperrors.Conflict("user_exists", "username or email already registered", nil)
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		return nil, internalError(s.logger, "create user", err)
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, *apperrors.APIError) {
	user, err := s.repo.GetByID(ctx, id)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("user_not_found", "user not found")
	}
	if err != nil {
		return nil, internalError(s.logger, "get user", err)
	}
	return user, nil
}
