package service

import (
	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/logging"
)

func internalError(logger logging.Logger, action string, err error) *apperrors.APIError {
	logger.Error(action, err)
	return apperrors.Internal("failed to " + action + ", please try again")
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
