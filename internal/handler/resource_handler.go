package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/middleware"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
	"studysync/backend/internal/service"
)

type resourceService[T, C, U any] interface {
	Create(ctx context.Context, userID int64, input C) (*T, *apperrors.APIError)
	Update(ctx context.Context, userID, id int64, input U) (*T, *apperrors.APIError)
	Delete(ctx context.Context, userID, id int64) *apperrors.APIError
}

// ListFunc lists a resource for the current user, reading any filters from
// the query string.
type ListFunc[T any] func(c *gin.Context, userID int64) ([]T, *apperrors.APIError)

// ResourceHandler serves list, create, update and delete for one
// user-owned resource.
type ResourceHandler[T, C, U any] struct {
	service resourceService[T, C, U]
	list    ListFunc[T]
}

func NewResourceHandler[T, C, U any](svc resourceService[T, C, U], list ListFunc[T]) *ResourceHandler[T, C, U] {
	return &ResourceHandler[T, C, U]{service: svc, list: list}
}

func (h *ResourceHandler[T, C, U]) List(c *gin.Context) {
	items, apiErr := h.list(c, middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ResourceHandler[T, C, U]) Create(c *gin.Context) {
	var input C
	if !bindJSON(c, &input) {
		return
	}

	item, apiErr := h.service.Create(c.Request.Context(), middleware.UserID(c), input)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ResourceHandler[T, C, U]) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var input U
	if !bindJSON(c, &input) {
		return
	}

	item, apiErr := h.service.Update(c.Request.Context(), middleware.UserID(c), id, input)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[T, C, U]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if apiErr := h.service.Delete(c.Request.Context(), middleware.UserID(c), id); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeDeleted(c)
}

func (h *ResourceHandler[T, C, U]) Register(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

type (
	NoteHandler      = ResourceHandler[model.Note, service.CreateNoteInput, service.UpdateNoteInput]
	FlashcardHandler = ResourceHandler[model.Flashcard, service.CreateFlashcardInput, service.UpdateFlashcardInput]
	TodoHandler      = ResourceHandler[model.Todo, service.CreateTodoInput, service.UpdateTodoInput]
	ProjectHandler   = ResourceHandler[model.Project, service.CreateProjectInput, service.UpdateProjectInput]
	ScheduleHandler  = ResourceHandler[model.Schedule, service.CreateScheduleInput, service.UpdateScheduleInput]
)

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return NewResourceHandler[model.Note, service.CreateNoteInput, service.UpdateNoteInput](notes,
		func(c *gin.Context, userID int64) ([]model.Note, *apperrors.APIError) {
			return notes.List(c.Request.Context(), userID)
		})
}

func NewFlashcardHandler(decks *service.FlashcardService) *FlashcardHandler {
	return NewResourceHandler[model.Flashcard, service.CreateFlashcardInput, service.UpdateFlashcardInput](decks,
		func(c *gin.Context, userID int64) ([]model.Flashcard, *apperrors.APIError) {
			return decks.List(c.Request.Context(), userID)
		})
}

// NewTodoHandler lists with the optional ?completed= and ?priority= filters.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return NewResourceHandler[model.Todo, service.CreateTodoInput, service.UpdateTodoInput](todos,
		func(c *gin.Context, userID int64) ([]model.Todo, *apperrors.APIError) {
			var filter repository.TodoFilter
			if raw := c.Query("completed"); raw != "" {
				completed, err := strconv.ParseBool(raw)
				if err != nil {
					return nil, apperrors.BadRequest("invalid_filter", "completed must be true or false")
				}
				filter.Completed = &completed
			}
			if priority := c.Query("priority"); priority != "" {
				if !model.IsValidPriority(priority) {
					return nil, apperrors.BadRequest("invalid_filter", "priority must be one of low, medium, high")
				}
				filter.Priority = priority
			}
			return todos.List(c.Request.Context(), userID, filter)
		})
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return NewResourceHandler[model.Project, service.CreateProjectInput, service.UpdateProjectInput](projects,
		func(c *gin.Context, userID int64) ([]model.Project, *apperrors.APIError) {
			return projects.List(c.Request.Context(), userID, c.Query("type"))
		})
}

func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return NewResourceHandler[model.Schedule, service.CreateScheduleInput, service.UpdateScheduleInput](schedules,
		func(c *gin.Context, userID int64) ([]model.Schedule, *apperrors.APIError) {
			return schedules.List(c.Request.Context(), userID)
		})
}
