package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studysync/backend/internal/middleware"
	"studysync/backend/internal/service"
)

type StudySessionHandler struct {
	sessionService *service.StudySessionService
}

func NewStudySessionHandler(sessionService *service.StudySessionService) *StudySessionHandler {
	return &StudySessionHandler{sessionService: sessionService}
}

func (h *StudySessionHandler) List(c *gin.Context) {
	sessions, apiErr := h.sessionService.List(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *StudySessionHandler) Create(c *gin.Context) {
	var req service.CreateStudySessionInput
	if !bindJSON(c, &req) {
		return
	}

	session, apiErr := h.sessionService.Create(c.Request.Context(), middleware.UserID(c), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *StudySessionHandler) Stats(c *gin.Context) {
	stats, apiErr := h.sessionService.Stats(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, stats)
}
