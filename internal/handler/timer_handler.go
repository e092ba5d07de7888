package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/middleware"
	"studysync/backend/internal/service"
)

type TimerHandler struct {
	timerService *service.TimerService
}

type versionRequest struct {
	BaseVersion int `json:"baseVersion"`
}

type switchModeRequest struct {
	BaseVersion int    `json:"baseVersion"`
	Mode        string `json:"mode" binding:"required"`
}

type subjectRequest struct {
	BaseVersion int    `json:"baseVersion"`
	Subject     string `json:"subject"`
}

func NewTimerHandler(timerService *service.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

func (h *TimerHandler) Get(c *gin.Context) {
	view, apiErr := h.timerService.Get(c.Request.Context(), middleware.UserID(c))
	writeTimer(c, view, apiErr)
}

func (h *TimerHandler) Start(c *gin.Context) {
	var req versionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	view, apiErr := h.timerService.Start(c.Request.Context(), middleware.UserID(c), req.BaseVersion)
	writeTimer(c, view, apiErr)
}

func (h *TimerHandler) Pause(c *gin.Context) {
	var req versionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	view, apiErr := h.timerService.Pause(c.Request.Context(), middleware.UserID(c), req.BaseVersion)
	writeTimer(c, view, apiErr)
}

func (h *TimerHandler) Reset(c *gin.Context) {
	var req versionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	view, apiErr := h.timerService.Reset(c.Request.Context(), middleware.UserID(c), req.BaseVersion)
	writeTimer(c, view, apiErr)
}

func (h *TimerHandler) SwitchMode(c *gin.Context) {
	var req switchModeRequest
	if !bindJSON(c, &req) {
		return
	}
	view, apiErr := h.timerService.SwitchMode(c.Request.Context(), middleware.UserID(c), req.BaseVersion, req.Mode)
	writeTimer(c, view, apiErr)
}

func (h *TimerHandler) SetSubject(c *gin.Context) {
	var req subjectRequest
	if !bindJSON(c, &req) {
		return
	}
	view, apiErr := h.timerService.SetSubject(c.Request.Context(), middleware.UserID(c), req.BaseVersion, req.Subject)
	writeTimer(c, view, apiErr)
}

func (h *TimerHandler) UpdateSettings(c *gin.Context) {
	var req service.UpdateTimerSettingsInput
	if !bindJSON(c, &req) {
		return
	}
	view, apiErr := h.timerService.UpdateSettings(c.Request.Context(), middleware.UserID(c), req)
	writeTimer(c, view, apiErr)
}

func writeTimer(c *gin.Context, view *service.TimerView, apiErr *apperrors.APIError) {
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": view})
}
