package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studysync/backend/internal/calendar"
	"studysync/backend/internal/middleware"
	"studysync/backend/internal/service"
)

type CalendarHandler struct {
	scheduleService *service.ScheduleService
}

func NewCalendarHandler(scheduleService *service.ScheduleService) *CalendarHandler {
	return &CalendarHandler{scheduleService: scheduleService}
}

// Events lists upcoming schedules as calendar events.
func (h *CalendarHandler) Events(c *gin.Context) {
	schedules, apiErr := h.scheduleService.Upcoming(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, calendar.Events(schedules))
}

func (h *CalendarHandler) ExportICS(c *gin.Context) {
	schedules, apiErr := h.scheduleService.List(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="studysync.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.ExportICS(schedules, time.Now())))
}
