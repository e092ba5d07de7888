package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studysync/backend/internal/service"
)

type EmailHandler struct {
	emailService *service.EmailService
}

func NewEmailHandler(emailService *service.EmailService) *EmailHandler {
	return &EmailHandler{emailService: emailService}
}

func (h *EmailHandler) Templates(c *gin.Context) {
	c.JSON(http.StatusOK, h.emailService.List())
}

func (h *EmailHandler) Render(c *gin.Context) {
	var req service.RenderEmailInput
	if !bindOptionalJSON(c, &req) {
		return
	}

	rendered, apiErr := h.emailService.Render(c.Param("id"), req.Fields)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, rendered)
}

func (h *EmailHandler) Send(c *gin.Context) {
	var req service.SendEmailInput
	if !bindJSON(c, &req) {
		return
	}

	rendered, apiErr := h.emailService.Send(c.Request.Context(), c.Param("id"), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true, "email": rendered})
}
