package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studysync/backend/internal/middleware"
	"studysync/backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}

	user, apiErr := h.userService.Create(c.Request.Context(), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me returns the acting user.
func (h *UserHandler) Me(c *gin.Context) {
	user, apiErr := h.userService.Get(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, user)
}
