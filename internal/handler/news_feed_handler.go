package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studysync/backend/internal/middleware"
	"studysync/backend/internal/service"
)

type NewsFeedHandler struct {
	feedService *service.NewsFeedService
}

func NewNewsFeedHandler(feedService *service.NewsFeedService) *NewsFeedHandler {
	return &NewsFeedHandler{feedService: feedService}
}

func (h *NewsFeedHandler) List(c *gin.Context) {
	posts, apiErr := h.feedService.List(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *NewsFeedHandler) Create(c *gin.Context) {
	var req service.CreateNewsFeedInput
	if !bindJSON(c, &req) {
		return
	}

	post, apiErr := h.feedService.Create(c.Request.Context(), middleware.UserID(c), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *NewsFeedHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.UpdateNewsFeedInput
	if !bindJSON(c, &req) {
		return
	}

	post, apiErr := h.feedService.Update(c.Request.Context(), middleware.UserID(c), id, req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *NewsFeedHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if apiErr := h.feedService.Delete(c.Request.Context(), middleware.UserID(c), id); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	writeDeleted(c)
}

func (h *NewsFeedHandler) Like(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, apiErr := h.feedService.Like(c.Request.Context(), id)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *NewsFeedHandler) Import(c *gin.Context) {
	var req service.ImportFeedInput
	if !bindJSON(c, &req) {
		return
	}

	posts, apiErr := h.feedService.Import(c.Request.Context(), middleware.UserID(c), req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imported": len(posts), "posts": posts})
}
