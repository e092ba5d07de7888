package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/qr"
	"studysync/backend/internal/service"
)

type ToolsHandler struct {
	files *service.FileService
}

func NewToolsHandler(files *service.FileService) *ToolsHandler {
	return &ToolsHandler{files: files}
}

func (h *ToolsHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, apperrors.BadRequest("missing_file", "no file uploaded"))
		return
	}

	file, apiErr := h.files.Upload(header)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *ToolsHandler) Convert(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		writeError(c, apperrors.BadRequest("missing_file", "no file uploaded"))
		return
	}
	format := c.PostForm("outputFormat")
	if format == "" {
		writeError(c, apperrors.Validation(map[string]string{"outputFormat": "outputFormat is required"}))
		return
	}

	converted, apiErr := h.files.Convert(header, format)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, converted)
}

func (h *ToolsHandler) Scan(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		writeError(c, apperrors.BadRequest("missing_file", "no image uploaded"))
		return
	}

	scanned, apiErr := h.files.Scan(c.Request.Context(), header)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, scanned)
}

func (h *ToolsHandler) GenerateQR(c *gin.Context) {
	var req qr.Payload
	if !bindJSON(c, &req) {
		return
	}

	code, apiErr := h.files.QRCode(req)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, code)
}

func (h *ToolsHandler) Files(c *gin.Context) {
	files, apiErr := h.files.List()
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, files)
}

func (h *ToolsHandler) Download(c *gin.Context) {
	name := c.Param("filename")
	path, apiErr := h.files.Resolve(name)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.FileAttachment(path, name)
}
