package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"studysync/backend/internal/ai"
	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/service"
)

type AIHandler struct {
	assistant *ai.Assistant
	files     *service.FileService
	maxBytes  int64
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type explainRequest struct {
	Concept string `json:"concept" binding:"required"`
	Subject string `json:"subject"`
}

type quizRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Count      int    `json:"count" binding:"omitempty,gte=0"`
}

type feedbackRequest struct {
	Work    string `json:"work" binding:"required"`
	Subject string `json:"subject"`
}

type sentimentRequest struct {
	Text string `json:"text" binding:"required"`
}

type generateImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func NewAIHandler(assistant *ai.Assistant, files *service.FileService, maxBytes int64) *AIHandler {
	return &AIHandler{assistant: assistant, files: files, maxBytes: maxBytes}
}

func (h *AIHandler) Chat(c *gin.Context) {
	var req chatRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": h.assistant.Chat(c.Request.Context(), req.Message)})
}

func (h *AIHandler) Explain(c *gin.Context) {
	var req explainRequest
	if !bindJSON(c, &req) {
		return
	}
	explanation := h.assistant.ExplainConcept(c.Request.Context(), req.Concept, req.Subject)
	c.JSON(http.StatusOK, gin.H{"explanation": explanation})
}

func (h *AIHandler) Quiz(c *gin.Context) {
	var req quizRequest
	if !bindJSON(c, &req) {
		return
	}
	quiz := h.assistant.GenerateQuiz(c.Request.Context(), req.Topic, req.Difficulty, req.Count)
	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

func (h *AIHandler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	feedback := h.assistant.ProvideFeedback(c.Request.Context(), req.Work, req.Subject)
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

func (h *AIHandler) Sentiment(c *gin.Context) {
	var req sentimentRequest
	if !bindJSON(c, &req) {
		return
	}

	sentiment, err := h.assistant.AnalyzeSentiment(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, aiUnavailable(err))
		return
	}
	c.JSON(http.StatusOK, sentiment)
}

func (h *AIHandler) AnalyzeImage(c *gin.Context) {
	media, apiErr := h.readMedia(c, "image")
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": h.assistant.AnalyzeImage(c.Request.Context(), *media)})
}

func (h *AIHandler) AnalyzeVideo(c *gin.Context) {
	media, apiErr := h.readMedia(c, "video")
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": h.assistant.AnalyzeVideo(c.Request.Context(), *media)})
}

// GenerateImage stores the generated picture under uploads and returns its
// descriptor.
func (h *AIHandler) GenerateImage(c *gin.Context) {
	var req generateImageRequest
	if !bindJSON(c, &req) {
		return
	}

	image, err := h.assistant.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		writeError(c, aiUnavailable(err))
		return
	}

	ext := mimetype.Lookup(image.MIMEType)
	extension := ".png"
	if ext != nil && ext.Extension() != "" {
		extension = ext.Extension()
	}

	file, apiErr := h.files.SaveGenerated(image.Data, "generated", extension)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *AIHandler) readMedia(c *gin.Context, field string) (*ai.Media, *apperrors.APIError) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, apperrors.BadRequest("missing_file", "no "+field+" uploaded")
	}
	if header.Size > h.maxBytes {
		return nil, apperrors.BadRequest("file_too_large", field+" is too large")
	}

	src, err := header.Open()
	if err != nil {
		return nil, apperrors.BadRequest("invalid_file", "could not read the uploaded "+field)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxBytes))
	if err != nil {
		return nil, apperrors.BadRequest("invalid_file", "could not read the uploaded "+field)
	}
	return &ai.Media{MIMEType: mimetype.Detect(data).String(), Data: data}, nil
}

func aiUnavailable(err error) *apperrors.APIError {
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		return apperrors.Unavailable("ai_unavailable", "the ai assistant is not configured")
	case errors.Is(err, ai.ErrUnsupported):
		return apperrors.Unavailable("ai_unavailable", "the configured ai provider does not support this request")
	}
	return apperrors.Unavailable("ai_unavailable", "")
}
