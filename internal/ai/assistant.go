package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"studysync/backend/internal/logging"
)

const (
	DefaultQuizCount = 5
	MaxQuizCount     = 20
)

type Sentiment struct {
	Rating     float64 `json:"rating"`
	Confidence float64 `json:"confidence"`
}

// Assistant wraps a Provider with the study prompts. Text helpers never
// fail: provider errors and empty answers turn into a fixed reply.
type Assistant struct {
	provider Provider
	logger   logging.Logger
	timeout  time.Duration
}

func NewAssistant(provider Provider, logger logging.Logger, timeout time.Duration) *Assistant {
	if provider == nil {
		provider = NewNopProvider()
	}
	return &Assistant{provider: provider, logger: logger, timeout: timeout}
}

func (a *Assistant) ProviderName() string {
	return a.provider.Name()
}

func (a *Assistant) Chat(ctx context.Context, message string) string {
	return a.text(ctx, "chat", Request{Prompt: chatPrompt(message)}, chatFallback, chatFailure)
}

func (a *Assistant) ExplainConcept(ctx context.Context, concept, subject string) string {
	return a.text(ctx, "explain concept", Request{Prompt: explainPrompt(concept, subject)}, explainFallback, explainFailure)
}

// GenerateQuiz clamps count into [1, MaxQuizCount]; zero selects
// DefaultQuizCount.
func (a *Assistant) GenerateQuiz(ctx context.Context, topic, difficulty string, count int) string {
	switch {
	case count <= 0:
		count = DefaultQuizCount
	case count > MaxQuizCount:
		count = MaxQuizCount
	}
	if difficulty == "" {
		difficulty = "medium"
	}
	return a.text(ctx, "generate quiz", Request{Prompt: quizPrompt(topic, difficulty, count)}, quizFallback, quizFailure)
}

func (a *Assistant) ProvideFeedback(ctx context.Context, work, subject string) string {
	return a.text(ctx, "provide feedback", Request{Prompt: feedbackPrompt(work, subject)}, feedbackFallback, feedbackFailure)
}

func (a *Assistant) AnalyzeImage(ctx context.Context, image Media) string {
	req := Request{Prompt: imageAnalysisPrompt, Media: []Media{image}}
	return a.text(ctx, "analyze image", req, imageAnalysisFailure, imageAnalysisFailure)
}

func (a *Assistant) AnalyzeVideo(ctx context.Context, video Media) string {
	req := Request{Prompt: videoAnalysisPrompt, Media: []Media{video}}
	return a.text(ctx, "analyze video", req, videoAnalysisFailure, videoAnalysisFailure)
}

// AnalyzeSentiment rates text from 1 to 5 stars.
func (a *Assistant) AnalyzeSentiment(ctx context.Context, text string) (*Sentiment, error) {
	resp, err := a.generate(ctx, Request{System: sentimentSystem, Prompt: text, JSON: true})
	if err != nil {
		a.logger.Error("analyze sentiment", err)
		return nil, err
	}

	var sentiment Sentiment
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Text)), &sentiment); err != nil {
		a.logger.Error("decode sentiment", err)
		return nil, fmt.Errorf("decode sentiment: %w", err)
	}
	if sentiment.Rating < 1 || sentiment.Rating > 5 || sentiment.Confidence < 0 || sentiment.Confidence > 1 {
		return nil, fmt.Errorf("sentiment out of range: rating %v confidence %v", sentiment.Rating, sentiment.Confidence)
	}
	return &sentiment, nil
}

// GenerateImage returns the first image the provider produced.
func (a *Assistant) GenerateImage(ctx context.Context, prompt string) (*Media, error) {
	resp, err := a.generate(ctx, Request{Prompt: prompt, WantImage: true})
	if err != nil {
		a.logger.Error("generate image", err)
		return nil, err
	}
	if len(resp.Images) == 0 {
		return nil, ErrEmptyResponse
	}
	return &resp.Images[0], nil
}

func (a *Assistant) text(ctx context.Context, action string, req Request, empty, failure string) string {
	resp, err := a.generate(ctx, req)
	if err != nil {
		a.logger.Error(action, err)
		return failure
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return empty
	}
	return text
}

func (a *Assistant) generate(ctx context.Context, req Request) (*Response, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}

// stripCodeFence removes a ```json fence some models wrap JSON replies in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
