package ai

import (
	"context"
	"fmt"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"
)

// DeepSeekProvider serves text requests only.
type DeepSeekProvider struct {
	client deepseek.Client
	model  string
}

func NewDeepSeekProvider(apiKey, model string) (*DeepSeekProvider, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := deepseek.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create deepseek client: %w", err)
	}
	return &DeepSeekProvider{client: client, model: model}, nil
}

func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

func (p *DeepSeekProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(req.Media) > 0 || req.WantImage {
		return nil, ErrUnsupported
	}

	system := req.System
	if req.JSON {
		system += "\nRespond with a single JSON object and nothing else."
	}

	messages := make([]*request.Message, 0, 2)
	if system != "" {
		messages = append(messages, &request.Message{Role: "system", Content: system})
	}
	messages = append(messages, &request.Message{Role: "user", Content: req.Prompt})

	resp, err := p.client.CallChatCompletionsChat(ctx, &request.ChatCompletionsRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("deepseek chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return &Response{Text: resp.Choices[0].Message.Content}, nil
}
