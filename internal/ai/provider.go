// Package ai talks to generative-AI providers and turns their answers into
// the study helpers exposed by the API.
package ai

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when no provider API key is set.
	ErrNotConfigured = errors.New("ai provider not configured")
	// ErrUnsupported is returned for requests a provider cannot serve, such
	// as media input on a text-only model.
	ErrUnsupported = errors.New("request not supported by ai provider")
	// ErrEmptyResponse is returned when the provider answered with nothing
	// usable.
	ErrEmptyResponse = errors.New("empty response from ai provider")
)

// Media is inline binary input such as an image or a video.
type Media struct {
	MIMEType string
	Data     []byte
}

type Request struct {
	System string
	Prompt string
	Media  []Media
	// JSON asks the provider to reply with a JSON document.
	JSON bool
	// WantImage asks the provider to generate images.
	WantImage bool
}

type Response struct {
	Text   string
	Images []Media
}

type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Name() string
}

type nopProvider struct{}

// NewNopProvider returns a provider that fails every request with
// ErrNotConfigured.
func NewNopProvider() Provider {
	return nopProvider{}
}

func (nopProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, ErrNotConfigured
}

func (nopProvider) Name() string {
	return "none"
}
