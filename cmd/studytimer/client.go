package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type sessionRequest struct {
	Duration int    `json:"duration"`
	Subject  string `json:"subject,omitempty"`
	Type     string `json:"type"`
}

// sessionClient records finished countdowns through the REST API.
type sessionClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func newSessionClient(baseURL, token string) *sessionClient {
	return &sessionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *sessionClient) Record(ctx context.Context, session sessionRequest) error {
	body, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/study-sessions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("post session: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
