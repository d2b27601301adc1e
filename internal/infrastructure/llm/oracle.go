// Package llm implements the text-generation oracle over an OpenAI-compatible
// chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"PodcastSummarizer/internal/config"
	"PodcastSummarizer/internal/ports"
)

// OracleClient implements ports.Oracle. Call deadlines come from the caller's
// context; the pipeline applies the configured summary/insight ceilings.
type OracleClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Oracle = (*OracleClient)(nil)

// NewOracleClient builds a client from configuration.
func NewOracleClient(cfg config.OracleConfig) *OracleClient {
	return &OracleClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete posts the prompt as a single user message and returns the first
// choice's content.
func (c *OracleClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("oracle client misconfigured")
	}

	body, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("oracle error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
