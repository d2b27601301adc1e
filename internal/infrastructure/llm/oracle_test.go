package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"PodcastSummarizer/internal/config"
)

func TestCompleteRoundTrip(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("missing bearer token, got %q", got)
		}

		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "the prompt") {
			t.Errorf("unexpected request: %+v", req)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  the completion \n"}},
			},
		})
	}))
	defer server.Close()

	client := NewOracleClient(config.OracleConfig{
		Endpoint: server.URL,
		Model:    "test-model",
		APIKey:   "key",
	})

	got, err := client.Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "the completion" {
		t.Fatalf("unexpected completion: %q", got)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOracleClient(config.OracleConfig{Endpoint: server.URL, Model: "m", APIKey: "k"})
	if _, err := client.Complete(context.Background(), "p"); err == nil {
		t.Fatalf("expected error on HTTP 429")
	}
}

func TestCompleteMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewOracleClient(config.OracleConfig{})
	if _, err := client.Complete(context.Background(), "p"); err == nil {
		t.Fatalf("expected misconfiguration error")
	}
}
