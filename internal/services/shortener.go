package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mccwk.com/shortener/internal/landing"
)

// RemoteError is a failure reported by the create endpoint in its body.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

// Shortener talks to the create-short-URL endpoint.
type Shortener struct {
	client   *http.Client
	endpoint string
}

func NewShortener(baseURL, createPath string) *Shortener {
	return &Shortener{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint: joinURL(baseURL, createPath),
	}
}

// Create posts the draft and returns the success payload verbatim. A body with
// status "error" becomes a *RemoteError carrying its message.
func (s *Shortener) Create(ctx context.Context, draft landing.DraftLink) (landing.Result, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach shortener: %w", err)
	}
	defer resp.Body.Close()

	var payload landing.Result
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid response from shortener (status %d): %w", resp.StatusCode, err)
	}

	if status, _ := payload["status"].(string); status == "error" {
		return nil, &RemoteError{Message: messageText(payload["message"])}
	}

	return payload, nil
}

func messageText(v any) string {
	switch m := v.(type) {
	case nil:
		return "unknown error"
	case string:
		return m
	case map[string]any:
		if inner, ok := m["message"]; ok {
			return messageText(inner)
		}
	}
	return fmt.Sprint(v)
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
