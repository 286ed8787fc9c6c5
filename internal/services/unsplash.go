package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mccwk.com/shortener/internal/landing"
)

// ProviderError is a structured failure from the random-photo endpoint.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

// IsUnauthorized reports whether err is a provider 401.
func IsUnauthorized(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Status == http.StatusUnauthorized
}

type photoEnvelope struct {
	Status   int             `json:"status"`
	Errors   []string        `json:"errors"`
	Message  json.RawMessage `json:"message"`
	Response *struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"user"`
	} `json:"response"`
}

// Unsplash fetches a random background photo through the app's proxy route.
type Unsplash struct {
	client   *http.Client
	endpoint string
}

func NewUnsplash(baseURL, photoPath string) *Unsplash {
	return &Unsplash{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		endpoint: joinURL(baseURL, photoPath),
	}
}

// RandomPhoto returns the photo URL and author, or a *ProviderError for the
// 401 and 500 envelopes.
func (u *Unsplash) RandomPhoto(ctx context.Context) (landing.Photo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.endpoint, nil)
	if err != nil {
		return landing.Photo{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return landing.Photo{}, fmt.Errorf("failed to reach photo provider: %w", err)
	}
	defer resp.Body.Close()

	var env photoEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return landing.Photo{}, &ProviderError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return landing.Photo{}, fmt.Errorf("invalid response from photo provider: %w", err)
	}

	switch env.Status {
	case http.StatusUnauthorized:
		msg := "unauthorized"
		if len(env.Errors) > 0 {
			msg = env.Errors[0]
		}
		return landing.Photo{}, &ProviderError{Status: env.Status, Message: msg}
	case http.StatusInternalServerError:
		return landing.Photo{}, &ProviderError{Status: env.Status, Message: nestedMessage(env.Message)}
	}

	if env.Response == nil || env.Response.URLs.Regular == "" {
		if resp.StatusCode >= 400 {
			return landing.Photo{}, &ProviderError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return landing.Photo{}, errors.New("photo provider returned no photo")
	}

	return landing.Photo{
		URL: env.Response.URLs.Regular,
		Author: landing.Author{
			Name:     env.Response.User.Name,
			Username: env.Response.User.Username,
		},
	}, nil
}

// nestedMessage reads message.message, tolerating a plain string.
func nestedMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "internal server error"
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}
	return string(raw)
}
