package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxPageBytes bounds how much of a destination page is read for a preview.
const maxPageBytes = 1 << 20

type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (f *Fetcher) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "identity")
	return req, nil
}

// FetchPage retrieves the head of a destination page. A 202 is retried once.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		req, err := f.newRequest(ctx, url)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return "", fmt.Errorf("failed to fetch URL: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 && resp.StatusCode != http.StatusAccepted {
			body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
			resp.Body.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read response body: %w", err)
			}
			return string(body), nil
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusAccepted && attempt == 0 {
			t := time.NewTimer(750 * time.Millisecond)
			select {
			case <-ctx.Done():
				t.Stop()
				return "", fmt.Errorf("fetch canceled: %w", ctx.Err())
			case <-t.C:
			}
			continue
		}

		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return "", fmt.Errorf("failed to fetch URL after retries")
}
