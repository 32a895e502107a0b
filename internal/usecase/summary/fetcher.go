package summary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// maxTranscriptBytes caps how much transcript we pull into memory
const maxTranscriptBytes = 32 * 1024 * 1024

// TranscriptFetcher downloads transcript documents from the provider's CDN.
// Transient failures are retried with exponential backoff; 4xx responses are
// permanent.
type TranscriptFetcher struct {
	client *http.Client
}

// NewTranscriptFetcher creates a transcript fetcher
func NewTranscriptFetcher() *TranscriptFetcher {
	return &TranscriptFetcher{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Fetch downloads the document at url
func (f *TranscriptFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("transcript url is empty")
	}

	var body []byte
	fetchFn := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("transcript fetch returned status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("transcript fetch returned status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxTranscriptBytes))
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(fetchFn, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}
