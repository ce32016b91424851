package program

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/consensys/gnark/logger"
	"github.com/sethvargo/go-retry"

	"github.com/vocdoni/cairo2chainstate/cairo"
)

// DefaultURL is where the compiled aggregation program is published.
const DefaultURL = "https://zerosync.org/demo/increment_batch_compiled.json"

// FetchConfig controls how the program artifact is downloaded.
type FetchConfig struct {
	URL        string
	Timeout    time.Duration
	Retries    uint64
	RetryDelay time.Duration
}

// DefaultFetchConfig returns the settings used by the fetch-program command.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		URL:        DefaultURL,
		Timeout:    500 * time.Second,
		Retries:    1,
		RetryDelay: 100 * time.Millisecond,
	}
}

// Fetch downloads the compiled program, checks that it is a valid Cairo
// program and writes it compacted to dest, ready to be embedded.
func Fetch(ctx context.Context, cfg FetchConfig, dest string) error {
	log := logger.Logger().With().Str("component", "program").Logger()

	backoff := retry.WithMaxRetries(cfg.Retries, retry.NewConstant(cfg.RetryDelay))

	client := &http.Client{Timeout: cfg.Timeout}
	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, err := download(ctx, client, cfg.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", cfg.URL).Msg("program download failed")
			return retry.RetryableError(err)
		}
		body = b
		return nil
	})
	if err != nil {
		return fmt.Errorf("downloading program: %w", err)
	}

	if _, err := cairo.UnmarshalCompiledProgramJSON(body); err != nil {
		return err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return fmt.Errorf("compacting program: %w", err)
	}
	if err := os.WriteFile(dest, compact.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing program: %w", err)
	}
	log.Info().Str("dest", dest).Int("bytes", compact.Len()).Msg("program artifact written")
	return nil
}

func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
