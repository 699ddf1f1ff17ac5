// Package relocate implements the Relocate Me API client.
// This package handles communication with the external relocation data
// provider: property listings, cost analysis, and moving tips. The
// provider is a best-effort demo service, so every fetch is guarded by
// retries and a circuit breaker and degrades to a bundled static dataset.
package relocate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/relocate"
	"github.com/Darkprophet2323/thriveremote-hub/pkg/circuitbreaker"
	"github.com/Darkprophet2323/thriveremote-hub/pkg/logger"
	"github.com/Darkprophet2323/thriveremote-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Relocate Me client.
type ClientConfig struct {
	// BaseURL is the provider base URL.
	BaseURL string

	// Username is the demo account username.
	Username string

	// Password is the demo account password.
	Password string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Relocate Me API client. It implements relocate.Source.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	log        *logger.Logger
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient creates a new Relocate Me client.
func NewClient(config ClientConfig) *Client {
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		log:     log.With(logger.String("component", "relocate_client")),
		retrier: retry.ExternalAPIRetrier(),
		breaker: circuitbreaker.RelocateAPIBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	}
}

// FetchDataset fetches the current relocation dataset from the provider.
// Provider failures never surface to the caller: when the request fails
// after retries, or the breaker is open, the bundled static dataset is
// returned with Source set to "fallback".
func (c *Client) FetchDataset(ctx context.Context) (*relocate.Dataset, error) {
	var ds *relocate.Dataset

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			fetched, err := c.fetchOnce(ctx)
			if err != nil {
				return err
			}
			ds = fetched
			return nil
		})
	})
	if err != nil {
		c.log.Warn("provider fetch failed, serving fallback dataset", logger.Err(err))
		return FallbackDataset(), nil
	}

	if ds.IsEmpty() {
		c.log.Warn("provider returned empty dataset, serving fallback dataset")
		return FallbackDataset(), nil
	}

	ds.Source = "live"
	ds.FetchedAt = time.Now().UTC()
	return ds, nil
}

// fetchOnce performs a single fetch attempt.
func (c *Client) fetchOnce(ctx context.Context) (*relocate.Dataset, error) {
	fullURL := c.config.BaseURL + "/api/v1/relocation/data"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retry.Retryable(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to parsing
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, retry.Retryable(fmt.Errorf("provider status %d", resp.StatusCode))
	default:
		return nil, retry.Permanent(fmt.Errorf("provider status %d", resp.StatusCode))
	}

	var ds relocate.Dataset
	if err := json.Unmarshal(respBody, &ds); err != nil {
		return nil, retry.Permanent(fmt.Errorf("parse response: %w", err))
	}

	return &ds, nil
}

// IsHealthy checks if the provider is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 500
}
