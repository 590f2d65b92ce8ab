package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries = 5

	BaseRetryDelay = 250 * time.Millisecond
	MaxRetryDelay  = 4 * time.Second

	DefaultBurstSize = 5
)

// Client wraps an http.Client with rate limiting and capped exponential
// backoff for transient failures. Network errors, 429 and 5xx responses are
// retried; anything else surfaces immediately.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Entry
}

func NewClient(timeout time.Duration, requestsPerSecond float64, logger *logrus.Entry) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), DefaultBurstSize),
		logger:     logger,
	}
}

// GetJSON fetches url and decodes the JSON response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warnf("Retry attempt %d/%d for %s", attempt, MaxRetries, url)
			if err := c.sleep(ctx, retryDelay(attempt)); err != nil {
				return err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read body: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to unmarshal: %w", err)
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryDelay doubles per attempt starting from BaseRetryDelay, capped at
// MaxRetryDelay.
func retryDelay(attempt int) time.Duration {
	delay := BaseRetryDelay << attempt
	if delay > MaxRetryDelay {
		delay = MaxRetryDelay
	}
	return delay
}
