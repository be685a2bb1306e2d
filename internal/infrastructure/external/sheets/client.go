// Package sheets implements the Google Sheets source of the profile tables.
// The three worksheets (students, mentors, game synonyms) are fetched through
// the public values API with an API key and mapped into domain profiles.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sozow-hub/mentor-match/internal/domain/shared"
	"github.com/sozow-hub/mentor-match/pkg/circuitbreaker"
	"github.com/sozow-hub/mentor-match/pkg/retry"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Sheets API client.
type ClientConfig struct {
	// BaseURL is the Sheets API endpoint, normally
	// https://sheets.googleapis.com.
	BaseURL string

	// SpreadsheetID is the document holding the three worksheets.
	SpreadsheetID string

	// APIKey authenticates read access to the shared spreadsheet.
	APIKey string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// RequestsPerSecond throttles calls to stay inside the per-key quota.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(spreadsheetID, apiKey string) ClientConfig {
	return ClientConfig{
		BaseURL:           "https://sheets.googleapis.com",
		SpreadsheetID:     spreadsheetID,
		APIKey:            apiKey,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 1,
		Burst:             3,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client fetches worksheet values with rate limiting, retries, and a circuit
// breaker around the HTTP calls.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	retrier    *retry.Retrier
}

// NewClient creates a new Sheets API client.
func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
		retrier:    retry.SheetsAPIRetrier(),
	}
	c.breaker = circuitbreaker.SheetsAPIBreaker(func(name string, from, to circuitbreaker.State) {
		logger.Warn("circuit state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
	})
	return c
}

// Values fetches one worksheet range as rows of cells.
func (c *Client) Values(ctx context.Context, sheetRange string) ([][]string, error) {
	var vr ValueRange

	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Permanent(err)
			}

			start := time.Now()
			err := c.fetchRange(ctx, sheetRange, &vr)
			c.logger.Debug("sheets values fetched",
				zap.String("range", sheetRange),
				zap.Duration("latency", time.Since(start)),
				zap.Error(err))
			return err
		})
	})
	if err != nil {
		return nil, fmt.Errorf("fetch range %s: %w", sheetRange, err)
	}

	return vr.Values, nil
}

// fetchRange performs one values.get call.
func (c *Client) fetchRange(ctx context.Context, sheetRange string, out *ValueRange) error {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?majorDimension=ROWS&key=%s",
		c.config.BaseURL,
		url.PathEscape(c.config.SpreadsheetID),
		url.PathEscape(sheetRange),
		url.QueryEscape(c.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return retry.Retryable(fmt.Errorf("%w: %v", shared.ErrSheetsTimeout, err))
		}
		return retry.Retryable(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			return retry.Permanent(fmt.Errorf("%w: %v", shared.ErrSheetsInvalidResponse, err))
		}
		return nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return retry.Retryable(fmt.Errorf("%w: %v", shared.ErrSheetsRateLimited, statusError(resp.StatusCode, body)))

	case resp.StatusCode >= 500:
		return retry.Retryable(fmt.Errorf("%w: %v", shared.ErrSheetsUnavailable, statusError(resp.StatusCode, body)))

	default:
		return retry.Permanent(statusError(resp.StatusCode, body))
	}
}

func statusError(code int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrorBody.Message != "" {
		return &apiErr
	}
	return fmt.Errorf("sheets api: status %d", code)
}

// IsHealthy checks whether the spreadsheet metadata is reachable.
func (c *Client) IsHealthy(ctx context.Context) bool {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s?fields=spreadsheetId&key=%s",
		c.config.BaseURL,
		url.PathEscape(c.config.SpreadsheetID),
		url.QueryEscape(c.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// BreakerState exposes the circuit state for the readiness endpoint.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}
