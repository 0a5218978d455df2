// Package gateway is the HTTP client for the core ledger API. It owns
// transport concerns only: bearer credentials, timeouts, idempotency
// headers and the mapping of ledger failures onto the classified error
// taxonomy. Business rules live in the service packages.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds every ledger call so a hung submission can
	// never leave an optimistic hold inflated forever.
	DefaultTimeout = 15 * time.Second

	headerIdempotencyKey = "Idempotency-Key"
)

// Config holds the gateway connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the ledger collaborator endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a ledger API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		panic("gateway base url is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// call performs one JSON round trip. A non-empty idempotencyKey is sent
// as an Idempotency-Key header so the ledger can deduplicate retries.
func (c *Client) call(ctx context.Context, method, path, bearer, idempotencyKey string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if idempotencyKey != "" {
		req.Header.Set(headerIdempotencyKey, idempotencyKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("ledger call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		var uerr *url.Error
		if errors.As(err, &uerr) && (uerr.Timeout() || uerr.Temporary()) {
			return fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("ledger call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return c.classify(resp)
}

// classify maps a non-2xx ledger response to the error taxonomy. The
// error code in the body takes precedence over the HTTP status.
func (c *Client) classify(resp *http.Response) error {
	var apiErr apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &apiErr)

	switch apiErr.Code {
	case "invalid_pin", "invalid_otp", "invalid_secret":
		return ErrInvalidSecret
	case "unauthorized", "token_expired":
		return ErrUnauthorized
	case "otp_expired":
		return ErrOTPExpired
	case "insufficient_balance":
		return ErrInsufficientBalance
	case "recipient_not_found", "account_not_found":
		return ErrRecipientNotFound
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// A 401 on a submission endpoint means the secret was rejected.
		return ErrInvalidSecret
	case resp.StatusCode == http.StatusNotFound:
		return ErrRecipientNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrInsufficientBalance
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	default:
		if apiErr.Message != "" {
			return fmt.Errorf("%w: %s", ErrServer, apiErr.Message)
		}
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}
}
