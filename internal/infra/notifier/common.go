package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"digestbot/internal/observability/logging"
)

const (
	defaultRetryAfter = 5 * time.Second
	maxErrorBodySize  = 4 << 10
)

// RateLimitError represents a 429 rate limit error from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string // Optional custom message
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx client error from a webhook service.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx server error from a webhook service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// rateLimitBody is the JSON body Discord returns with a 429. Slack sends only
// the Retry-After header.
type rateLimitBody struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"`
}

// postJSON encodes payload and posts it to url.
//
// Returns:
//   - nil: Request succeeded (2xx status)
//   - error: Request failed (non-2xx status or network error)
//
// Error types:
//   - 429: *RateLimitError with the server's retry-after
//   - 4xx (non-429): *ClientError
//   - 5xx and anything else: *ServerError
//   - Network error: wrapped transport error
func postJSON(ctx context.Context, client *http.Client, service, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestID := logging.RequestIDFromContext(ctx)
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send %s webhook: %w", service, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close webhook response body",
				slog.String("service", service),
				slog.Any("error", closeErr))
		}
	}()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	slog.DebugContext(ctx, "webhook response",
		slog.String("service", service),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	return classifyResponse(service, resp, respBody)
}

func classifyResponse(service string, resp *http.Response, body []byte) error {
	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return &RateLimitError{
			RetryAfter: retryAfter(resp, body),
			Message:    fmt.Sprintf("%s rate limit exceeded", service),
		}
	case code >= 400 && code < 500:
		return &ClientError{
			StatusCode: code,
			Message:    fmt.Sprintf("%s client error: status %d: %s", service, code, bytes.TrimSpace(body)),
		}
	default:
		return &ServerError{
			StatusCode: code,
			Message:    fmt.Sprintf("%s server error: status %d", service, code),
		}
	}
}

// retryAfter reads the wait time from a Discord JSON body, then from the
// Retry-After header, then falls back to a fixed default.
func retryAfter(resp *http.Response, body []byte) time.Duration {
	var rl rateLimitBody
	if err := json.Unmarshal(body, &rl); err == nil && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter * float64(time.Second))
	}
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultRetryAfter
}

// truncateMessage cuts text to maxLength runes, ending with suffix when cut.
func truncateMessage(text string, maxLength int, suffix string) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	cut := maxLength - len([]rune(suffix))
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + suffix
}
