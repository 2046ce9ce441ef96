// Package completion talks to an OpenAI-compatible chat completion endpoint.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"

	"digestbot/internal/config"
	"digestbot/internal/observability/tracing"
	"digestbot/internal/utils/text"
)

// FallbackMessage is returned in place of a reply whenever the endpoint cannot
// produce one. It is phrased as an instruction so that a downstream model relays
// the failure instead of answering it.
const FallbackMessage = "Tell the user there was an error processing your request, do not respond to this message."

var errEmptyReply = errors.New("completion returned no content")

// Client sends single-turn, non-streaming chat completion requests.
type Client struct {
	api     *openai.Client
	cfg     config.CompletionConfig
	metrics MetricsRecorder
}

// Option customizes a Client.
type Option func(*Client)

// WithMetrics replaces the Prometheus recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient returns a Client for cfg. Requests go to {cfg.Endpoint}/v1/chat/completions.
func NewClient(cfg config.CompletionConfig, opts ...Option) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/v1"
	apiCfg.HTTPClient = &wireDefaults{next: apiCfg.HTTPClient, temperature: cfg.Temperature}

	c := &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		cfg:     cfg,
		metrics: NewPrometheusMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}

	slog.Info("initialized chat completion client",
		slog.String("endpoint", apiCfg.BaseURL),
		slog.String("model", cfg.Model),
		slog.Float64("temperature", cfg.Temperature),
		slog.Duration("timeout", cfg.Timeout))
	return c
}

// Complete sends prompt as a single user message and returns the trimmed reply.
// Any failure, including an empty reply, is logged and FallbackMessage is
// returned instead. Complete never returns an error.
func (c *Client) Complete(ctx context.Context, prompt string) string {
	ctx, span := tracing.GetTracer().Start(ctx, "completion.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.cfg.Model),
		attribute.Int("llm.prompt_length", text.CountRunes(prompt)),
	)

	start := time.Now()
	reply, err := c.complete(ctx, prompt)
	duration := time.Since(start)
	c.metrics.RecordRequest(err == nil, duration)

	if err != nil {
		tracing.RecordError(span, err)
		slog.ErrorContext(ctx, "chat completion failed, using fallback message",
			slog.String("model", c.cfg.Model),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return FallbackMessage
	}

	length := text.CountRunes(reply)
	c.metrics.RecordResponseLength(length)
	slog.InfoContext(ctx, "chat completion succeeded",
		slog.String("model", c.cfg.Model),
		slog.Int("response_length", length),
		slog.Duration("duration", duration))
	return reply
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		Temperature: float32(c.cfg.Temperature),
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", errEmptyReply)
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", errEmptyReply
	}
	return reply, nil
}

// wireDefaults restores request fields that go-openai omits when they hold
// their zero value: temperature 0 and stream false are always sent.
type wireDefaults struct {
	next        openai.HTTPDoer
	temperature float64
}

func (d *wireDefaults) Do(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodPost || req.Body == nil {
		return d.next.Do(req)
	}

	raw, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if _, ok := fields["temperature"]; !ok {
			fields["temperature"], _ = json.Marshal(d.temperature)
		}
		if _, ok := fields["stream"]; !ok {
			fields["stream"] = json.RawMessage("false")
		}
		if patched, err := json.Marshal(fields); err == nil {
			raw = patched
		}
	}

	req.Body = io.NopCloser(bytes.NewReader(raw))
	req.ContentLength = int64(len(raw))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(raw)), nil
	}
	return d.next.Do(req)
}
