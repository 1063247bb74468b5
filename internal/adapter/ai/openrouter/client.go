// Package openrouter implements the reasoning service client against an
// OpenRouter-compatible chat completions API.
package openrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/config"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// Client implements domain.AIClient.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a client with a traced transport.
func New(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout:   cfg.AIRequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// ChatJSON sends the conversation and returns the first choice's content.
// 429 and 5xx responses are retried with exponential backoff; other 4xx
// responses fail immediately.
func (c *Client) ChatJSON(ctx domain.Context, messages []domain.ChatMessage, maxTokens int) (string, error) {
	if c.cfg.OpenRouterAPIKey == "" {
		return "", fmt.Errorf("op=openrouter.ChatJSON: OPENROUTER_API_KEY missing: %w", domain.ErrInvalidArgument)
	}

	body := map[string]any{
		"model":       c.cfg.OpenRouterModel,
		"messages":    messages,
		"temperature": 0.7,
		"top_p":       0.9,
		"response_format": map[string]string{
			"type": "json_object",
		},
	}
	if maxTokens > 0 {
		body["max_tokens"] = maxTokens
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("op=openrouter.ChatJSON: marshal request: %w", err)
	}

	var out struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	op := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenRouterBaseURL+"/chat/completions", bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		c.setHeaders(req)
		resp, err := c.hc.Do(req)
		observability.AIRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
		if err != nil {
			observability.AIRequestsTotal.WithLabelValues("chat", "transport_error").Inc()
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			observability.AIRequestsTotal.WithLabelValues("chat", "rate_limited").Inc()
			slog.Warn("reasoning service rate limited", slog.Int("status", resp.StatusCode))
			return fmt.Errorf("chat status %d: %w", resp.StatusCode, domain.ErrRateLimited)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			observability.AIRequestsTotal.WithLabelValues("chat", "client_error").Inc()
			slog.Warn("reasoning service 4xx",
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(bodyBytes, 512)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			observability.AIRequestsTotal.WithLabelValues("chat", "server_error").Inc()
			slog.Error("reasoning service non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(bodyBytes, 512)))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			observability.AIRequestsTotal.WithLabelValues("chat", "decode_error").Inc()
			return err
		}
		observability.AIRequestsTotal.WithLabelValues("chat", "ok").Inc()
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(c.backoffConfig(), ctx)); err != nil {
		return "", fmt.Errorf("op=openrouter.ChatJSON: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("op=openrouter.ChatJSON: empty choices: %w", domain.ErrSchemaInvalid)
	}
	if out.Model != "" && out.Model != c.cfg.OpenRouterModel {
		slog.Debug("model substitution",
			slog.String("requested", c.cfg.OpenRouterModel),
			slog.String("actual", out.Model))
	}
	return out.Choices[0].Message.Content, nil
}

// Ping checks reachability with a single models listing call. No retries:
// callers use this to decide whether to leave degraded mode.
func (c *Client) Ping(ctx domain.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.OpenRouterBaseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("op=openrouter.Ping: %w", err)
	}
	c.setHeaders(req)
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("op=openrouter.Ping: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("op=openrouter.Ping: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterAPIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.OpenRouterReferer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.OpenRouterReferer)
	}
	if c.cfg.OpenRouterTitle != "" {
		req.Header.Set("X-Title", c.cfg.OpenRouterTitle)
	}
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
