package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chihoong/discord-summarizer-bot/src/ai/core"
	"github.com/chihoong/discord-summarizer-bot/src/logging"
	"github.com/chihoong/discord-summarizer-bot/src/webclient"
)

const (
	defaultEndpoint  = "https://api.anthropic.com/v1/messages"
	defaultModel     = "claude-3-5-sonnet-20241022"
	defaultMaxTokens = 1000
	apiVersion       = "2023-06-01"

	attemptTimeout = 45 * time.Second
	retryBackoff   = 2 * time.Second
	// One immediate retry on rate limit or timeout, nothing more.
	maxAttempts = 2
)

type client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	defaults   core.Options
}

// NewClient constructs an Anthropic-backed core.Client.
func NewClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.ClaudeKey == "" {
		return nil, fmt.Errorf("anthropic: API key not configured")
	}

	return &client{
		apiKey:     cfg.ClaudeKey,
		endpoint:   defaultEndpoint,
		httpClient: webclient.NewDefault(90 * time.Second),
		defaults: core.Options{
			Model:               valueOrDefault(cfg.Model, defaultModel),
			Temperature:         orFloat(cfg.Temperature, 0.3),
			MaxCompletionTokens: orInt(cfg.MaxCompletionTokens, defaultMaxTokens),
			SystemPrompt:        cfg.SystemPrompt,
		},
	}, nil
}

func (c *client) Summarize(ctx context.Context, prompt string, opts core.Options) (string, error) {
	merged := c.merge(opts)

	body := map[string]interface{}{
		"model":       merged.Model,
		"max_tokens":  merged.MaxCompletionTokens,
		"temperature": merged.Temperature,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	if merged.SystemPrompt != "" {
		body["system"] = merged.SystemPrompt
	}
	payload, _ := json.Marshal(body)

	status, respBody, err := webclient.DoWithRetry(ctx, maxAttempts, retryBackoff, func() (int, []byte, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		defer cancel()
		return c.post(attemptCtx, payload)
	})
	if err != nil {
		return "", classify(status, err)
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", core.ErrUpstream)
	}

	text := extractText(result.Content)
	if text == "" {
		return "", fmt.Errorf("anthropic: %w", core.ErrEmptyCompletion)
	}
	return text, nil
}

func (c *client) post(ctx context.Context, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, b, fmt.Errorf("anthropic: status %d: %s", resp.StatusCode, truncate(b, 200))
	}
	return resp.StatusCode, b, nil
}

func classify(status int, err error) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("anthropic: %w", core.ErrAuth)
	case status == http.StatusTooManyRequests || logging.IsRateLimit(err):
		return fmt.Errorf("anthropic: %w", core.ErrRateLimited)
	case webclient.IsTimeout(err):
		return fmt.Errorf("anthropic: %w", core.ErrTimeout)
	default:
		return fmt.Errorf("anthropic: %w: %v", core.ErrUpstream, err)
	}
}

func (c *client) merge(opts core.Options) core.Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxCompletionTokens != 0 {
		out.MaxCompletionTokens = opts.MaxCompletionTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	return out
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

func extractText(chunks []anthropicContent) string {
	var b strings.Builder
	for _, chunk := range chunks {
		if chunk.Text != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(chunk.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func truncate(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}

func valueOrDefault(val, def string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}
