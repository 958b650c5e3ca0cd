package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

type ChatOptions struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
}

// ChatServiceBackend talks to the internal ai-service chat endpoint.
type ChatServiceBackend struct {
	http *resty.Client
}

type chatRequest struct {
	Agent string `json:"agent"`
	Input string `json:"input"`
}

func NewChatServiceBackend(opts ChatOptions) (*ChatServiceBackend, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, &ConfigError{Setting: "AI_SERVICE_URL"}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(opts.MaxRetries).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(opts.RetryWait * 8).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == 429 || r.StatusCode() >= 500
		})
	return &ChatServiceBackend{http: client}, nil
}

func (c *ChatServiceBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{Agent: "auto", Input: prompt}).
		Post("/v1/chat")
	if err != nil {
		return "", fmt.Errorf("call ai-service: %w", err)
	}
	if resp.IsError() {
		return "", &RemoteError{Status: resp.StatusCode(), Cause: fmt.Errorf("ai-service error: %s", truncate(resp.String(), 200))}
	}

	out := gjson.Get(resp.String(), "output")
	if !out.Exists() {
		return "", fmt.Errorf("ai-service response has no output field")
	}
	return out.String(), nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
