package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type GeminiOptions struct {
	APIKey         string
	Model          string
	Temperature    float32
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration
}

// GeminiBackend generates text with the Gemini API.
type GeminiBackend struct {
	client *genai.Client
	opts   GeminiOptions
}

func NewGeminiBackend(ctx context.Context, opts GeminiOptions) (*GeminiBackend, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &ConfigError{Setting: "GEMINI_API_KEY"}
	}
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiBackend{client: client, opts: opts}, nil
}

func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.opts.RequestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.opts.Temperature),
	}

	var lastErr error
	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(g.opts.BaseDelay, g.opts.MaxDelay, attempt)
			log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("retrying gemini request")
			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return "", fmt.Errorf("context done during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := g.client.Models.GenerateContent(timeoutCtx, g.opts.Model, genai.Text(prompt), genConfig)
		if err == nil {
			if err := validateGenerateResponse(result); err != nil {
				return "", fmt.Errorf("invalid response: %w", err)
			}
			return result.Text(), nil
		}

		lastErr = err
		if isCredentialError(err) {
			return "", &ConfigError{Setting: "GEMINI_API_KEY", Cause: err}
		}
		if !isRetryableError(err) {
			log.Warn().Err(err).Msg("non-retryable gemini error")
			return "", fmt.Errorf("generate content failed: %w", err)
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("retryable gemini error")
	}
	return "", fmt.Errorf("max retries (%d) exceeded: %w", g.opts.MaxRetries, lastErr)
}

// backoff doubles base for each attempt after the first, capped at max.
func backoff(base, max time.Duration, attempt int) time.Duration {
	delay := base * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > max {
		delay = max
	}
	return delay
}

func apiErrorCode(err error) (int, string, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v.Code, v.Message, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return p.Code, p.Message, true
	}
	return 0, "", false
}

func isCredentialError(err error) bool {
	code, msg, ok := apiErrorCode(err)
	if !ok {
		return false
	}
	return code == 401 || code == 403 || (code == 400 && strings.Contains(msg, "API key"))
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code, _, ok := apiErrorCode(err); ok {
		switch code {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "temporary failure") ||
		strings.Contains(msg, "EOF")
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}
