package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cv-builder/internal/domain"
	"cv-builder/pkg/ai/formatters"

	"github.com/rs/zerolog/log"
)

const (
	ProviderGemini = "gemini"
	ProviderChat   = "chat"
)

// TextGenerator turns a prompt into raw model output.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SuggestedSkill = formatters.SuggestedSkill

// SkillSuggestions carries the validated suggestions. Fallback is set when
// the model answer could not be used and the built-in table was returned.
type SkillSuggestions struct {
	Skills   []SuggestedSkill `json:"skills"`
	Fallback bool             `json:"fallback"`
}

type Options struct {
	Provider    string
	APIKey      string
	Model       string
	ServiceURL  string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
}

// Client generates CV content. It is safe for concurrent use.
type Client struct {
	backend    TextGenerator
	summary    *formatters.SummaryFormatter
	experience *formatters.ExperienceFormatter
	skills     *formatters.SkillsFormatter
}

func NewClient(backend TextGenerator) *Client {
	return &Client{
		backend:    backend,
		summary:    formatters.NewSummaryFormatter(),
		experience: formatters.NewExperienceFormatter(),
		skills:     formatters.NewSkillsFormatter(),
	}
}

// New builds the backend selected by opts.Provider. Missing credentials do
// not fail construction; every call on the returned client reports them.
func New(ctx context.Context, opts Options) (*Client, error) {
	var (
		backend TextGenerator
		err     error
	)
	switch opts.Provider {
	case ProviderChat:
		backend, err = NewChatServiceBackend(ChatOptions{
			BaseURL:    opts.ServiceURL,
			Timeout:    opts.Timeout,
			MaxRetries: opts.MaxRetries,
		})
	case ProviderGemini, "":
		backend, err = NewGeminiBackend(ctx, GeminiOptions{
			APIKey:         opts.APIKey,
			Model:          opts.Model,
			Temperature:    opts.Temperature,
			MaxRetries:     opts.MaxRetries,
			RequestTimeout: opts.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown ai provider %q", opts.Provider)
	}

	var ce *ConfigError
	if errors.As(err, &ce) {
		log.Warn().Str("provider", opts.Provider).Str("setting", ce.Setting).Msg("ai backend not configured")
		return NewClient(unconfigured{err: ce}), nil
	}
	if err != nil {
		return nil, err
	}
	return NewClient(backend), nil
}

type unconfigured struct{ err error }

func (u unconfigured) Generate(context.Context, string) (string, error) { return "", u.err }

// Ready reports a missing-credentials error without calling the backend.
func (c *Client) Ready() error {
	if u, ok := c.backend.(unconfigured); ok {
		return u.err
	}
	return nil
}

func (c *Client) GenerateProfessionalSummary(ctx context.Context, jobTitle string, data domain.CVData) (string, error) {
	out, err := c.backend.Generate(ctx, c.summary.Prompt(jobTitle, data))
	if err != nil {
		return "", wrap(OpSummary, err)
	}
	text, err := c.summary.Parse(out)
	if err != nil {
		return "", wrap(OpSummary, err)
	}
	return text, nil
}

func (c *Client) GenerateExperienceDescription(ctx context.Context, position, company string) (string, error) {
	out, err := c.backend.Generate(ctx, c.experience.Prompt(position, company))
	if err != nil {
		return "", wrap(OpExperience, err)
	}
	text, err := c.experience.Parse(out)
	if err != nil {
		return "", wrap(OpExperience, err)
	}
	return text, nil
}

// SuggestSkills asks the model for skills. An unusable answer yields the
// built-in defaults for jobTitle; backend failures are returned as errors.
func (c *Client) SuggestSkills(ctx context.Context, jobTitle string) (SkillSuggestions, error) {
	out, err := c.backend.Generate(ctx, c.skills.Prompt(jobTitle))
	if err != nil {
		return SkillSuggestions{}, wrap(OpSkills, err)
	}

	skills, err := c.skills.Parse(out)
	if err != nil {
		var pe *formatters.ParseError
		if !errors.As(err, &pe) {
			return SkillSuggestions{}, wrap(OpSkills, err)
		}
		log.Warn().Err(err).Str("job_title", jobTitle).Msg("using default skill suggestions")
		return SkillSuggestions{Skills: formatters.DefaultSkills(jobTitle), Fallback: true}, nil
	}
	return SkillSuggestions{Skills: skills}, nil
}

func wrap(op string, err error) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce
	}
	re := &RemoteError{Op: op, Cause: err}
	var inner *RemoteError
	if errors.As(err, &inner) {
		re.Status = inner.Status
		re.Cause = inner.Cause
	}
	return re
}
