package llm

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Provider names a text generation backend.
type Provider string

const (
	// ProviderAnthropic is the Anthropic Messages API.
	ProviderAnthropic Provider = "anthropic"
	// ProviderOpenAI is the OpenAI Chat Completions API.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is Google Gemini.
	ProviderGemini Provider = "gemini"
)

const (
	// DefaultAnthropicModel is used when no model is configured for Anthropic.
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	// DefaultOpenAIModel is used when no model is configured for OpenAI.
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultGeminiModel is used when no model is configured for Gemini.
	DefaultGeminiModel = "gemini-2.5-flash"
)

// ClientConfig selects and authenticates a provider.
type ClientConfig struct {
	Provider Provider
	APIKey   string
	// BaseURL overrides the provider endpoint (proxies, tests). Ignored by Gemini.
	BaseURL string
	// MaxRetries is passed to SDKs that retry internally. Zero disables retries.
	MaxRetries int
}

// NewGenerator creates the Generator for cfg.Provider. Callers should close
// the result if it implements io.Closer.
func NewGenerator(ctx context.Context, cfg ClientConfig) (gen Generator, err error) {
	if cfg.APIKey == "" {
		err = errors.Errorf("api key is required for provider %q", cfg.Provider)
		return gen, err
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		gen = NewAnthropicClient(cfg)
	case ProviderOpenAI:
		gen = NewOpenAIClient(cfg)
	case ProviderGemini:
		gen, err = NewGeminiClient(ctx, cfg)
		if err != nil {
			err = errors.Wrap(err, "failed to create gemini client")
			return gen, err
		}
	default:
		err = errors.Errorf("unknown provider %q", cfg.Provider)
	}

	return gen, err
}

// DefaultModel returns the model used for p when none is configured.
func DefaultModel(p Provider) (model string) {
	switch p {
	case ProviderOpenAI:
		model = DefaultOpenAIModel
	case ProviderGemini:
		model = DefaultGeminiModel
	default:
		model = DefaultAnthropicModel
	}
	return model
}

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

// WithTimeout bounds every call made through gen. A non-positive timeout
// returns gen unchanged.
func WithTimeout(gen Generator, timeout time.Duration) (wrapped Generator) {
	if timeout <= 0 {
		wrapped = gen
		return wrapped
	}
	wrapped = &timeoutGenerator{next: gen, timeout: timeout}
	return wrapped
}

func (t *timeoutGenerator) Generate(ctx context.Context, req Request) (text string, err error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	text, err = t.next.Generate(ctx, req)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &ServiceError{Provider: "timeout", Message: "generation exceeded " + t.timeout.String(), Cause: err}
	}
	return text, err
}
