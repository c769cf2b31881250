package advisory

import (
	"context"
	"errors"
	"fmt"

	"aetheris/internal/config"
)

// ErrAdvisorDisabled is returned by the "none" provider.
var ErrAdvisorDisabled = errors.New("advisory provider disabled")

// Client is the interface for text-advisory providers.
type Client interface {
	Complete(ctx context.Context, prompt string, opts ...Option) (*Response, error)
}

// Response holds the result of a completion.
type Response struct {
	Content  string
	Provider string
}

// Options tune a single completion.
type Options struct {
	Temperature *float64
	TopP        *float64
}

type Option func(*Options)

// Deterministic pins sampling so repeated plans come out the same.
func Deterministic() Option {
	return func(o *Options) {
		t, p := 0.0, 0.1
		o.Temperature = &t
		o.TopP = &p
	}
}

func applyOptions(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// NewClient creates a client for the configured provider.
func NewClient(cfg config.AdvisoryConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GEMINI_API_KEY or advisory.api_key")
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-2.0-flash"
		}
		return NewGemini(cfg.BaseURL, cfg.APIKey, model), nil
	case config.ProviderOllama:
		url := cfg.BaseURL
		if url == "" {
			url = "http://localhost:11434"
		}
		model := cfg.Model
		if model == "" {
			model = "llama3.2"
		}
		return NewOllama(url, model), nil
	case config.ProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown advisory provider: %q", cfg.Provider)
	}
}

// Disabled always fails with ErrAdvisorDisabled.
type Disabled struct{}

func (Disabled) Complete(context.Context, string, ...Option) (*Response, error) {
	return nil, ErrAdvisorDisabled
}
