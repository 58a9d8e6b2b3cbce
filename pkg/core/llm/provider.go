package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned before any network call when a provider has no credentials.
var ErrMissingAPIKey = errors.New("api key not configured")

// Provider is the interface for all LLM providers.
type Provider interface {
	Name() string
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, opts Options) (string, error)
}

// Options tunes a single generation call. Nil Temperature keeps the provider default.
type Options struct {
	Model       string
	Temperature *float64
}

// Temperature is a helper for building Options literals.
func Temperature(t float64) *float64 {
	return &t
}

func (o Options) modelOr(fallback string) string {
	if o.Model != "" {
		return o.Model
	}
	return fallback
}
