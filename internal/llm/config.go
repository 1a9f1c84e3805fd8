// Package llm wraps the Gemini API behind a small client interface used by resume parsing.
package llm

import (
	"os"
	"strings"
)

// ModelTier selects a model by capability instead of by name
type ModelTier string

const (
	// TierLite is for short classification or cleanup prompts
	TierLite ModelTier = "lite"
	// TierStandard is for structured extraction such as resume parsing
	TierStandard ModelTier = "standard"
)

// Environment variables read by ConfigFromEnv
const (
	EnvAPIKey = "GEMINI_API_KEY"
	EnvModel  = "GEMINI_MODEL"
)

// DefaultTemperature keeps extraction output stable across calls
const DefaultTemperature float32 = 0.1

// Config holds the model names and sampling settings
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini models used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: DefaultTemperature,
	}
}

// ConfigFromEnv returns DefaultConfig with the standard model replaced by GEMINI_MODEL when set
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if model := strings.TrimSpace(os.Getenv(EnvModel)); model != "" {
		cfg = cfg.WithModel(TierStandard, model)
	}
	return cfg
}

// APIKeyFromEnv returns the trimmed GEMINI_API_KEY
func APIKeyFromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvAPIKey))
}

// GetModel returns the model for tier, falling back to standard and then lite
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with tier set to model
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{Models: make(map[ModelTier]string, len(c.Models)+1), Temperature: c.Temperature}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
