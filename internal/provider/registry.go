package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/ai"
	"github.com/interviewai/case-coach/internal/ai/anthropic"
	"github.com/interviewai/case-coach/internal/ai/bedrock"
	"github.com/interviewai/case-coach/internal/ai/gemini"
	"github.com/interviewai/case-coach/internal/ai/openai"
	"github.com/interviewai/case-coach/internal/secrets"
)

// ErrCredentialsUnsupported is returned for backends that authenticate
// through their own credential chain.
var ErrCredentialsUnsupported = errors.New("provider does not accept caller credentials")

type KeyedSettings struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

type GeminiSettings struct {
	KeyedSettings `mapstructure:",squash"`
	MaxRetries    int `mapstructure:"max-retries"`
}

type BedrockSettings struct {
	Region string `mapstructure:"region"`
	Model  string `mapstructure:"model"`
}

// Settings selects and configures a backend.
type Settings struct {
	Provider     string          `mapstructure:"provider"`
	Gemini       GeminiSettings  `mapstructure:"gemini"`
	Anthropic    KeyedSettings   `mapstructure:"anthropic"`
	OpenAI       KeyedSettings   `mapstructure:"openai"`
	Bedrock      BedrockSettings `mapstructure:"bedrock"`
	MaxLogLength int             `mapstructure:"-"`
}

// Name returns the configured backend, defaulting to gemini.
func (s Settings) Name() string {
	name := strings.ToLower(strings.TrimSpace(s.Provider))
	if name == "" {
		return gemini.ProviderName
	}
	return name
}

// Build constructs the configured backend. A non-empty credential replaces the
// configured API key.
func Build(ctx context.Context, s Settings, credential string, log *zap.Logger) (ai.Provider, error) {
	credential = strings.TrimSpace(credential)

	switch s.Name() {
	case gemini.ProviderName:
		key, err := apiKey(credential, s.Gemini.KeyedSettings, "gemini api key", "GEMINI_API_KEY")
		if err != nil {
			return nil, err
		}
		return gemini.NewGenerator(ctx, key, gemini.Options{
			Model:        s.Gemini.Model,
			MaxRetries:   s.Gemini.MaxRetries,
			MaxLogLength: s.MaxLogLength,
		}, log)
	case anthropic.ProviderName:
		key, err := apiKey(credential, s.Anthropic, "anthropic api key", "ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		return anthropic.New(key, s.Anthropic.Model, log)
	case openai.ProviderName:
		key, err := apiKey(credential, s.OpenAI, "openai api key", "OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		return openai.New(key, s.OpenAI.Model, log)
	case bedrock.ProviderName:
		if credential != "" {
			return nil, fmt.Errorf("%s: %w", bedrock.ProviderName, ErrCredentialsUnsupported)
		}
		return bedrock.New(ctx, s.Bedrock.Region, s.Bedrock.Model, log)
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Provider)
	}
}

func apiKey(credential string, ks KeyedSettings, name, env string) (string, error) {
	if credential != "" {
		return credential, nil
	}
	return secrets.Load(secrets.Source{Name: name, Value: ks.APIKey, File: ks.APIKeyFile, Env: env})
}

// NewDefault builds the shared provider. When that fails the error is logged
// and ai.Unavailable is returned so every call degrades to fallback content.
func NewDefault(ctx context.Context, s Settings, log *zap.Logger) ai.Provider {
	p, err := Build(ctx, s, "", log)
	if err != nil {
		if log != nil {
			log.Warn("default provider is unavailable, serving fallback content only",
				zap.String("provider", s.Name()),
				zap.Error(err),
			)
		}
		return ai.Unavailable{Reason: err.Error()}
	}
	return p
}

// FactoryFor returns a Factory building s's backend with caller credentials.
func FactoryFor(s Settings, log *zap.Logger) Factory {
	return func(ctx context.Context, credential string) (ai.Provider, error) {
		return Build(ctx, s, credential, log)
	}
}
