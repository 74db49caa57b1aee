// Package engine runs adaptive case-study interviews: it opens a case and
// produces one probing follow-up per candidate answer. The engine keeps no
// state between calls. Everything it needs arrives with each request.
package engine

import (
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/logger"
	"github.com/interviewai/case-coach/internal/prompts"
	"github.com/interviewai/case-coach/internal/provider"
)

const (
	DefaultCeiling         = 4
	DefaultSetupTimeout    = 30 * time.Second
	DefaultFollowUpTimeout = 20 * time.Second

	defaultMaxContextLength = 6000
	defaultMaxLogLength     = 200
	maxRubricBullets        = 4

	tracerName = "github.com/interviewai/case-coach/internal/engine"
)

// Config tunes the engine. Zero values select defaults.
type Config struct {
	// Ceiling is the number of follow-ups after which a case is forced to end.
	Ceiling         int           `mapstructure:"ceiling"`
	SetupTimeout    time.Duration `mapstructure:"setup-timeout"`
	FollowUpTimeout time.Duration `mapstructure:"followup-timeout"`
	// MaxContextLength caps resume and job description text sent to the provider.
	MaxContextLength int     `mapstructure:"max-context-length"`
	MaxLogLength     int     `mapstructure:"max-log-length"`
	Temperature      float64 `mapstructure:"temperature"`
	TemplatesDir     string  `mapstructure:"templates-dir"`
}

func (c Config) withDefaults() Config {
	if c.Ceiling <= 0 {
		c.Ceiling = DefaultCeiling
	}
	if c.SetupTimeout <= 0 {
		c.SetupTimeout = DefaultSetupTimeout
	}
	if c.FollowUpTimeout <= 0 {
		c.FollowUpTimeout = DefaultFollowUpTimeout
	}
	if c.MaxContextLength <= 0 {
		c.MaxContextLength = defaultMaxContextLength
	}
	if c.MaxLogLength <= 0 {
		c.MaxLogLength = defaultMaxLogLength
	}
	return c
}

// Store returns the template store described by the config: templates in
// TemplatesDir override the embedded ones.
func (c Config) Store() prompts.Store {
	if dir := strings.TrimSpace(c.TemplatesDir); dir != "" {
		return prompts.Layered{prompts.Dir(dir), prompts.Embedded()}
	}
	return prompts.Embedded()
}

// Engine is safe for concurrent use by many sessions.
type Engine struct {
	selector *provider.Selector
	renderer *prompts.Renderer
	cfg      Config
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New wires an Engine. A nil renderer uses the embedded templates.
func New(selector *provider.Selector, renderer *prompts.Renderer, cfg Config, log *zap.Logger) *Engine {
	if selector == nil {
		selector = provider.NewSelector(nil, nil, log)
	}
	if renderer == nil {
		renderer = prompts.NewRenderer(nil)
	}

	return &Engine{
		selector: selector,
		renderer: renderer,
		cfg:      cfg.withDefaults(),
		logger:   logger.WithFields(log),
		tracer:   otel.Tracer(tracerName),
	}
}

// Ceiling returns the effective follow-up ceiling.
func (e *Engine) Ceiling() int {
	return e.cfg.Ceiling
}

// CallOption customizes a single engine call.
type CallOption func(*callOptions)

type callOptions struct {
	credential string
}

// WithCredential makes the call use a provider bound to the caller's own
// credential. If that provider cannot be built the shared one is used.
func WithCredential(credential string) CallOption {
	return func(o *callOptions) {
		o.credential = credential
	}
}

func collect(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
