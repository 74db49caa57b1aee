package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/engine"
	"github.com/interviewai/case-coach/internal/logger"
	"github.com/interviewai/case-coach/internal/prompts"
	"github.com/interviewai/case-coach/internal/provider"
	"github.com/interviewai/case-coach/internal/secrets"
	"github.com/interviewai/case-coach/internal/session"
)

// wiring holds what every command needs once flags and config are read.
type wiring struct {
	config *Config
	logger *zap.Logger
	engine *engine.Engine
}

func newLogger() *zap.Logger {
	json := viper.GetBool("json")
	if !rootCmd.PersistentFlags().Changed("json") {
		fd := os.Stderr.Fd()
		json = json || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	}

	l, err := logger.New(json, viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// prepare reads the config and wires the engine. Config errors are fatal.
func prepare(ctx context.Context) *wiring {
	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug("starting", zap.String("version", version), zap.String("provider", config.Name()))

	return &wiring{
		config: config,
		logger: l,
		engine: buildEngine(ctx, config, l),
	}
}

func buildEngine(ctx context.Context, config *Config, l *zap.Logger) *engine.Engine {
	def := provider.NewDefault(ctx, config.Settings, l)
	selector := provider.NewSelector(def, provider.FactoryFor(config.Settings, l), l)
	renderer := prompts.NewRenderer(config.Engine.Store())

	return engine.New(selector, renderer, config.Engine, l)
}

// openStore returns the configured session store and a function releasing it.
func openStore(ctx context.Context, cfg SessionConfig) (session.Store, func() error, error) {
	noop := func() error { return nil }

	switch kind := strings.ToLower(strings.TrimSpace(cfg.Store)); kind {
	case "", "file":
		store, err := session.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "postgres":
		url, err := secrets.Load(secrets.Source{
			Name:  "session database url",
			Value: cfg.DatabaseURL,
			File:  cfg.DatabaseURLFile,
			Env:   envPrefix + "_DATABASE_URL",
		})
		if err != nil {
			return nil, noop, fmt.Errorf("%w (set session.database-url, session.database-url-file or %s_DATABASE_URL)", err, envPrefix)
		}
		store, err := session.NewPostgresStore(ctx, url)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
