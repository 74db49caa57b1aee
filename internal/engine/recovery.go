package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/ai"
	"github.com/interviewai/case-coach/internal/logger"
	"github.com/interviewai/case-coach/internal/utils"
)

var (
	errTimeout       = errors.New("provider timed out")
	errProviderPanic = errors.New("provider panicked")
	errRender        = errors.New("prompt rendering failed")
	errMalformed     = errors.New("malformed provider output")
	errMissingField  = errors.New("required field missing")
	errRepeated      = errors.New("question repeats an earlier one")
)

// generation describes one guarded provider call.
type generation[T any] struct {
	operation string
	timeout   time.Duration
	request   func() (*ai.Request, error)
	checks    []check[T]
}

type outcome struct {
	raw string
	err error
}

// guard runs g against p. Every failure mode (render errors, provider
// errors, timeouts, panics, malformed output and failed checks) comes back as
// an error for the caller to replace with fallback content. guard itself
// never panics.
func guard[T any](ctx context.Context, e *Engine, p ai.Provider, g generation[T], log *zap.Logger) (out T, err error) {
	ctx, span := e.tracer.Start(ctx, "engine."+g.operation, trace.WithAttributes(
		attribute.String("ai.provider", p.Name()),
		attribute.String("ai.model", p.Model()),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errProviderPanic, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	req, err := g.request()
	if err != nil {
		return out, fmt.Errorf("%w: %v", errRender, err)
	}

	log.Debug("provider request",
		zap.Int("prompt_length", utf8.RuneCountInString(req.Prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(req.Prompt, e.cfg.MaxLogLength)),
	)

	raw, err := call(ctx, p, req, g.timeout)
	if err != nil {
		return out, err
	}

	log.Debug("provider response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.cfg.MaxLogLength)),
	)

	out, err = decode[T](raw)
	if err != nil {
		return out, err
	}

	if err := runChecks(log, g.checks, &out); err != nil {
		return out, err
	}

	return out, nil
}

// call bounds the provider with timeout even when it ignores its context.
func call(ctx context.Context, p ai.Provider, req *ai.Request, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", errProviderPanic, r)}
			}
		}()
		raw, err := p.Generate(ctx, req)
		done <- outcome{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", errTimeout, timeout)
		}
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: %v", errTimeout, res.err)
			}
			return "", res.err
		}
		return res.raw, nil
	}
}

func logFallback(log *zap.Logger, err error) {
	log.Warn("generation failed, serving fallback content", zap.String(logger.FieldFallback, err.Error()))
}
