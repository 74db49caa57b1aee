// Package provider chooses the generation backend for each engine call.
package provider

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/ai"
	"github.com/interviewai/case-coach/internal/logger"
)

// Factory builds a provider bound to a caller-supplied credential.
type Factory func(ctx context.Context, credential string) (ai.Provider, error)

// Selector hands out the provider for a single call. It holds only read-only
// configuration and is safe for concurrent use.
type Selector struct {
	def     ai.Provider
	factory Factory
	logger  *zap.Logger
}

// NewSelector wires the shared default provider and the factory used for
// caller credentials. A nil default is replaced by ai.Unavailable.
func NewSelector(def ai.Provider, factory Factory, log *zap.Logger) *Selector {
	if def == nil {
		def = ai.Unavailable{Reason: "no default provider configured"}
	}
	return &Selector{def: def, factory: factory, logger: logger.WithFields(log)}
}

// Default returns the shared provider.
func (s *Selector) Default() ai.Provider {
	return s.def
}

// Select returns a provider scoped to credential, or the default when the
// credential is empty or the scoped provider cannot be built. It never fails.
// Scoped providers are not cached.
func (s *Selector) Select(ctx context.Context, credential string) (p ai.Provider) {
	credential = strings.TrimSpace(credential)
	if credential == "" || s.factory == nil {
		return s.def
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("caller credential provider panicked, using default provider",
				zap.String("panic", fmt.Sprint(r)),
				zap.String(logger.FieldProvider, s.def.Name()),
			)
			p = s.def
		}
	}()

	scoped, err := s.factory(ctx, credential)
	if err != nil || scoped == nil {
		if err == nil {
			err = fmt.Errorf("factory returned no provider")
		}
		s.logger.Warn("initializing provider with caller credential failed, using default provider",
			zap.Error(err),
			zap.String(logger.FieldProvider, s.def.Name()),
		)
		return s.def
	}

	return scoped
}
