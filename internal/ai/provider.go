// Package ai defines the generation provider contract shared by every backend.
package ai

import (
	"context"
	"errors"

	"github.com/invopop/jsonschema"
)

var (
	// ErrEmptyResponse is returned when a backend answers without usable text.
	ErrEmptyResponse = errors.New("provider returned empty response")
	// ErrProviderUnavailable is returned by the Unavailable provider.
	ErrProviderUnavailable = errors.New("generation provider is unavailable")
)

// Request is a single structured generation call.
type Request struct {
	// System carries the instructions, Prompt the per-call content.
	System string
	Prompt string

	// Schema describes the JSON object the provider must return.
	Schema            *jsonschema.Schema
	SchemaName        string
	SchemaDescription string

	Temperature float64
}

// Provider turns a Request into a raw JSON document.
type Provider interface {
	Generate(ctx context.Context, req *Request) (string, error)
	Name() string
	Model() string
}

// Unavailable is a Provider that always fails. It stands in when no backend
// could be configured so that callers still reach their fallback path.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Generate(context.Context, *Request) (string, error) {
	if u.Reason == "" {
		return "", ErrProviderUnavailable
	}
	return "", errors.Join(ErrProviderUnavailable, errors.New(u.Reason))
}

func (Unavailable) Name() string  { return "unavailable" }
func (Unavailable) Model() string { return "" }
