package ai

import (
	"context"
	"errors"
	"slices"
	"testing"
)

type sampleTurn struct {
	Question    string   `json:"question" jsonschema_description:"The next question"`
	Bullets     []string `json:"bullets,omitempty"`
	LikelyFinal bool     `json:"likelyFinal"`
}

func TestSchemaFor(t *testing.T) {
	t.Parallel()

	schema := SchemaFor[sampleTurn]()

	if schema.Type != "object" {
		t.Fatalf("expected object schema, got %q", schema.Type)
	}
	if schema.Version != "" || schema.ID != "" {
		t.Fatalf("expected version and id to be cleared")
	}

	question, ok := schema.Properties.Get("question")
	if !ok || question.Type != "string" || question.Description != "The next question" {
		t.Fatalf("unexpected question property: %+v", question)
	}

	bullets, ok := schema.Properties.Get("bullets")
	if !ok || bullets.Type != "array" || bullets.Items == nil || bullets.Items.Type != "string" {
		t.Fatalf("unexpected bullets property: %+v", bullets)
	}

	if !slices.Contains(schema.Required, "question") || !slices.Contains(schema.Required, "likelyFinal") {
		t.Fatalf("expected required fields, got %v", schema.Required)
	}
	if slices.Contains(schema.Required, "bullets") {
		t.Fatalf("omitempty field must not be required")
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", input: "Sure! Here it is: {\"a\":{\"b\":2}} Hope it helps.", want: `{"a":{"b":2}}`},
		{name: "no object", input: "  nothing here ", want: "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractJSON(tt.input); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUnavailable(t *testing.T) {
	t.Parallel()

	_, err := Unavailable{}.Generate(context.Background(), &Request{})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}

	_, err = Unavailable{Reason: "no key"}.Generate(context.Background(), &Request{})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected wrapped ErrProviderUnavailable, got %v", err)
	}
}
