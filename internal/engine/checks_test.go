package engine

import (
	"errors"
	"testing"

	"github.com/interviewai/case-coach/internal/interview"
)

func TestRepeats(t *testing.T) {
	t.Parallel()

	asked := []string{
		"How would you shard the user table?",
		"What metrics would you track after launch?",
		"How would you handle a 10x spike in reads?",
		"Walk me through your infrastructure budget.",
	}

	tests := []struct {
		question string
		expect   bool
	}{
		{question: "How would you shard the user table?", expect: true},
		{question: "  how would you SHARD the user   table ", expect: true},
		{question: "How would you shard the users table?", expect: true},
		{question: "How would you cache the user table?", expect: false},
		{question: "What metrics should we track after the launch?", expect: true},
		{question: "How would you handle a 10x spike in writes?", expect: false},
		{question: "How would you shard the orders table?", expect: false},
		{question: "Why would you shard the user table?", expect: false},
		{question: "Walk me through your infrastucture budget", expect: true},
		{question: "Why?", expect: false},
		{question: "", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			t.Parallel()
			if got := repeats(tt.question, asked); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestNormalizeRubric(t *testing.T) {
	t.Parallel()

	got := normalizeRubric([]string{" - First ", "* Second", "First", "", "   ", "•  Third", "Fourth", "Fifth"})
	want := []string{"First", "Second", "Third", "Fourth"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if normalizeRubric([]string{" ", "-"}) != nil {
		t.Fatalf("expected nil for empty rubric")
	}
}

func TestRequired(t *testing.T) {
	t.Parallel()

	err := required(map[string]string{"title": "x", "scenario": " ", "notes": ""})
	if !errors.Is(err, errMissingField) {
		t.Fatalf("expected errMissingField, got %v", err)
	}
	if err.Error() != "required field missing: notes, scenario" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if err := required(map[string]string{"title": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFallbackFollowUpSkipsAskedQuestions(t *testing.T) {
	t.Parallel()

	rc, err := interview.Context{Category: "product sense", Level: "senior", Focus: "a grocery delivery app"}.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := fallbackFollowUp(rc, nil, 1, 4)
	second := fallbackFollowUp(rc, []string{first.Question}, 1, 4)

	if first.Question == second.Question {
		t.Fatalf("expected a different question once the first was asked")
	}
	if first.LikelyFinal || second.LikelyFinal {
		t.Fatalf("expected non-final fallbacks below the ceiling")
	}

	wrap := fallbackFollowUp(rc, nil, 4, 4)
	if !wrap.LikelyFinal {
		t.Fatalf("expected final fallback at the ceiling")
	}
}
