// Package session persists interview progress for callers of the engine.
// The engine itself is stateless; these records are how the CLI and HTTP
// surfaces resume a case between turns.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/interviewai/case-coach/internal/engine"
	"github.com/interviewai/case-coach/internal/interview"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrNoPending   = errors.New("session has no pending question")
	ErrConcluded   = errors.New("session is concluded")
	ErrAwaitAnswer = errors.New("session is waiting for an answer")
	ErrInvalidID   = errors.New("invalid session id")
	ErrNotStarted  = errors.New("session has no case setup")
	errNilRecord   = errors.New("record is required")
)

// Store saves and loads session records.
type Store interface {
	Save(ctx context.Context, r *Record) error
	Load(ctx context.Context, id string) (*Record, error)
}

// Record is one interview as seen by the caller.
type Record struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`

	Context interview.Context    `json:"context" yaml:"context"`
	Setup   *interview.CaseSetup `json:"setup,omitempty" yaml:"setup,omitempty"`

	Transcript []interview.QA `json:"transcript,omitempty" yaml:"transcript,omitempty"`
	// Pending is the question asked but not yet answered.
	Pending string `json:"pending,omitempty" yaml:"pending,omitempty"`
	// Turn counts follow-ups generated so far.
	Turn int `json:"turn" yaml:"turn"`
	// Final is set once the pending question is the last one of the case.
	Final bool `json:"final" yaml:"final"`
}

// New creates a record for ic with a fresh id.
func New(ic interview.Context) *Record {
	now := time.Now().UTC()
	ic.Transcript = nil
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Context:   ic,
	}
}

// Start stores the case setup and asks its first question.
func (r *Record) Start(setup *interview.CaseSetup) {
	r.Setup = setup
	r.Pending = setup.FirstQuestion
	r.touch()
}

// Answer records the candidate's answer to the pending question.
func (r *Record) Answer(answer string) error {
	if r.Pending == "" {
		if r.Done() {
			return ErrConcluded
		}
		return ErrNoPending
	}
	r.Transcript = append(r.Transcript, interview.QA{Question: r.Pending, Answer: strings.TrimSpace(answer)})
	r.Pending = ""
	r.touch()
	return nil
}

// NextRequest builds the engine request for the next follow-up.
func (r *Record) NextRequest() (engine.FollowUpRequest, error) {
	switch {
	case r.Setup == nil:
		return engine.FollowUpRequest{}, ErrNotStarted
	case r.Done():
		return engine.FollowUpRequest{}, ErrConcluded
	case r.Pending != "" || len(r.Transcript) == 0:
		return engine.FollowUpRequest{}, ErrAwaitAnswer
	}

	last := r.Transcript[len(r.Transcript)-1]
	return engine.FollowUpRequest{
		Notes:        r.Setup.InternalNotes,
		Transcript:   append([]interview.QA(nil), r.Transcript...),
		LastQuestion: last.Question,
		LastAnswer:   last.Answer,
		Context:      r.Context,
		Turn:         r.Turn + 1,
	}, nil
}

// Apply asks the follow-up produced by the engine.
func (r *Record) Apply(turn *interview.FollowUpTurn) {
	r.Turn++
	r.Pending = turn.Question
	r.Final = turn.LikelyFinal
	r.touch()
}

// Done reports whether the final question has been answered.
func (r *Record) Done() bool {
	return r.Final && r.Pending == ""
}

func (r *Record) touch() {
	r.UpdatedAt = time.Now().UTC()
}

func validID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return parsed.String(), nil
}
