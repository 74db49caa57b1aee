package session

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/interviewai/case-coach/internal/interview"
)

func startedRecord() *Record {
	r := New(interview.Context{
		Category:   "behavioral",
		Level:      "senior",
		Transcript: []interview.QA{{Question: "ignored", Answer: "ignored"}},
	})
	r.Start(&interview.CaseSetup{
		Title:         "Team conflict",
		Scenario:      "p1\n\np2",
		FirstQuestion: "How would you approach the first week?",
		InternalNotes: "notes",
	})
	return r
}

func TestRecordLifecycle(t *testing.T) {
	r := startedRecord()

	if len(r.Context.Transcript) != 0 {
		t.Fatalf("expected caller transcript to be reset")
	}

	if _, err := r.NextRequest(); !errors.Is(err, ErrAwaitAnswer) {
		t.Fatalf("expected ErrAwaitAnswer before answering, got %v", err)
	}

	if err := r.Answer("  Listen to both sides.  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, err := r.NextRequest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Turn != 1 || req.LastQuestion != "How would you approach the first week?" || req.LastAnswer != "Listen to both sides." {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.Notes != "notes" || len(req.Transcript) != 1 {
		t.Fatalf("unexpected request notes or transcript %+v", req)
	}

	r.Apply(&interview.FollowUpTurn{Question: "What if they escalate?", LikelyFinal: true})
	if r.Done() {
		t.Fatalf("final question not answered yet")
	}

	if err := r.Answer("I'd mediate."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Done() {
		t.Fatalf("expected session to be done")
	}
	if _, err := r.NextRequest(); !errors.Is(err, ErrConcluded) {
		t.Fatalf("expected ErrConcluded, got %v", err)
	}
	if err := r.Answer("more"); !errors.Is(err, ErrConcluded) {
		t.Fatalf("expected ErrConcluded on extra answer, got %v", err)
	}
}

func TestNextRequestRequiresSetup(t *testing.T) {
	r := New(interview.Context{Category: "behavioral", Level: "senior"})
	if _, err := r.NextRequest(); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}
	if err := r.Answer("x"); !errors.Is(err, ErrNoPending) {
		t.Fatalf("expected ErrNoPending, got %v", err)
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	r := startedRecord()
	if err := r.Answer("answer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, r.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Setup == nil || loaded.Setup.Scenario != "p1\n\np2" {
		t.Fatalf("unexpected setup %+v", loaded.Setup)
	}
	if len(loaded.Transcript) != 1 || loaded.Transcript[0].Answer != "answer" {
		t.Fatalf("unexpected transcript %+v", loaded.Transcript)
	}
	if !loaded.CreatedAt.Equal(r.CreatedAt) {
		t.Fatalf("expected timestamps to survive, got %v want %v", loaded.CreatedAt, r.CreatedAt)
	}

	if _, err := store.Load(ctx, "00000000-0000-0000-0000-000000000001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Load(ctx, "../../etc/passwd"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CASE_COACH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CASE_COACH_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer store.Close()

	r := startedRecord()
	if err := store.Save(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	r.Answer("answer")
	if err := store.Save(ctx, r); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	loaded, err := store.Load(ctx, r.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Transcript) != 1 {
		t.Fatalf("expected upserted transcript, got %+v", loaded.Transcript)
	}
}
