package engine

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    followUpPayload
		wantErr bool
	}{
		{
			name: "canonical",
			raw:  `{"question":"q?","idealAnswerCharacteristics":["a","b"],"likelyFinal":true}`,
			want: followUpPayload{Question: "q?", IdealAnswerCharacteristics: []string{"a", "b"}, LikelyFinal: true},
		},
		{
			name: "snake case and string bool",
			raw:  `{"Question":"q?","ideal_answer_characteristics":["a"],"likely_final":"false"}`,
			want: followUpPayload{Question: "q?", IdealAnswerCharacteristics: []string{"a"}},
		},
		{
			name: "aliases",
			raw:  `{"nextQuestion":"q?","rubric":["a"],"isFinal":"no"}`,
			want: followUpPayload{Question: "q?", IdealAnswerCharacteristics: []string{"a"}},
		},
		{name: "not json", raw: "sorry", wantErr: true},
		{name: "array root", raw: `["q?"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := decode[followUpPayload](tt.raw)
			if tt.wantErr {
				if !errors.Is(err, errMalformed) {
					t.Fatalf("expected errMalformed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Question != tt.want.Question || got.LikelyFinal != tt.want.LikelyFinal || len(got.IdealAnswerCharacteristics) != len(tt.want.IdealAnswerCharacteristics) {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDecodeCanonicalKeyWinsOverAlias(t *testing.T) {
	t.Parallel()

	raw := `{"question":"q?","rubric":["Uses numbers"],"idealAnswerCharacteristics":["Names a budget"],"final":true,"likelyFinal":false,"notes":"alias only"}`

	// Map iteration order varies per call, so decode repeatedly.
	for i := 0; i < 100; i++ {
		got, err := decode[followUpPayload](raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.IdealAnswerCharacteristics) != 1 || got.IdealAnswerCharacteristics[0] != "Names a budget" {
			t.Fatalf("run %d: expected canonical rubric, got %v", i, got.IdealAnswerCharacteristics)
		}
		if got.LikelyFinal {
			t.Fatalf("run %d: expected canonical likelyFinal=false", i)
		}
	}
}

func TestFoldKeysFillsFromAliasWhenCanonicalMissing(t *testing.T) {
	t.Parallel()

	got := foldKeys(map[string]any{"notes": "from alias", "internalNotes": nil, "next_question": "q?"})

	if got["internalnotes"] != "from alias" {
		t.Fatalf("expected alias to fill nil canonical, got %v", got["internalnotes"])
	}
	if got["question"] != "q?" {
		t.Fatalf("expected alias to fill missing canonical, got %v", got["question"])
	}
}
