package engine

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/utils"
)

// check validates or normalizes a decoded provider payload in place.
type check[T any] struct {
	name  string
	apply func(*T) error
}

func runChecks[T any](log *zap.Logger, checks []check[T], v *T) error {
	for _, c := range checks {
		if err := c.apply(v); err != nil {
			log.Debug("output check failed", zap.String("check", c.name), zap.Error(err))
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}

func required(fields map[string]string) error {
	missing := lo.Filter(lo.Keys(fields), func(name string, _ int) bool {
		return strings.TrimSpace(fields[name]) == ""
	})
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s", errMissingField, strings.Join(missing, ", "))
}

// normalizeRubric trims, dedupes and caps rubric bullets.
func normalizeRubric(items []string) []string {
	cleaned := lo.FilterMap(items, func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(item), "-*•"))
		return utils.CollapseSpace(item), item != ""
	})
	cleaned = lo.Uniq(cleaned)
	if len(cleaned) > maxRubricBullets {
		cleaned = cleaned[:maxRubricBullets]
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

// normalizeQuestion folds case, whitespace and trailing punctuation so that
// trivially different renderings of a question compare equal.
func normalizeQuestion(q string) string {
	q = strings.ToLower(utils.CollapseSpace(q))
	return strings.TrimRight(q, " ?.!")
}

// fillerWords carry no meaning for repeat detection. Question words are kept:
// "why" and "how" ask different things.
var fillerWords = lo.SliceToMap(strings.Fields(`a an the and or but of to in on at for with by from as
	is are was were be been being do does did would could should can will may might
	you your we our us i me my it its this that these those there their they them
	so then just please also really here now`), func(w string) (string, struct{}) {
	return w, struct{}{}
})

// contentWords returns the sorted, de-duplicated meaningful words of q with
// simple plurals folded.
func contentWords(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := lo.FilterMap(fields, func(w string, _ int) (string, bool) {
		if _, filler := fillerWords[w]; filler {
			return "", false
		}
		if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
			w = w[:len(w)-1]
		}
		return w, true
	})
	words = lo.Uniq(words)
	slices.Sort(words)
	return words
}

// sameWord tolerates a single typo in long words only, so that short words
// such as "reads" and "writes" stay distinct.
func sameWord(a, b string) bool {
	if a == b {
		return true
	}
	return min(len(a), len(b)) >= 8 && fuzzy.LevenshteinDistance(a, b) <= 1
}

// repeats reports whether q asks the same thing as any of asked: equal after
// normalization, or with identical content words once case, punctuation,
// filler words and plurals are ignored.
func repeats(q string, asked []string) bool {
	nq := normalizeQuestion(q)
	if nq == "" {
		return false
	}
	words := contentWords(q)

	for _, a := range asked {
		na := normalizeQuestion(a)
		if na == "" {
			continue
		}
		if na == nq {
			return true
		}

		other := contentWords(a)
		if len(words) == 0 || len(words) != len(other) {
			continue
		}
		same := true
		for i := range words {
			if !sameWord(words[i], other[i]) {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}
