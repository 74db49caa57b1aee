package engine

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/interviewai/case-coach/internal/ai"
)

var keyFolder = strings.NewReplacer("_", "", "-", "", " ", "")

// fieldAliases maps folded keys models sometimes use to the canonical ones.
var fieldAliases = map[string]string{
	"rubric":          "idealanswercharacteristics",
	"idealanswer":     "idealanswercharacteristics",
	"notes":           "internalnotes",
	"nextquestion":    "question",
	"openingquestion": "firstquestion",
	"isfinal":         "likelyfinal",
	"final":           "likelyfinal",
}

// decode parses a provider answer into T. Keys are matched ignoring case,
// underscores and hyphens, and scalar types are coerced where unambiguous.
func decode[T any](raw string) (T, error) {
	var out T

	var data map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(raw)), &data); err != nil {
		return out, fmt.Errorf("%w: %v", errMalformed, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncType(coerce),
	})
	if err != nil {
		return out, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(foldKeys(data)); err != nil {
		return out, fmt.Errorf("%w: %v", errMalformed, err)
	}

	return out, nil
}

// foldKeys normalizes key spelling. Keys are visited in sorted order and a
// canonical key always wins over an alias of it, so the result does not
// depend on map iteration order.
func foldKeys(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	aliased := make(map[string]any)

	for _, k := range slices.Sorted(maps.Keys(data)) {
		v := data[k]
		key := strings.ToLower(keyFolder.Replace(k))
		if alias, ok := fieldAliases[key]; ok {
			if _, seen := aliased[alias]; !seen || aliased[alias] == nil {
				aliased[alias] = v
			}
			continue
		}
		if prev, exists := out[key]; exists && (v == nil || prev != nil) {
			continue
		}
		out[key] = v
	}

	for key, v := range aliased {
		if prev, exists := out[key]; !exists || prev == nil {
			out[key] = v
		}
	}
	return out
}

// coerce turns structured values into text where a string is expected and
// accepts yes/no for booleans.
func coerce(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.String:
		switch v := data.(type) {
		case []any:
			lines := lo.FilterMap(v, func(item any, _ int) (string, bool) {
				s := strings.TrimSpace(fmt.Sprint(item))
				return "- " + s, s != ""
			})
			return strings.Join(lines, "\n"), nil
		case map[string]any:
			b, err := json.Marshal(v)
			if err != nil {
				return data, nil
			}
			return string(b), nil
		}
	case reflect.Bool:
		if s, ok := data.(string); ok {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "yes", "y":
				return true, nil
			case "no", "n", "":
				return false, nil
			}
		}
	}
	return data, nil
}
