package interview

import (
	"sort"
	"strings"
)

// Category is a supported interview format.
type Category string

const (
	CategorySystemDesign    Category = "technical system design"
	CategoryProductSense    Category = "product sense"
	CategoryBehavioral      Category = "behavioral"
	CategoryAnalytical      Category = "analytical"
	CategoryMachineLearning Category = "machine learning"
	CategoryAlgorithms      Category = "data structures & algorithms"
)

type categoryInfo struct {
	domain string
	lens   string
}

var categories = map[Category]categoryInfo{
	CategorySystemDesign: {
		domain: "large-scale software systems",
		lens:   "architecture, data flow, scalability, reliability and operational trade-offs",
	},
	CategoryProductSense: {
		domain: "product strategy",
		lens:   "user segments, problem framing, prioritization, success metrics and launch risks",
	},
	CategoryBehavioral: {
		domain: "leading work through people and ambiguity",
		lens:   "ownership, conflict, influence without authority and learning from failure",
	},
	CategoryAnalytical: {
		domain: "data-driven decision making",
		lens:   "metric design, root-cause analysis, experiment design and estimation",
	},
	CategoryMachineLearning: {
		domain: "applied machine learning systems",
		lens:   "problem formulation, data quality, model choice, evaluation and serving constraints",
	},
	CategoryAlgorithms: {
		domain: "algorithmic problem solving",
		lens:   "problem decomposition, data structure choice, complexity and edge cases",
	},
}

// ParseCategory matches s against the supported categories, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	key := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categories[key]; !ok {
		return "", invalid("category", "unsupported category %q (supported: %s)", s, strings.Join(CategoryNames(), ", "))
	}
	return key, nil
}

// Domain is a short noun phrase for the problem space of the category.
func (c Category) Domain() string {
	return categories[c].domain
}

// Lens lists what interviewers in this category tend to probe.
func (c Category) Lens() string {
	return categories[c].lens
}

// CategoryNames returns the supported category labels in stable order.
func CategoryNames() []string {
	names := make([]string, 0, len(categories))
	for c := range categories {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}

// Level is a canonical seniority label.
type Level string

const (
	LevelEntry     Level = "entry-level"
	LevelMid       Level = "mid-level"
	LevelSenior    Level = "senior"
	LevelStaff     Level = "staff"
	LevelPrincipal Level = "principal"
	LevelManager   Level = "manager"
	LevelDirector  Level = "director"
)

var levelAliases = map[string]Level{
	"entry-level": LevelEntry,
	"entry":       LevelEntry,
	"junior":      LevelEntry,
	"new grad":    LevelEntry,
	"l3":          LevelEntry,
	"mid-level":   LevelMid,
	"mid":         LevelMid,
	"l4":          LevelMid,
	"senior":      LevelSenior,
	"l5":          LevelSenior,
	"staff":       LevelStaff,
	"l6":          LevelStaff,
	"principal":   LevelPrincipal,
	"l7":          LevelPrincipal,
	"l8":          LevelPrincipal,
	"manager":     LevelManager,
	"director":    LevelDirector,
}

var levelGuidance = map[Level]string{
	LevelEntry:     "Keep the problem well-bounded with clear constraints; reward sound fundamentals and structured reasoning.",
	LevelMid:       "Offer a moderately ambiguous problem owned by a single team; expect independent execution and awareness of trade-offs.",
	LevelSenior:    "Present a multi-faceted problem with competing constraints and incomplete information; expect the candidate to drive scope and justify trade-offs.",
	LevelStaff:     "Frame a cross-team problem with organizational and technical ambiguity; expect long-term thinking, influence, and risk management.",
	LevelPrincipal: "Frame an open, company-level problem where the right question is unclear; expect strategy, multi-year trade-offs, and industry context.",
	LevelManager:   "Blend the problem with people and delivery constraints; expect prioritization, team health, and stakeholder management.",
	LevelDirector:  "Frame an organization-wide problem spanning several teams and budgets; expect portfolio decisions and executive communication.",
}

// ParseLevel resolves a seniority label or ladder code (L3-L8) to a Level.
func ParseLevel(s string) (Level, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", "-")
	level, ok := levelAliases[key]
	if !ok {
		return "", invalid("level", "unknown seniority level %q", s)
	}
	return level, nil
}

// Guidance describes how ambiguous and broad a scenario should be for the level.
func (l Level) Guidance() string {
	return levelGuidance[l]
}

// LevelNames returns the canonical level labels from junior to senior.
func LevelNames() []string {
	return []string{
		string(LevelEntry), string(LevelMid), string(LevelSenior), string(LevelStaff),
		string(LevelPrincipal), string(LevelManager), string(LevelDirector),
	}
}
