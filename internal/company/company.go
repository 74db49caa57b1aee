// Package company supplies company-specific reference material for prompts.
package company

import (
	"fmt"
	"strings"
)

type profile struct {
	name       string
	heading    string
	principles []string
}

var amazon = profile{
	name:    "Amazon",
	heading: "Amazon Leadership Principles",
	principles: []string{
		"Customer Obsession",
		"Ownership",
		"Invent and Simplify",
		"Are Right, A Lot",
		"Learn and Be Curious",
		"Hire and Develop the Best",
		"Insist on the Highest Standards",
		"Think Big",
		"Bias for Action",
		"Frugality",
		"Earn Trust",
		"Dive Deep",
		"Have Backbone; Disagree and Commit",
		"Deliver Results",
		"Strive to be Earth's Best Employer",
		"Success and Scale Bring Broad Responsibility",
	},
}

var known = map[string]profile{
	"amazon": amazon,
}

// Inject returns the reference block for name, or "" when the company has no
// curated content. Matching ignores case and surrounding whitespace.
func Inject(name string) string {
	p, ok := known[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (weave the most relevant of these into the framing):\n", p.heading)
	for i, principle := range p.principles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, principle)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Known reports whether name has curated content.
func Known(name string) bool {
	_, ok := known[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
