// Package persona maps interviewer persona tags to style directives.
package persona

import "strings"

// Tag identifies an interviewer persona.
type Tag string

const (
	Neutral               Tag = "neutral"
	CollaborativePeer     Tag = "collaborative-peer"
	SkepticalEvaluator    Tag = "skeptical-evaluator"
	TimePressured         Tag = "time-pressured"
	AdversarialChallenger Tag = "adversarial-challenger"
	DisengagedStakeholder Tag = "disengaged-stakeholder"
)

// Persona pairs a tag with its display label and directive.
type Persona struct {
	Tag       Tag
	Label     string
	Directive string
}

var personas = []Persona{
	{
		Tag:       Neutral,
		Label:     "Neutral interviewer",
		Directive: "Adopt a professional, even tone. Ask clear, direct questions without signalling approval or disapproval.",
	},
	{
		Tag:       CollaborativePeer,
		Label:     "Collaborative peer",
		Directive: "Speak like a friendly teammate working the problem together. Build on the candidate's ideas and invite them to think out loud.",
	},
	{
		Tag:       SkepticalEvaluator,
		Label:     "Skeptical evaluator",
		Directive: "Question assumptions and ask for evidence. Press on claims that lack numbers, examples, or justification.",
	},
	{
		Tag:       TimePressured,
		Label:     "Time-pressured interviewer",
		Directive: "Keep questions short and pointed. Signal limited time and push the candidate to prioritize and commit to a decision.",
	},
	{
		Tag:       AdversarialChallenger,
		Label:     "Adversarial challenger",
		Directive: "Challenge the candidate's choices directly and introduce counter-arguments or failure scenarios, while staying respectful.",
	},
	{
		Tag:       DisengagedStakeholder,
		Label:     "Disengaged stakeholder",
		Directive: "Act as a busy stakeholder with little context. Ask the candidate to explain why this matters and to make the case concisely.",
	},
}

var byTag = func() map[Tag]Persona {
	m := make(map[Tag]Persona, len(personas))
	for _, p := range personas {
		m[p.Tag] = p
	}
	return m
}()

// Lookup resolves a tag, ignoring case and treating spaces and underscores as
// hyphens. Unknown or empty tags resolve to Neutral.
func Lookup(tag string) Persona {
	key := strings.ToLower(strings.TrimSpace(tag))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	if p, ok := byTag[Tag(key)]; ok {
		return p
	}
	return byTag[Neutral]
}

// DirectiveFor returns the style directive for tag.
func DirectiveFor(tag string) string {
	return Lookup(tag).Directive
}

// All returns every persona in display order.
func All() []Persona {
	out := make([]Persona, len(personas))
	copy(out, personas)
	return out
}
