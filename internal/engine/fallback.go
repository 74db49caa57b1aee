package engine

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/interviewai/case-coach/internal/interview"
)

// ClosingLine is returned once a case has run well past its ceiling.
const ClosingLine = "Thank you, that covers everything I wanted to explore in this case. Let's wrap up here."

type fallbackQuestion struct {
	// text is a format string taking the subject of the case.
	text   string
	rubric []string
}

var riskQuestions = []fallbackQuestion{
	{
		text: "Looking at your approach to %s, what is the biggest risk you see, and how would you detect it early and mitigate it?",
		rubric: []string{
			"Names a concrete, plausible risk rather than a generic one",
			"Describes an early signal or metric that would surface it",
			"Proposes a proportionate mitigation and its cost",
		},
	},
	{
		text: "Which trade-off in your plan for %s are you least comfortable with, and what would make you change that decision?",
		rubric: []string{
			"Identifies a real tension between competing goals",
			"Explains why the chosen side wins today",
			"States the evidence that would reverse the decision",
		},
	},
	{
		text: "Suppose a key constraint in %s doubled overnight. Which part of your approach breaks first, and what would you change?",
		rubric: []string{
			"Pinpoints the weakest assumption in the approach",
			"Reasons about second-order effects",
			"Prioritizes changes instead of rebuilding everything",
		},
	},
	{
		text: "Who would push back hardest on your proposal for %s, and how would you bring them along?",
		rubric: []string{
			"Anticipates a specific stakeholder and their concern",
			"Uses data or shared goals to build alignment",
			"Is willing to adjust the plan where the concern is valid",
		},
	},
}

var wrapUpQuestions = []fallbackQuestion{
	{
		text: "If you had two minutes to present your recommendation on %s to leadership, what would you say and what would you ask for?",
		rubric: []string{
			"Leads with a clear recommendation",
			"Summarizes the key trade-offs and risks concisely",
			"Makes a specific ask with expected impact",
		},
	},
	{
		text: "Looking back over this discussion of %s, what would you do differently with more time, and how would you measure success after launch?",
		rubric: []string{
			"Reflects honestly on gaps in the earlier answers",
			"Defines measurable success criteria",
			"Describes how results would feed back into the plan",
		},
	},
	{
		text: "What are the first three things you would do in the first month of owning %s, and why in that order?",
		rubric: []string{
			"Sequences work by risk and dependency",
			"Balances quick wins with foundational work",
			"Explains what each step unblocks",
		},
	},
}

// subject names what the case is about for fallback phrasing.
func subject(rc interview.Resolved) string {
	if focus := strings.TrimSpace(rc.Focus); focus != "" {
		return focus
	}
	if title := strings.TrimSpace(rc.JobTitle); title != "" {
		return "this " + title + " problem"
	}
	return rc.Category.Domain()
}

// fallbackFollowUp picks a deterministic follow-up that has not been asked
// yet: wrap-up questions at or past the ceiling, risk and trade-off questions
// before it.
func fallbackFollowUp(rc interview.Resolved, asked []string, turn, ceiling int) *interview.FollowUpTurn {
	final := turn >= ceiling
	table := riskQuestions
	if final {
		table = wrapUpQuestions
	}

	subj := subject(rc)
	for i := range table {
		candidate := table[(turn-1+i)%len(table)]
		text := fmt.Sprintf(candidate.text, subj)
		if repeats(text, asked) {
			continue
		}
		return &interview.FollowUpTurn{
			Question:                   text,
			IdealAnswerCharacteristics: append([]string(nil), candidate.rubric...),
			LikelyFinal:                final,
			Degraded:                   true,
		}
	}

	// Every table entry was already used in this session. These differ only
	// by number, so they are compared exactly.
	used := lo.Map(asked, func(q string, _ int) string { return normalizeQuestion(q) })
	for n := turn; ; n++ {
		text := fmt.Sprintf("Taking stock at follow-up %d: which assumption behind your approach to %s are you least sure of, and how would you test it?", n, subj)
		if !lo.Contains(used, normalizeQuestion(text)) {
			return &interview.FollowUpTurn{
				Question: text,
				IdealAnswerCharacteristics: []string{
					"Surfaces an assumption that materially affects the outcome",
					"Proposes a cheap, fast way to validate it",
				},
				LikelyFinal: final,
				Degraded:    true,
			}
		}
	}
}

// fallbackSetup builds a generic but complete case from the context alone.
func fallbackSetup(rc interview.Resolved) *interview.CaseSetup {
	subj := subject(rc)
	role := strings.TrimSpace(rc.JobTitle)
	if role == "" {
		role = string(rc.Level) + " candidate"
	}

	company := "your organization"
	if c := strings.TrimSpace(rc.TargetCompany); c != "" {
		company = c
	}

	title := fmt.Sprintf("%s case: %s", titleCase(string(rc.Category)), subj)

	scenario := strings.Join([]string{
		fmt.Sprintf("You have joined %s as a %s. Leadership has asked you to take ownership of %s. "+
			"Previous attempts stalled because requirements were unclear and teams disagreed on priorities.", company, role, subj),
		fmt.Sprintf("Expectations are rising, the available time and people are limited, and several stakeholders hold "+
			"conflicting views on what success looks like. You will need to reason about %s to move forward.", rc.Category.Lens()),
		"There is no single right answer. Walk through how you would frame the problem, what you would prioritize, " +
			"and which trade-offs you would accept.",
	}, "\n\n")

	firstQuestion := fmt.Sprintf("Describe a significant challenge you would expect in %s, and how you would approach it in your first steps.", subj)

	notes := strings.Join([]string{
		"Themes: " + rc.Category.Lens() + ".",
		"Tensions: speed versus quality, competing stakeholder goals, limited resources.",
		"Calibration: " + rc.Level.Guidance(),
		"Probe: assumptions behind the first plan, risks and their detection, how success is measured.",
	}, "\n")

	return &interview.CaseSetup{
		Title:         title,
		Scenario:      scenario,
		FirstQuestion: firstQuestion,
		IdealAnswerCharacteristics: []string{
			"Clarifies goals and constraints before proposing a solution",
			"Structures the approach and prioritizes explicitly",
			"Names trade-offs and how they would be validated",
		},
		InternalNotes: notes,
		Degraded:      true,
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "&" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
