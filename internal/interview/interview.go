package interview

import "strings"

// QA is one asked question and the candidate's answer to it.
type QA struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Context is the per-session configuration supplied by the caller. The engine
// only reads it.
type Context struct {
	Category       string `json:"category" yaml:"category"`
	Level          string `json:"level" yaml:"level"`
	JobTitle       string `json:"jobTitle,omitempty" yaml:"job_title,omitempty"`
	JobDescription string `json:"jobDescription,omitempty" yaml:"job_description,omitempty"`
	ResumeText     string `json:"resumeText,omitempty" yaml:"resume_text,omitempty"`
	Focus          string `json:"focus,omitempty" yaml:"focus,omitempty"`
	TargetCompany  string `json:"targetCompany,omitempty" yaml:"target_company,omitempty"`
	Persona        string `json:"persona,omitempty" yaml:"persona,omitempty"`
	Transcript     []QA   `json:"transcript,omitempty" yaml:"transcript,omitempty"`
}

// Resolved is a validated Context with canonical category and level.
type Resolved struct {
	Context
	Category Category
	Level    Level
}

// Resolve validates c and returns its canonical form. The returned error is
// always an *InputError.
func (c Context) Resolve() (Resolved, error) {
	category, err := ParseCategory(c.Category)
	if err != nil {
		return Resolved{}, err
	}

	level, err := ParseLevel(c.Level)
	if err != nil {
		return Resolved{}, err
	}

	for i, qa := range c.Transcript {
		if strings.TrimSpace(qa.Question) == "" {
			return Resolved{}, invalid("transcript", "entry %d has an empty question", i)
		}
	}

	return Resolved{Context: c, Category: category, Level: level}, nil
}

// Questions returns every question in the transcript in order.
func (c Context) Questions() []string {
	out := make([]string, 0, len(c.Transcript))
	for _, qa := range c.Transcript {
		out = append(out, qa.Question)
	}
	return out
}

// CaseSetup opens an interview. InternalNotes must never reach the candidate.
type CaseSetup struct {
	Title                      string   `json:"title" yaml:"title"`
	Scenario                   string   `json:"scenario" yaml:"scenario"`
	FirstQuestion              string   `json:"firstQuestion" yaml:"first_question"`
	IdealAnswerCharacteristics []string `json:"idealAnswerCharacteristics,omitempty" yaml:"ideal_answer_characteristics,omitempty"`
	InternalNotes              string   `json:"internalNotes" yaml:"internal_notes"`
	// Degraded is set when the setup was synthesized without the provider.
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// FollowUpTurn is the next question for the candidate.
type FollowUpTurn struct {
	Question                   string   `json:"question" yaml:"question"`
	IdealAnswerCharacteristics []string `json:"idealAnswerCharacteristics,omitempty" yaml:"ideal_answer_characteristics,omitempty"`
	LikelyFinal                bool     `json:"likelyFinal" yaml:"likely_final"`
	Degraded                   bool     `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}
