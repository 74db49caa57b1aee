package prompts

import "github.com/interviewai/case-coach/internal/interview"

// CaseSetupData feeds the case setup templates.
type CaseSetupData struct {
	Category       string
	CategoryLens   string
	Level          string
	LevelGuidance  string
	JobTitle       string
	JobDescription string
	ResumeText     string
	Focus          string
	TargetCompany  string

	PersonaDirective string
	CompanyContent   string
}

// FollowUpData feeds the follow-up templates.
type FollowUpData struct {
	Category      string
	Level         string
	Focus         string
	TargetCompany string

	PersonaDirective string
	CompanyContent   string

	Notes        string
	Transcript   []interview.QA
	LastQuestion string
	LastAnswer   string
	Turn         int
	Ceiling      int
	AtCeiling    bool
}
