package engine

import (
	"context"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/interviewai/case-coach/internal/ai"
	"github.com/interviewai/case-coach/internal/company"
	"github.com/interviewai/case-coach/internal/interview"
	"github.com/interviewai/case-coach/internal/logger"
	"github.com/interviewai/case-coach/internal/persona"
	"github.com/interviewai/case-coach/internal/prompts"
	"github.com/interviewai/case-coach/internal/utils"
)

const opCaseSetup = "case_setup"

type caseSetupPayload struct {
	Title                      string   `json:"title" jsonschema_description:"Short title naming the case"`
	Scenario                   string   `json:"scenario" jsonschema_description:"Multi-paragraph narrative describing the problem, its context and constraints"`
	FirstQuestion              string   `json:"firstQuestion" jsonschema_description:"Opening question specific to this scenario"`
	IdealAnswerCharacteristics []string `json:"idealAnswerCharacteristics" jsonschema_description:"Two to four qualities of a strong answer to the first question"`
	InternalNotes              string   `json:"internalNotes" jsonschema_description:"Interviewer-only notes: themes, tensions, trade-offs and probing directions"`
}

var caseSetupSchema = ai.SchemaFor[caseSetupPayload]()

// BeginCase opens an interview. Only invalid input is reported as an error;
// any generation failure yields a degraded but complete CaseSetup.
func (e *Engine) BeginCase(ctx context.Context, ic interview.Context, opts ...CallOption) (*interview.CaseSetup, error) {
	rc, err := ic.Resolve()
	if err != nil {
		return nil, err
	}

	o := collect(opts)
	p := e.selector.Select(ctx, o.credential)
	log := logger.WithFields(e.logger, logger.InterviewFields(opCaseSetup, string(rc.Category), string(rc.Level), string(persona.Lookup(rc.Persona).Tag), 0)...)
	log = logger.WithProvider(log, p.Name(), p.Model())

	data := e.caseSetupData(rc)

	payload, err := guard(ctx, e, p, generation[caseSetupPayload]{
		operation: opCaseSetup,
		timeout:   e.cfg.SetupTimeout,
		request: func() (*ai.Request, error) {
			return e.request(prompts.CaseSetupSystem, prompts.CaseSetup, data, caseSetupSchema, "submit_case_setup",
				"Submit the opening of the case study.")
		},
		checks: []check[caseSetupPayload]{
			{name: "required_fields", apply: func(p *caseSetupPayload) error {
				p.Title = strings.TrimSpace(p.Title)
				p.Scenario = strings.TrimSpace(p.Scenario)
				p.FirstQuestion = strings.TrimSpace(p.FirstQuestion)
				p.InternalNotes = strings.TrimSpace(p.InternalNotes)
				return required(map[string]string{
					"title":         p.Title,
					"scenario":      p.Scenario,
					"firstQuestion": p.FirstQuestion,
					"internalNotes": p.InternalNotes,
				})
			}},
			{name: "rubric", apply: func(p *caseSetupPayload) error {
				p.IdealAnswerCharacteristics = normalizeRubric(p.IdealAnswerCharacteristics)
				return nil
			}},
		},
	}, log)
	if err != nil {
		logFallback(log, err)
		return fallbackSetup(rc), nil
	}

	log.Info("case setup generated")

	return &interview.CaseSetup{
		Title:                      payload.Title,
		Scenario:                   payload.Scenario,
		FirstQuestion:              payload.FirstQuestion,
		IdealAnswerCharacteristics: payload.IdealAnswerCharacteristics,
		InternalNotes:              payload.InternalNotes,
	}, nil
}

func (e *Engine) caseSetupData(rc interview.Resolved) prompts.CaseSetupData {
	return prompts.CaseSetupData{
		Category:         string(rc.Category),
		CategoryLens:     rc.Category.Lens(),
		Level:            string(rc.Level),
		LevelGuidance:    rc.Level.Guidance(),
		JobTitle:         strings.TrimSpace(rc.JobTitle),
		JobDescription:   utils.TruncateForLog(rc.JobDescription, e.cfg.MaxContextLength),
		ResumeText:       utils.TruncateForLog(rc.ResumeText, e.cfg.MaxContextLength),
		Focus:            strings.TrimSpace(rc.Focus),
		TargetCompany:    strings.TrimSpace(rc.TargetCompany),
		PersonaDirective: persona.DirectiveFor(rc.Persona),
		CompanyContent:   company.Inject(rc.TargetCompany),
	}
}

func (e *Engine) request(systemTmpl, promptTmpl string, data any, schema *jsonschema.Schema, name, description string) (*ai.Request, error) {
	system, err := e.renderer.Render(systemTmpl, data)
	if err != nil {
		return nil, err
	}
	prompt, err := e.renderer.Render(promptTmpl, data)
	if err != nil {
		return nil, err
	}

	req := &ai.Request{
		System:            system,
		Prompt:            prompt,
		SchemaName:        name,
		SchemaDescription: description,
		Schema:            schema,
		Temperature:       e.cfg.Temperature,
	}
	return req, nil
}
