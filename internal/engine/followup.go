package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/ai"
	"github.com/interviewai/case-coach/internal/company"
	"github.com/interviewai/case-coach/internal/interview"
	"github.com/interviewai/case-coach/internal/logger"
	"github.com/interviewai/case-coach/internal/persona"
	"github.com/interviewai/case-coach/internal/prompts"
)

const opFollowUp = "follow_up"

// FollowUpRequest carries everything needed to produce the next question.
type FollowUpRequest struct {
	// Notes are the internal notes from the case setup.
	Notes string `json:"notes"`
	// Transcript holds prior exchanges in order. When nil, Context.Transcript
	// is used.
	Transcript   []interview.QA    `json:"transcript,omitempty"`
	LastQuestion string            `json:"lastQuestion"`
	LastAnswer   string            `json:"lastAnswer"`
	Context      interview.Context `json:"context"`
	// Turn counts follow-ups generated so far, starting at 1.
	Turn int `json:"turn"`
}

type followUpPayload struct {
	Question                   string   `json:"question" jsonschema_description:"Exactly one new open-ended question"`
	IdealAnswerCharacteristics []string `json:"idealAnswerCharacteristics" jsonschema_description:"Two to four qualities of a strong answer to the question"`
	LikelyFinal                bool     `json:"likelyFinal" jsonschema_description:"True when the case has reached a natural stopping point"`
}

var followUpSchema = ai.SchemaFor[followUpPayload]()

// NextFollowUp produces the follow-up for req.Turn. At or past the ceiling the
// turn is always marked final. Far past it, a fixed closing line is returned
// without contacting the provider. Only invalid input is reported as an error.
func (e *Engine) NextFollowUp(ctx context.Context, req FollowUpRequest, opts ...CallOption) (*interview.FollowUpTurn, error) {
	if req.Turn <= 0 {
		return nil, &interview.InputError{Field: "turn", Reason: fmt.Sprintf("must be at least 1, got %d", req.Turn)}
	}

	ic := req.Context
	if req.Transcript != nil {
		ic.Transcript = req.Transcript
	}
	rc, err := ic.Resolve()
	if err != nil {
		return nil, err
	}

	ceiling := e.cfg.Ceiling
	log := logger.WithFields(e.logger, logger.InterviewFields(opFollowUp, string(rc.Category), string(rc.Level), string(persona.Lookup(rc.Persona).Tag), req.Turn)...)

	// The closing line is terminal and is returned even when the transcript
	// already holds it; it is exempt from the no-repeat check.
	if req.Turn > ceiling+2 {
		log.Info("turn far past ceiling, closing the case", zap.Int("ceiling", ceiling))
		return &interview.FollowUpTurn{Question: ClosingLine, LikelyFinal: true}, nil
	}

	lastQuestion := strings.TrimSpace(req.LastQuestion)
	history := rc.Transcript
	if n := len(history); n > 0 {
		last := history[n-1]
		if lastQuestion == "" {
			lastQuestion = strings.TrimSpace(last.Question)
		}
		if normalizeQuestion(last.Question) == normalizeQuestion(lastQuestion) {
			history = history[:n-1]
		}
	}

	asked := lo.Uniq(append(rc.Questions(), lastQuestion))
	asked = lo.Filter(asked, func(q string, _ int) bool { return strings.TrimSpace(q) != "" })

	o := collect(opts)
	p := e.selector.Select(ctx, o.credential)
	log = logger.WithProvider(log, p.Name(), p.Model())

	data := prompts.FollowUpData{
		Category:         string(rc.Category),
		Level:            string(rc.Level),
		Focus:            strings.TrimSpace(rc.Focus),
		TargetCompany:    strings.TrimSpace(rc.TargetCompany),
		PersonaDirective: persona.DirectiveFor(rc.Persona),
		CompanyContent:   company.Inject(rc.TargetCompany),
		Notes:            strings.TrimSpace(req.Notes),
		Transcript:       history,
		LastQuestion:     lastQuestion,
		LastAnswer:       strings.TrimSpace(req.LastAnswer),
		Turn:             req.Turn,
		Ceiling:          ceiling,
		AtCeiling:        req.Turn >= ceiling,
	}
	if data.Notes == "" {
		data.Notes = "(none provided)"
	}
	if data.LastAnswer == "" {
		data.LastAnswer = "(no answer given)"
	}

	payload, err := guard(ctx, e, p, generation[followUpPayload]{
		operation: opFollowUp,
		timeout:   e.cfg.FollowUpTimeout,
		request: func() (*ai.Request, error) {
			return e.request(prompts.FollowUpSystem, prompts.FollowUp, data, followUpSchema, "submit_follow_up",
				"Submit the next interview question.")
		},
		checks: []check[followUpPayload]{
			{name: "question_present", apply: func(p *followUpPayload) error {
				p.Question = strings.TrimSpace(p.Question)
				return required(map[string]string{"question": p.Question})
			}},
			{name: "not_repeated", apply: func(p *followUpPayload) error {
				if repeats(p.Question, asked) {
					return errRepeated
				}
				return nil
			}},
			{name: "rubric", apply: func(p *followUpPayload) error {
				p.IdealAnswerCharacteristics = normalizeRubric(p.IdealAnswerCharacteristics)
				return nil
			}},
		},
	}, log)
	if err != nil {
		logFallback(log, err)
		return fallbackFollowUp(rc, asked, req.Turn, ceiling), nil
	}

	final := payload.LikelyFinal
	if req.Turn >= ceiling {
		if !final {
			log.Debug("forcing final turn at ceiling", zap.Int("ceiling", ceiling))
		}
		final = true
	}

	log.Info("follow-up generated", zap.Bool("likely_final", final))

	return &interview.FollowUpTurn{
		Question:                   payload.Question,
		IdealAnswerCharacteristics: payload.IdealAnswerCharacteristics,
		LikelyFinal:                final,
	}, nil
}
