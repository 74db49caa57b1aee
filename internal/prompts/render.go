// Package prompts renders generation instructions from named templates.
package prompts

import (
	"fmt"
	"strings"
	"text/template"
)

const (
	CaseSetupSystem = "case_setup_system"
	CaseSetup       = "case_setup"
	FollowUpSystem  = "followup_system"
	FollowUp        = "followup"
)

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"trim": strings.TrimSpace,
}

// Render executes tmpl against data. Referencing a missing map key is an error.
func Render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Funcs(funcs).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return strings.TrimSpace(b.String()), nil
}

// Renderer looks templates up in a Store and renders them.
type Renderer struct {
	store Store
}

func NewRenderer(store Store) *Renderer {
	if store == nil {
		store = Embedded()
	}
	return &Renderer{store: store}
}

// Render renders the template registered under name.
func (r *Renderer) Render(name string, data any) (string, error) {
	tmpl, err := r.store.Template(name)
	if err != nil {
		return "", err
	}

	out, err := Render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}
