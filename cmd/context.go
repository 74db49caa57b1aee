package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/interviewai/case-coach/internal/interview"
)

func addContextFlags(cmd *cobra.Command) {
	cmd.Flags().String("context", "", "a YAML file with the interview context; flags override its values")
	cmd.Flags().StringP("category", "c", "", "interview category, e.g. \"technical system design\"")
	cmd.Flags().StringP("level", "l", "", "seniority level or ladder code (L3-L8)")
	cmd.Flags().String("job-title", "", "target job title")
	cmd.Flags().String("job-description-file", "", "plain-text job description")
	cmd.Flags().String("resume-file", "", "plain-text resume")
	cmd.Flags().String("focus", "", "thematic focus for the case")
	cmd.Flags().String("company", "", "target company")
	cmd.Flags().StringP("persona", "p", "", "interviewer persona tag")
}

// readContext builds the interview context from --context and the flags.
func readContext(cmd *cobra.Command) (interview.Context, error) {
	var ic interview.Context

	if path, _ := cmd.Flags().GetString("context"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return ic, fmt.Errorf("read context file: %w", err)
		}
		if err := yaml.Unmarshal(data, &ic); err != nil {
			return ic, fmt.Errorf("parse context file %s: %w", path, err)
		}
	}

	strs := map[string]*string{
		"category":  &ic.Category,
		"level":     &ic.Level,
		"job-title": &ic.JobTitle,
		"focus":     &ic.Focus,
		"company":   &ic.TargetCompany,
		"persona":   &ic.Persona,
	}
	for name, dst := range strs {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}

	files := map[string]*string{
		"job-description-file": &ic.JobDescription,
		"resume-file":          &ic.ResumeText,
	}
	for name, dst := range files {
		path, _ := cmd.Flags().GetString(name)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return ic, fmt.Errorf("read %s: %w", name, err)
		}
		*dst = strings.TrimSpace(string(data))
	}

	return ic, nil
}
