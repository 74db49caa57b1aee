package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/engine"
	"github.com/interviewai/case-coach/internal/interview"
	"github.com/interviewai/case-coach/internal/logger"
	"github.com/interviewai/case-coach/internal/persona"
	"github.com/interviewai/case-coach/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			MarginBottom(1)

	scenarioStyle = lipgloss.NewStyle().
			Width(88).
			PaddingLeft(2)

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	rubricStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true).
			PaddingLeft(4)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555"))
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive mock interview in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	addContextFlags(interviewCmd)
	interviewCmd.Flags().Bool("show-rubric", false, "print the ideal answer characteristics after each question")
	interviewCmd.Flags().String("api-key", "", "use your own provider API key")
}

func runInterview(cmd *cobra.Command) {
	ctx := context.Background()
	w := prepare(ctx)

	ic, err := readContext(cmd)
	if err != nil {
		w.logger.Fatal("reading interview context", zap.Error(err))
	}

	if err := completeContext(&ic); err != nil {
		w.logger.Fatal("exiting", zap.Error(err))
	}

	store, closeStore, err := openStore(ctx, w.config.Session)
	if err != nil {
		w.logger.Fatal("opening the session store", zap.Error(err))
	}
	defer closeStore()

	apiKey, _ := cmd.Flags().GetString("api-key")
	showRubric, _ := cmd.Flags().GetBool("show-rubric")

	setup, err := w.engine.BeginCase(ctx, ic, engine.WithCredential(apiKey))
	if err != nil {
		w.logger.Fatal("opening a case", zap.Error(err))
	}

	record := session.New(ic)
	record.Start(setup)
	l := w.logger.With(zap.String(logger.FieldSession, record.ID))
	save(ctx, store, record, l)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(setup.Title))
	fmt.Fprintln(out, scenarioStyle.Render(setup.Scenario))
	if setup.Degraded {
		fmt.Fprintln(out, noticeStyle.Render("(offline case: the generation provider was unavailable)"))
	}
	printQuestion(out, record.Pending, setup.IdealAnswerCharacteristics, showRubric)

	for {
		answer, err := ask()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				l.Info("interview paused, continue it with the next command")
				return
			}
			l.Fatal("reading the answer", zap.Error(err))
		}

		if err := record.Answer(answer); err != nil {
			l.Fatal("recording the answer", zap.Error(err))
		}

		if record.Done() {
			save(ctx, store, record, l)
			fmt.Fprintln(out, titleStyle.Render("That concludes the case. Thank you!"))
			l.Info("interview finished", zap.Int(logger.FieldTurn, record.Turn))
			return
		}

		turn, err := advance(ctx, w.engine, record, apiKey)
		if err != nil {
			l.Fatal("generating the follow-up", zap.Error(err))
		}
		save(ctx, store, record, l)

		printQuestion(out, turn.Question, turn.IdealAnswerCharacteristics, showRubric)
		if turn.LikelyFinal {
			fmt.Fprintln(out, noticeStyle.Render("(final question)"))
		}
	}
}

// completeContext asks for whatever the flags left out.
func completeContext(ic *interview.Context) error {
	if strings.TrimSpace(ic.Category) == "" {
		_, category, err := (&promptui.Select{Label: "Interview category", Items: interview.CategoryNames()}).Run()
		if err != nil {
			return err
		}
		ic.Category = category
	}

	if strings.TrimSpace(ic.Level) == "" {
		_, level, err := (&promptui.Select{Label: "Seniority level", Items: interview.LevelNames()}).Run()
		if err != nil {
			return err
		}
		ic.Level = level
	}

	if strings.TrimSpace(ic.Persona) == "" {
		all := persona.All()
		labels := make([]string, 0, len(all))
		for _, p := range all {
			labels = append(labels, p.Label)
		}

		i, _, err := (&promptui.Select{Label: "Interviewer persona", Items: labels}).Run()
		if err != nil {
			return err
		}
		ic.Persona = string(all[i].Tag)
	}

	return nil
}

func ask() (string, error) {
	p := promptui.Prompt{
		Label: "Your answer",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("answer is empty")
			}
			return nil
		},
	}
	return p.Run()
}

func printQuestion(out io.Writer, question string, rubric []string, showRubric bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, questionStyle.Render(question))
	if !showRubric {
		return
	}
	for _, item := range rubric {
		fmt.Fprintln(out, rubricStyle.Render("- "+item))
	}
}

func save(ctx context.Context, store session.Store, record *session.Record, l *zap.Logger) {
	if err := store.Save(ctx, record); err != nil {
		// The interview can go on; only resuming it later is lost.
		l.Warn("saving the session", zap.Error(err))
	}
}
