package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/engine"
	"github.com/interviewai/case-coach/internal/interview"
	"github.com/interviewai/case-coach/internal/logger"
	"github.com/interviewai/case-coach/internal/session"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Answer the pending question of a saved session and print the follow-up",
	Run: func(cmd *cobra.Command, _ []string) {
		runNext(cmd)
	},
}

func init() {
	rootCmd.AddCommand(nextCmd)

	nextCmd.Flags().StringP("session", "s", "", "session id printed by setup --save or interview")
	nextCmd.Flags().StringP("answer", "a", "", "the candidate's answer to the pending question")
	nextCmd.Flags().String("api-key", "", "use your own provider API key for this call")

	nextCmd.MarkFlagRequired("session")
	nextCmd.MarkFlagRequired("answer")
}

type nextOutput struct {
	Session  string                  `json:"session"`
	Turn     int                     `json:"turn"`
	Done     bool                    `json:"done"`
	FollowUp *interview.FollowUpTurn `json:"followUp,omitempty"`
}

func runNext(cmd *cobra.Command) {
	ctx := context.Background()
	w := prepare(ctx)

	id, _ := cmd.Flags().GetString("session")
	answer, _ := cmd.Flags().GetString("answer")
	apiKey, _ := cmd.Flags().GetString("api-key")

	store, closeStore, err := openStore(ctx, w.config.Session)
	if err != nil {
		w.logger.Fatal("opening the session store", zap.Error(err))
	}
	defer closeStore()

	l := w.logger.With(zap.String(logger.FieldSession, id))

	record, err := store.Load(ctx, id)
	if err != nil {
		l.Fatal("loading the session", zap.Error(err))
	}

	if err := record.Answer(answer); err != nil {
		l.Fatal("recording the answer", zap.Error(err))
	}

	out := nextOutput{Session: record.ID}
	if record.Done() {
		out.Done = true
		l.Info("the case is concluded")
	} else {
		turn, err := advance(ctx, w.engine, record, apiKey)
		if err != nil {
			l.Fatal("generating the follow-up", zap.Error(err))
		}
		out.FollowUp = turn
	}
	out.Turn = record.Turn

	if err := store.Save(ctx, record); err != nil {
		l.Fatal("saving the session", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		l.Fatal("encoding the follow-up", zap.Error(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}

// advance asks the engine for the record's next follow-up and applies it.
func advance(ctx context.Context, eng *engine.Engine, record *session.Record, apiKey string) (*interview.FollowUpTurn, error) {
	req, err := record.NextRequest()
	if err != nil {
		return nil, err
	}

	turn, err := eng.NextFollowUp(ctx, req, engine.WithCredential(apiKey))
	if err != nil {
		return nil, err
	}

	record.Apply(turn)
	return turn, nil
}
