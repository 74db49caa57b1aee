package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/engine"
	"github.com/interviewai/case-coach/internal/logger"
	"github.com/interviewai/case-coach/internal/session"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Open a case and print it as JSON",
	Long: "Open a case and print it as JSON, internal notes included.\n" +
		"With --save the case is stored as a session that `next` can continue.",
	Run: func(cmd *cobra.Command, _ []string) {
		runSetup(cmd)
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)

	addContextFlags(setupCmd)
	setupCmd.Flags().Bool("save", false, "store the case as a new session")
	setupCmd.Flags().String("api-key", "", "use your own provider API key for this call")
}

func runSetup(cmd *cobra.Command) {
	ctx := context.Background()
	w := prepare(ctx)

	ic, err := readContext(cmd)
	if err != nil {
		w.logger.Fatal("reading interview context", zap.Error(err))
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	setup, err := w.engine.BeginCase(ctx, ic, engine.WithCredential(apiKey))
	if err != nil {
		w.logger.Fatal("opening a case", zap.Error(err))
	}

	if setup.Degraded {
		w.logger.Warn("the provider was not used, the case is a built-in fallback")
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, closeStore, err := openStore(ctx, w.config.Session)
		if err != nil {
			w.logger.Fatal("opening the session store", zap.Error(err))
		}
		defer closeStore()

		record := session.New(ic)
		record.Start(setup)
		if err := store.Save(ctx, record); err != nil {
			w.logger.Fatal("saving the session", zap.Error(err))
		}
		w.logger.Info("session saved", zap.String(logger.FieldSession, record.ID))
	}

	out, err := json.MarshalIndent(setup, "", "  ")
	if err != nil {
		w.logger.Fatal("encoding the case", zap.Error(err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}
