package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded probe runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs to list (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if prober == nil {
		return errors.New("probe service not configured")
	}

	runs, err := prober.History(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No recorded runs.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("%s  %s\n", run.CreatedAt.Local().Format(time.DateTime), run.BundleURL)
		cmd.Printf("    modules: %d, candidates: %d, secrets: %d\n",
			run.ModuleCount, run.CandidateCount, len(run.Secrets))
		for _, s := range run.Secrets {
			cmd.Printf("    version %d: %s\n", s.Version, s.Secret)
		}
	}
	return nil
}
