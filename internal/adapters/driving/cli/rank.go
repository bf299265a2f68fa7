package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [bundle.js]",
	Short: "Print the ranked candidate modules",
	Long: `Locates and parses the module table, then prints the modules whose
bodies match a configured signal pattern, best candidate first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	if prober == nil {
		return errors.New("probe service not configured")
	}

	ctx := context.Background()
	source, label, err := loadBundle(ctx, args)
	if err != nil {
		return err
	}

	candidates, err := prober.Rank(ctx, source)
	if err != nil {
		return fmt.Errorf("rank failed: %w", err)
	}

	cmd.Printf("Bundle: %s\n", label)
	cmd.Printf("%d candidates:\n", len(candidates))
	for i, c := range candidates {
		cmd.Printf("  %d. module %d (priority %d)\n", i+1, c.Key, c.Priority)
	}
	return nil
}
