package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract [bundle.js]",
	Short: "Locate and extract the module table fragment",
	Long: `Locates the module table object literal inside the bundle and prints
its span. With --out the byte-exact fragment is written to a file,
preserving whitespace and comments.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractOut, "out", "", "write the extracted fragment to this file")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if prober == nil {
		return errors.New("probe service not configured")
	}

	ctx := context.Background()
	source, label, err := loadBundle(ctx, args)
	if err != nil {
		return err
	}

	frag, err := prober.Extract(ctx, source)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	cmd.Printf("Bundle:   %s (%d bytes)\n", label, len(source))
	cmd.Printf("Fragment: [%d:%d] (%d bytes)\n", frag.Span.Start, frag.Span.End, frag.Span.Len())

	if extractOut != "" {
		if err := os.WriteFile(extractOut, []byte(frag.Text), 0600); err != nil {
			return fmt.Errorf("write fragment: %w", err)
		}
		cmd.Printf("Wrote fragment to %s\n", extractOut)
	}
	return nil
}

// loadBundle reads the bundle from a file argument, or fetches the
// current remote bundle when no argument is given.
func loadBundle(ctx context.Context, args []string) (source, label string, err error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read bundle: %w", err)
		}
		return string(data), args[0], nil
	}

	url, text, err := prober.FetchBundle(ctx)
	if err != nil {
		return "", "", err
	}
	return text, url, nil
}
