package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/frozenisback/sp-src/internal/core/domain"
	"github.com/frozenisback/sp-src/internal/core/ports/driving"
	"github.com/frozenisback/sp-src/internal/logger"
)

var (
	runForce bool
	runJSON  bool
	runOut   string
	runWatch bool
)

var runCmd = &cobra.Command{
	Use:   "run [bundle.js]",
	Short: "Run the full extraction pipeline",
	Long: `Runs the full pipeline: acquire the bundle, locate and parse its
module table, rank candidate modules, execute them in the sandbox, and
emit the captured secrets.

With a bundle file argument the local file is probed. Without one the
current remote bundle is fetched; if its URL matches the last processed
one the run exits early without probing (use --force to override).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runForce, "force", false, "probe even when the bundle is unchanged")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print secrets as JSON (default when stdout is not a terminal)")
	runCmd.Flags().StringVar(&runOut, "out", "secrets", "directory for the output files (empty to skip)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "re-run whenever the bundle file changes (requires a file argument)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if prober == nil {
		return errors.New("probe service not configured")
	}

	ctx := context.Background()

	if runWatch {
		if len(args) == 0 {
			return errors.New("--watch requires a bundle file argument")
		}
		return watchAndProbe(ctx, cmd, args[0])
	}

	return probeOnce(ctx, cmd, args)
}

// probeOnce runs one probe and emits its results.
func probeOnce(ctx context.Context, cmd *cobra.Command, args []string) error {
	opts := driving.ProbeOptions{Force: runForce}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read bundle: %w", err)
		}
		opts.Source = string(data)
		opts.SourceName = args[0]
	}

	report, err := prober.Probe(ctx, opts)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	if report.Skipped {
		cmd.Println("no player updates")
		return nil
	}

	if err := outputSecrets(cmd, report.Secrets); err != nil {
		return err
	}

	if runOut != "" {
		if err := writeOutputFiles(runOut, report.Secrets); err != nil {
			return fmt.Errorf("write output files: %w", err)
		}
	}
	return nil
}

// watchAndProbe probes once, then re-probes on every change to path.
func watchAndProbe(ctx context.Context, cmd *cobra.Command, path string) error {
	if err := probeOnce(ctx, cmd, []string{path}); err != nil {
		logger.Error("Probe failed: %v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and downloaders commonly replace
	// the file, which drops a watch set on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	cmd.Printf("Watching %s for changes...\n", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Info("Bundle changed, re-probing")
			if err := probeOnce(ctx, cmd, []string{path}); err != nil {
				logger.Error("Probe failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watch error: %v", err)
		}
	}
}

// outputSecrets prints records to stdout, as JSON when requested or
// when stdout is not a terminal.
func outputSecrets(cmd *cobra.Command, secrets []domain.SecretRecord) error {
	if runJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		data, err := json.MarshalIndent(secrets, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal secrets: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Captured %d secrets:\n", len(secrets))
	for _, s := range secrets {
		cmd.Printf("  version %d: %s\n", s.Version, s.Secret)
	}
	return nil
}

// writeOutputFiles emits the three order-preserving projections of the
// validated record list.
func writeOutputFiles(dir string, secrets []domain.SecretRecord) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	plain, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "secrets.json"), plain, 0600); err != nil {
		return err
	}

	bytes, err := json.Marshal(domain.SecretsToBytes(secrets))
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "secretBytes.json"), bytes, 0600); err != nil {
		return err
	}

	dict, err := json.Marshal(domain.SecretsToDict(secrets))
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "secretDict.json"), dict, 0600)
}
