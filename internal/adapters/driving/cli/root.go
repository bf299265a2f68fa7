// Package cli wires the cobra command tree to the core services.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frozenisback/sp-src/internal/adapters/driven/config/file"
	"github.com/frozenisback/sp-src/internal/adapters/driven/fetch"
	"github.com/frozenisback/sp-src/internal/adapters/driven/sandbox"
	"github.com/frozenisback/sp-src/internal/adapters/driven/storage/marker"
	"github.com/frozenisback/sp-src/internal/adapters/driven/storage/sqlite"
	"github.com/frozenisback/sp-src/internal/core/ports/driving"
	"github.com/frozenisback/sp-src/internal/core/services"
	"github.com/frozenisback/sp-src/internal/logger"
)

// version is set by Execute from the build's main package.
var version = "dev"

// prober is the driving port the commands call. Tests replace it with
// a mock.
var prober driving.Prober

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "sp-src",
	Short: "Extract rotating secrets from the web player bundle",
	Long: `sp-src locates the module table inside the minified web player
bundle, ranks its modules by textual signals, and force-loads the best
candidates inside an isolated JavaScript sandbox to capture the
versioned secrets they compute at runtime.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the production adapters and runs the command tree.
func Execute(v string) error {
	version = v
	if prober == nil {
		p, err := wireProber()
		if err != nil {
			return fmt.Errorf("initialise services: %w", err)
		}
		prober = p
	}
	return rootCmd.Execute()
}

// wireProber assembles the production service graph.
func wireProber() (driving.Prober, error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("open config store: %w", err)
	}

	markerStore, err := marker.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("open marker store: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	client := fetch.NewClient(
		configStore.GetString("fetch.entry_url"),
		configStore.GetString("fetch.user_agent"),
	)

	return services.NewProbeService(
		client,
		sandbox.New(),
		markerStore,
		store.RunStore(),
		configStore,
	), nil
}
