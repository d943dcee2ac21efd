// Package cli implements the stacktracer command-line interface using Cobra.
// The commands drive the same bridge functions the C library exports, so the
// library's behavior can be checked without writing a C host.
package cli

import (
	"github.com/majorcontext/stacktracer/internal/config"
	"github.com/majorcontext/stacktracer/internal/log"
	"github.com/majorcontext/stacktracer/internal/ui"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "stacktracer",
	Short: "Capture and print stack traces through the C bridge",
	Long: `stacktracer exercises the stack trace bridge that libstacktracer exports
to C callers: print a trace to stderr, or capture traces as C strings,
decode them, and free them again.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			ui.Warnf("failed to read %s: %v", config.Path(), err)
		}

		if err := log.Init(log.Options{
			Verbose:       verbose || cfg.Log.Verbose,
			JSONFormat:    jsonOut || cfg.Log.JSON,
			Component:     "cli",
			DebugDir:      cfg.Debug.Dir,
			RetentionDays: cfg.Debug.RetentionDays,
		}); err != nil {
			// Non-fatal: keep the default logger
			ui.Warnf("failed to initialize debug logging: %v", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Close()
	},
}

// Execute runs the root command. Errors are returned for the caller to
// report.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "log in JSON format")
}
