package cli

import (
	"fmt"

	"github.com/majorcontext/stacktracer/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: fmt.Sprintf(`Show the configuration after applying the config file and environment.

Environment overrides:
  %s  config file path
  %s  debug log directory
  %s  debug log retention
  %s  verbose stderr logging
  %s  JSON stderr logging`,
		config.EnvConfig, config.EnvDebugDir, config.EnvRetentionDays, config.EnvVerbose, config.EnvLogJSON),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		data, err := cfg.YAML()
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", config.Path(), data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
