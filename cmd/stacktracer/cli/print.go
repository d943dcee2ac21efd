package cli

import (
	"github.com/majorcontext/stacktracer/internal/bridge"
	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the current stack trace to stderr",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bridge.Print()
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}
