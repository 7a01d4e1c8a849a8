// Package cmd implements the Art Arena command-line client. Each command
// corresponds to one page view of the hosted web client: the arena, the
// free and premium generators, the gallery, and the account flows.
package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "artarena",
	Short: "AI image generation arena client",
	Long: `Art Arena is a client for the AI image generation arena: generate
images with free or premium models, pit models against each other on
the same prompt, browse the community gallery, and vote for the best
results.

Configuration comes from the environment (or a .env file). At minimum
ARENA_API_BASE_URL must point at the backend.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
}
