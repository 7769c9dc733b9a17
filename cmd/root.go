package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podbrief",
	Short: "Podcast episode processing service",
	Long: `Podbrief downloads podcast episodes, transcribes them with a local
speech-to-text model and produces structured summaries through a
language model.

Episodes come from configured RSS feeds or ad-hoc URLs. Processed
episodes are recorded in a history store so they are not processed
twice unless forced.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// loadConfig initializes configuration for commands that need it
func loadConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	return config.GetConfig()
}
