package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/podbrief/podbrief-api/internal/services/pipeline"
)

var (
	processForce bool
	processAll   bool
	processTitle string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the processing pipeline",
	Long: `Process podcast episodes through the download, transcription and
summarization pipeline.

Episodes already recorded in history are skipped unless --force is
given. The command exits non-zero when any episode fails.`,
}

// processFeedsCmd processes the configured feed sources
var processFeedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Process configured feed sources",
	Long: `Fetch every configured feed and process its episodes.

By default only the latest episode of each feed is processed; use
--all to process every episode the feeds report.

Example:
  podbrief process feeds
  podbrief process feeds --force --all`,
	RunE: runProcessFeeds,
}

// processEpisodeCmd processes a single ad-hoc URL
var processEpisodeCmd = &cobra.Command{
	Use:   "episode <url>",
	Short: "Process a single episode URL",
	Long: `Process one episode from a direct audio URL or a webpage embedding
audio. The title is extracted from the page when not supplied.

Example:
  podbrief process episode https://example.com/show/ep-42.mp3
  podbrief process episode https://example.com/episodes/42 --title "Episode 42"`,
	Args: cobra.ExactArgs(1),
	RunE: runProcessEpisode,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.AddCommand(processFeedsCmd)
	processCmd.AddCommand(processEpisodeCmd)

	processCmd.PersistentFlags().BoolVar(&processForce, "force", false, "reprocess episodes already in history")
	processFeedsCmd.Flags().BoolVar(&processAll, "all", false, "process all feed entries, not just the latest")
	processEpisodeCmd.Flags().StringVar(&processTitle, "title", "", "episode title override")
}

func runProcessFeeds(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.DB.Close() }()

	ctx, cancel := signalContext()
	defer cancel()

	sources, err := deps.FeedSources.List(ctx)
	if err != nil {
		return fmt.Errorf("listing feed sources: %w", err)
	}
	if len(sources) == 0 {
		fmt.Println("No feed sources configured. Add one with: podbrief feeds add <url>")
		return nil
	}

	feedURLs := make([]string, 0, len(sources))
	for _, source := range sources {
		feedURLs = append(feedURLs, source.URL)
	}

	episodes, feedErrors := deps.Resolver.ResolveFeeds(ctx, feedURLs, !processAll)
	for _, feedErr := range feedErrors {
		fmt.Fprintf(os.Stderr, "Feed error: %v\n", feedErr)
	}

	report, err := deps.Orchestrator.ProcessBatch(ctx, episodes, processForce)
	if report != nil {
		printReport(report)
	}
	if err != nil {
		return err
	}
	if report.HasFailures() || len(feedErrors) > 0 {
		return fmt.Errorf("%d episode(s) failed, %d feed error(s)", report.Failed, len(feedErrors))
	}
	return nil
}

func runProcessEpisode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.DB.Close() }()

	ctx, cancel := signalContext()
	defer cancel()

	episode, err := deps.Resolver.ResolveDirect(args[0], processTitle)
	if err != nil {
		return err
	}

	result, err := deps.Orchestrator.ProcessEpisode(ctx, episode, processForce)
	if err != nil {
		return err
	}

	switch result.State {
	case pipeline.StateRecorded:
		fmt.Printf("Processed: %s\n", episode.Title)
		if len(result.FailedTemplates) > 0 {
			fmt.Printf("Failed templates: %v\n", result.FailedTemplates)
		}
		return nil
	case pipeline.StateSkipped:
		fmt.Printf("Skipped (already processed): %s\n", episode.Title)
		return nil
	default:
		return fmt.Errorf("episode failed: %v", result.Failure)
	}
}

// printReport writes a batch summary to stdout
func printReport(report *pipeline.BatchReport) {
	fmt.Printf("Processed %d episode(s): %d succeeded, %d skipped, %d failed\n",
		len(report.Results), report.Succeeded, report.Skipped, report.Failed)
	for _, failure := range report.Failures() {
		fmt.Fprintf(os.Stderr, "  %v\n", failure)
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
