package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// feedsCmd represents the feeds command
var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Manage feed sources",
	Long: `Manage the list of podcast feeds processed by "podbrief process feeds".

Feeds keep the order in which they were added.`,
}

// feedsAddCmd adds feed URLs
var feedsAddCmd = &cobra.Command{
	Use:   "add <url> [url...]",
	Short: "Add feed sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFeedsAdd,
}

// feedsListCmd lists feed URLs
var feedsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured feed sources",
	RunE:  runFeedsList,
}

// feedsRemoveCmd removes feed URLs
var feedsRemoveCmd = &cobra.Command{
	Use:   "remove <url> [url...]",
	Short: "Remove feed sources",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFeedsRemove,
}

func init() {
	rootCmd.AddCommand(feedsCmd)
	feedsCmd.AddCommand(feedsAddCmd)
	feedsCmd.AddCommand(feedsListCmd)
	feedsCmd.AddCommand(feedsRemoveCmd)
}

func runFeedsAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.DB.Close() }()

	added, err := deps.FeedSources.Add(cmd.Context(), args)
	if err != nil {
		return err
	}

	fmt.Printf("Added %d feed(s)\n", added)
	if skipped := len(args) - added; skipped > 0 {
		fmt.Printf("Skipped %d already-configured feed(s)\n", skipped)
	}
	return nil
}

func runFeedsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.DB.Close() }()

	sources, err := deps.FeedSources.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		fmt.Println("No feed sources configured")
		return nil
	}

	for i, source := range sources {
		if source.Name != "" {
			fmt.Printf("%d. %s (%s)\n", i+1, source.URL, source.Name)
		} else {
			fmt.Printf("%d. %s\n", i+1, source.URL)
		}
	}
	return nil
}

func runFeedsRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.DB.Close() }()

	removed, err := deps.FeedSources.Remove(cmd.Context(), args)
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d feed(s)\n", removed)
	return nil
}
