package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage processing history",
	Long: `Inspect the record of processed episodes.

Episodes present in history are skipped by the pipeline unless
--force is given. Clearing history makes every episode eligible for
processing again.`,
	RunE: runHistoryList,
}

// historyClearCmd empties the history
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the processing history",
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.DB.Close() }()

	records, err := deps.History.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No processed episodes")
		return nil
	}

	for _, record := range records {
		fmt.Printf("%s  %s  %s\n",
			record.ProcessedAt.Format("2006-01-02 15:04"),
			record.EpisodeKey[:12],
			record.Title)
	}
	fmt.Printf("%d episode(s) processed\n", len(records))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = deps.DB.Close() }()

	if err := deps.History.Clear(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("History cleared")
	return nil
}
