package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pmlens/pmlens/internal/history"
)

var (
	historyLimit   int
	historyProject string
	historyDBPath  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	Long: `List prior analysis runs from the local run database, newest first.

Examples:
  pmlens history                       # Last 20 runs
  pmlens history -n 5                  # Last 5 runs
  pmlens history --project ./docs      # Runs for one project path`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(historyDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.List(context.Background(), historyProject, historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()
		subtle := color.New(color.Faint).SprintFunc()
		fmt.Printf("\n%s\n\n", bold("Analysis Runs"))
		for _, run := range runs {
			fmt.Printf("  %s  %-16s confidence %s  %d files  %s\n",
				run.CreatedAt.Local().Format("2006-01-02 15:04"),
				run.Mode, percent(run.Confidence), run.FileCount,
				run.ProjectPath)
			fmt.Printf("    %s\n", subtle(run.ID))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to show")
	historyCmd.Flags().StringVar(&historyProject, "project", "", "filter by project path")
	historyCmd.Flags().StringVar(&historyDBPath, "db", defaultHistoryPath, "run history database path")
	rootCmd.AddCommand(historyCmd)
}
