package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pmlens/pmlens/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [project-path]",
	Short: "List the PM documents found in a directory",
	Long: `Scan a project directory and print the discovered document catalog
with per-file classification and summary statistics.

Examples:
  pmlens scan
  pmlens scan ./project_files`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closer, err := newEngine()
		if err != nil {
			return err
		}
		defer closer.Close()

		projectPath := resolveProjectPath(args, e.Config())
		files, err := e.Scan(context.Background(), projectPath)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("\n%s %s\n\n", bold("Documents in"), projectPath)
		if len(files) == 0 {
			fmt.Println("  No PM documents found.")
			return nil
		}
		for _, f := range files {
			readable := ""
			if !f.IsReadable {
				readable = red(" (unreadable)")
			}
			fmt.Printf("  %-40s %-22s %-10s %6.1f KB%s\n",
				f.Filename(), f.DocumentType, f.Format,
				float64(f.SizeBytes)/1024.0, readable)
		}

		stats := scan.ComputeStatistics(files)
		fmt.Printf("\n%s\n", bold("Statistics"))
		fmt.Printf("  Total:      %d files, %.1f KB\n",
			stats.TotalFiles, float64(stats.TotalSizeBytes)/1024.0)
		fmt.Printf("  Readable:   %d", stats.ReadableFiles)
		if stats.UnreadableFiles > 0 {
			fmt.Printf(" (%s)", red(fmt.Sprintf("%d unreadable", stats.UnreadableFiles)))
		}
		fmt.Println()
		fmt.Printf("  Newest:     %s\n", stats.NewestFile)
		fmt.Printf("  Oldest:     %s\n", stats.OldestFile)
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
