package main

import (
	"context"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [project-path]",
	Short: "Detect the analysis mode without running it",
	Long: `Scan a project directory and print the mode recommendation: which
analysis would run, at what confidence, and why.

Examples:
  pmlens detect
  pmlens detect ./project_files`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closer, err := newEngine()
		if err != nil {
			return err
		}
		defer closer.Close()

		projectPath := resolveProjectPath(args, e.Config())
		files, rec, completeness, err := e.Detect(context.Background(), projectPath)
		if err != nil {
			return err
		}
		printRecommendation(rec, completeness, len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
