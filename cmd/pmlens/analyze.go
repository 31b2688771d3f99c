package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pmlens/pmlens/internal/history"
	"github.com/pmlens/pmlens/internal/types"
)

var (
	analyzeMode      string
	analyzeYes       bool
	analyzeNoHistory bool
	analyzeDBPath    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [project-path]",
	Short: "Run the full analysis pipeline",
	Long: `Scan a project directory, detect the best analysis mode, run it, and
write the configured reports.

The detected mode is confirmed interactively before processing. Answer
with Enter to accept, "n" to abort, or another mode name to override.

Examples:
  pmlens analyze                        # Analyze the configured default path
  pmlens analyze ./project_files        # Analyze a specific directory
  pmlens analyze --mode status_analysis # Skip detection, force a mode
  pmlens analyze --yes                  # Accept the detected mode`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, closer, err := newEngine()
		if err != nil {
			return err
		}
		defer closer.Close()

		override, err := parseMode(analyzeMode)
		if err != nil {
			return err
		}

		if !analyzeNoHistory {
			store, err := history.Open(analyzeDBPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: history unavailable: %v\n", err)
			} else {
				defer store.Close()
				e.History = store
			}
		}

		ctx := context.Background()
		projectPath := resolveProjectPath(args, e.Config())

		files, rec, completeness, err := e.Detect(ctx, projectPath)
		if err != nil {
			return err
		}
		printRecommendation(rec, completeness, len(files))

		if override == "" {
			override, err = confirmMode(rec.RecommendedMode)
			if err != nil {
				return err
			}
		}

		res, err := e.Run(ctx, projectPath, override)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "%s %s\n", yellow("!"), w)
		}
		fmt.Printf("\n%s Analysis complete (%s)\n", green("✓"), res.Mode)
		for _, p := range res.ReportPaths {
			fmt.Printf("  Report: %s\n", p)
		}
		if res.RunID != "" {
			fmt.Printf("  Run ID: %s\n", res.RunID)
		}
		return nil
	},
}

// confirmMode asks the user to accept, reject, or replace the detected
// mode. Non-interactive sessions accept silently.
func confirmMode(detected types.OperationMode) (types.OperationMode, error) {
	if analyzeYes || !readline.DefaultIsTerminal() {
		return "", nil
	}

	rl, err := readline.New(fmt.Sprintf("Run %s? [Y/n/mode] ", detected))
	if err != nil {
		return "", fmt.Errorf("failed to create prompt: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err == readline.ErrInterrupt || err == io.EOF {
		return "", fmt.Errorf("aborted")
	}
	if err != nil {
		return "", err
	}

	switch answer := strings.ToLower(strings.TrimSpace(line)); answer {
	case "", "y", "yes":
		return "", nil
	case "n", "no":
		return "", fmt.Errorf("aborted")
	default:
		return parseMode(answer)
	}
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "", "force an operation mode instead of detecting one")
	analyzeCmd.Flags().BoolVarP(&analyzeYes, "yes", "y", false, "accept the detected mode without prompting")
	analyzeCmd.Flags().BoolVar(&analyzeNoHistory, "no-history", false, "skip recording this run")
	analyzeCmd.Flags().StringVar(&analyzeDBPath, "db", defaultHistoryPath, "run history database path")
	rootCmd.AddCommand(analyzeCmd)
}
