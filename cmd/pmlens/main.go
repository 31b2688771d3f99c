package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pmlens/pmlens/internal/config"
	"github.com/pmlens/pmlens/internal/engine"
	"github.com/pmlens/pmlens/internal/logging"
	"github.com/pmlens/pmlens/internal/types"
)

// defaultHistoryPath is where analysis runs are recorded unless --db
// overrides it.
const defaultHistoryPath = ".pmlens/history.db"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "pmlens",
	Short: "Analyze project management documents",
	Long: `pmlens scans a project directory for PM documents (charter, risk
register, WBS, roadmap, stakeholder register), detects the analysis mode
that fits their state, and produces compliance, status, or learning
reports.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default pmlens.yaml)")
}

// newEngine loads configuration, sets up logging, and builds the pipeline
// engine. The returned closer owns the log file.
func newEngine() (*engine.Engine, io.Closer, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	logger, closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(cfg, logger), closer, nil
}

// resolveProjectPath picks the positional argument or the configured
// default document directory.
func resolveProjectPath(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg.Project.DefaultPath != "" {
		return cfg.Project.DefaultPath
	}
	return "."
}

// parseMode maps a user-supplied mode name to an operation mode.
func parseMode(name string) (types.OperationMode, error) {
	switch name {
	case "":
		return "", nil
	case "document_check", "check":
		return types.ModeDocumentCheck, nil
	case "status_analysis", "status":
		return types.ModeStatusAnalysis, nil
	case "learning_module", "learning":
		return types.ModeLearningModule, nil
	}
	return "", fmt.Errorf("unknown mode %q (want document_check, status_analysis, or learning_module)", name)
}
