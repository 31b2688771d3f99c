package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pmlens/pmlens/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default pmlens.yaml configuration",
	Long: `Create a pmlens.yaml in the current directory (or at --config) with
the default project settings, required-document list, and output options.

Example:
  cd ~/myproject
  pmlens init`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s Wrote default configuration\n\n", green("✓"))
		fmt.Printf("  Config: %s\n", cyan(path))
		fmt.Printf("  Edit required_documents and output settings, then run:\n")
		fmt.Printf("    pmlens analyze <project-path>\n\n")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
