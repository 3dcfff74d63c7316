package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new karatelink workspace",
	Long: `Initialize a new karatelink workspace in the current directory.

Creates:
  .karatelink/
  ├── config.yaml     # Default hyperparameters
  ├── datasets/       # Imported edge lists (JSONL)
  ├── checkpoints/    # Trained model weights
  └── cache/          # Run registry and embedding indexes`,
	RunE: runInitCmd,
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	root, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsWorkspace(root) {
		exitWithError(ExitError, "directory already contains a karatelink workspace")
	}

	if err := config.Init(root); err != nil {
		exitWithError(ExitError, "initializing workspace: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized karatelink workspace in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
