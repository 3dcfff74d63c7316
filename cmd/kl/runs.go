package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/config"
	"github.com/matsen/karatelink/internal/storage"
)

var runsLimit int

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", DefaultListLimit, "Maximum runs to return (0 = all)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded training runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	db := mustOpenDatabase(root)
	defer db.Close()

	runs, err := db.ListRuns(runsLimit)
	if err != nil {
		exitWithError(ExitError, "listing runs: %v", err)
	}

	if humanOutput {
		if len(runs) == 0 {
			fmt.Println("No recorded runs")
			return nil
		}
		total, _ := db.Count()
		if runsLimit > 0 && runsLimit < total {
			fmt.Printf("%d runs (showing first %d):\n\n", total, len(runs))
		} else {
			fmt.Printf("%d runs:\n\n", len(runs))
		}
		for _, r := range runs {
			fmt.Printf("  %-22s %-10s acc %.1f%%  auc %.3f  loss %.4f\n",
				r.ID, r.Dataset, 100*r.TestAccuracy, r.TestAUC, r.FinalLoss)
		}
	} else {
		if runs == nil {
			runs = []storage.Run{}
		}
		outputJSON(runs)
	}
	return nil
}

// RunDetailResponse is a run record with its full loss curve.
type RunDetailResponse struct {
	storage.Run
	LossHistory []float64 `json:"loss_history"`
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its loss curve",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	db := mustOpenDatabase(root)
	defer db.Close()

	run := mustGetRun(db, args[0])
	losses, err := db.LossHistory(run.ID)
	if err != nil {
		exitWithError(ExitError, "loading loss history: %v", err)
	}

	if humanOutput {
		fmt.Printf("Run %s\n", run.ID)
		fmt.Printf("  Created:   %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  Dataset:   %s\n", run.Dataset)
		fmt.Printf("  Training:  %d epochs, %s, lr %g, seed %d (%s)\n",
			run.Epochs, run.Optimizer, run.LR, run.Seed, formatDuration(run.Duration))
		fmt.Printf("  Model:     embed %d, hidden %d, out %d\n",
			run.EmbedDim, run.HiddenDim, run.OutDim)
		fmt.Printf("  Loss:      %.4f", run.FinalLoss)
		if len(losses) > 0 {
			fmt.Printf(" (from %.4f)", losses[0])
		}
		fmt.Println()
		fmt.Printf("  Accuracy:  %.1f%%\n", 100*run.TestAccuracy)
		fmt.Printf("  AUC:       %.4f\n", run.TestAUC)
	} else {
		outputJSON(RunDetailResponse{Run: *run, LossHistory: losses})
	}
	return nil
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its artifacts",
	Long: `Delete a run record along with its checkpoint and embedding index.

Examples:
  kl runs delete run-20260830-120000`,
	Args: cobra.ExactArgs(1),
	RunE: runRunsDelete,
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	id := args[0]
	root := mustFindWorkspace()
	db := mustOpenDatabase(root)
	defer db.Close()

	deleted, err := db.DeleteRun(id)
	if err != nil {
		exitWithError(ExitError, "deleting run: %v", err)
	}
	if !deleted {
		exitWithError(ExitDataError, "run %s not found", id)
	}

	// Artifacts are best effort: the registry row is the source of truth.
	os.Remove(config.CheckpointPath(root, id))
	os.Remove(config.EmbeddingsPath(root, id))

	if humanOutput {
		fmt.Printf("Deleted run %s\n", id)
	} else {
		outputJSON(map[string]string{"status": "deleted", "id": id})
	}
	return nil
}
