package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/split"
	"github.com/matsen/karatelink/internal/train"
)

var evalRunID string

func init() {
	evalCmd.Flags().StringVar(&evalRunID, "run", "", "Run to evaluate (required)")
	evalCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(evalCmd)
}

// EvalResponse reports held-out metrics for a recorded run.
type EvalResponse struct {
	RunID   string           `json:"run_id"`
	Dataset string           `json:"dataset"`
	Counts  split.Counts     `json:"counts"`
	Test    train.Evaluation `json:"test"`
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Re-evaluate a trained run on its held-out edges",
	Long: `Re-evaluate a recorded run on its held-out test edges.

The run record's seed and split counts reconstruct the exact edge
split it was trained with, its checkpoint restores the trained
weights, and accuracy, AUC, and the confusion counts are recomputed.

Examples:
  kl eval --run run-20260830-120000
  kl eval --run run-20260830-120000 --human`,
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()

	db := mustOpenDatabase(root)
	defer db.Close()
	run := mustGetRun(db, evalRunID)

	g := mustLoadDataset(root, run.Dataset)

	// The run record carries the split counts, so config edits made
	// after training cannot change the held-out set.
	s, err := split.New(g, split.Options{
		TestPositives:  run.TestPositives,
		TrainNegatives: run.TrainNegatives,
		TestNegatives:  run.TestNegatives,
		Seed:           run.Seed,
	})
	if err != nil {
		exitWithError(ExitDataError, "rebuilding split: %v", err)
	}

	model := mustRestoreModel(root, run, g)

	eval, err := train.Evaluate(model, s)
	if err != nil {
		exitWithError(ExitError, "evaluating: %v", err)
	}

	if humanOutput {
		fmt.Printf("Run %s on %s\n", run.ID, run.Dataset)
		fmt.Printf("  Accuracy: %.1f%% (%d of %d test edges)\n",
			100*eval.Accuracy,
			eval.Confusion.TruePos+eval.Confusion.TrueNeg,
			len(s.TestPos)+len(s.TestNeg))
		fmt.Printf("  AUC:      %.4f\n", eval.AUC)
		fmt.Printf("  Confusion: TP %d  FP %d  TN %d  FN %d\n",
			eval.Confusion.TruePos, eval.Confusion.FalsePos,
			eval.Confusion.TrueNeg, eval.Confusion.FalseNeg)
	} else {
		outputJSON(EvalResponse{
			RunID:   run.ID,
			Dataset: run.Dataset,
			Counts:  s.Counts(),
			Test:    *eval,
		})
	}
	return nil
}
