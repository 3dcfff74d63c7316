package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/viz"
)

var (
	predictRunID string
	predictLimit int
)

func init() {
	predictCmd.Flags().StringVar(&predictRunID, "run", "", "Run whose model to use (default: latest)")
	predictCmd.Flags().IntVarP(&predictLimit, "limit", "l", 10, "Maximum number of candidates (0 = all)")
	rootCmd.AddCommand(predictCmd)
}

// PredictResponse lists the most likely missing links.
type PredictResponse struct {
	RunID       string           `json:"run_id"`
	Dataset     string           `json:"dataset"`
	Predictions []viz.Prediction `json:"predictions"`
	Total       int              `json:"total"`
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Rank the most likely missing links",
	Long: `Score every node pair that is not an edge with a trained model and
rank them by predicted link probability.

Uses the checkpoint of the given run, or the most recent run when
--run is omitted. Note that held-out test edges are themselves
non-edges from the model's point of view, so they usually dominate
the top of the ranking.

Examples:
  kl predict
  kl predict --run run-20260830-120000 --limit 20 --human`,
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	db := mustOpenDatabase(root)
	defer db.Close()
	run := mustResolveRun(db, predictRunID)

	g := mustLoadDataset(root, run.Dataset)
	model := mustRestoreModel(root, run, g)

	preds := viz.TopPredictions(g, model, predictLimit)

	if humanOutput {
		fmt.Printf("Top predicted links for %s (run %s):\n", run.Dataset, run.ID)
		for _, p := range preds {
			fmt.Printf("  (%2d, %2d)  %.4f\n", p.Source, p.Target, p.Probability)
		}
	} else {
		if preds == nil {
			preds = []viz.Prediction{}
		}
		outputJSON(PredictResponse{
			RunID:       run.ID,
			Dataset:     run.Dataset,
			Predictions: preds,
			Total:       len(preds),
		})
	}
	return nil
}
