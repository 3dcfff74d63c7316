package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/split"
)

var (
	splitDataset string
	splitSeed    int64
	splitVerbose bool
)

func init() {
	splitCmd.Flags().StringVar(&splitDataset, "dataset", "", "Dataset to split (default: workspace config)")
	splitCmd.Flags().Int64Var(&splitSeed, "seed", 0, "Shuffle seed (default: workspace config)")
	splitCmd.Flags().BoolVar(&splitVerbose, "edges", false, "Include the full edge sets in the output")
	rootCmd.AddCommand(splitCmd)
}

// SplitResponse reports the deterministic edge split for a dataset.
type SplitResponse struct {
	Dataset string       `json:"dataset"`
	Seed    int64        `json:"seed"`
	Counts  split.Counts `json:"counts"`
	Split   *split.Split `json:"split,omitempty"`
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Preview the train/test edge split",
	Long: `Preview the train/test edge split for a dataset.

Positive edges are shuffled and a fixed number held out for testing;
negative examples are sampled from node pairs that are not edges. The
same seed always produces the same split, so 'kl train' and 'kl eval'
can reconstruct it from a run record.

Examples:
  kl split
  kl split --seed 7 --human
  kl split --edges`,
	RunE: runSplit,
}

func runSplit(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	dataset := cfg.Dataset
	if splitDataset != "" {
		dataset = splitDataset
	}
	seed := cfg.Train.Seed
	if cmd.Flags().Changed("seed") {
		seed = splitSeed
	}

	g := mustLoadDataset(root, dataset)

	opts := split.Options{
		TestPositives:  cfg.Split.TestPositives,
		TrainNegatives: cfg.Split.TrainNegatives,
		TestNegatives:  cfg.Split.TestNegatives,
		Seed:           seed,
	}
	s, err := split.New(g, opts)
	if err != nil {
		exitWithError(ExitDataError, "splitting %s: %v", dataset, err)
	}

	counts := s.Counts()
	if humanOutput {
		fmt.Printf("Split of %s (seed %d):\n", dataset, seed)
		fmt.Printf("  Train: %d positive, %d negative\n", counts.TrainPos, counts.TrainNeg)
		fmt.Printf("  Test:  %d positive, %d negative\n", counts.TestPos, counts.TestNeg)
	} else {
		resp := SplitResponse{Dataset: dataset, Seed: seed, Counts: counts}
		if splitVerbose {
			resp.Split = s
		}
		outputJSON(resp)
	}
	return nil
}
