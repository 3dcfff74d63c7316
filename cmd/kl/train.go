package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/config"
	"github.com/matsen/karatelink/internal/embed"
	"github.com/matsen/karatelink/internal/nn"
	"github.com/matsen/karatelink/internal/split"
	"github.com/matsen/karatelink/internal/storage"
	"github.com/matsen/karatelink/internal/train"
)

var (
	trainDataset   string
	trainEpochs    int
	trainLR        float64
	trainOptimizer string
	trainSeed      int64
)

func init() {
	trainCmd.Flags().StringVar(&trainDataset, "dataset", "", "Dataset to train on (default: workspace config)")
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 0, "Number of epochs (default: workspace config)")
	trainCmd.Flags().Float64Var(&trainLR, "lr", 0, "Learning rate (default: workspace config)")
	trainCmd.Flags().StringVar(&trainOptimizer, "optimizer", "", "Optimizer: sgd or adam (default: workspace config)")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "Seed for the split and weight init (default: workspace config)")
	rootCmd.AddCommand(trainCmd)
}

// TrainResponse summarizes a completed training run.
type TrainResponse struct {
	RunID     string           `json:"run_id"`
	Dataset   string           `json:"dataset"`
	Options   train.Options    `json:"options"`
	Counts    split.Counts     `json:"counts"`
	FinalLoss float64          `json:"final_loss"`
	Duration  time.Duration    `json:"duration_ns"`
	Test      train.Evaluation `json:"test"`
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the link prediction model",
	Long: `Train the two-layer link prediction model on a dataset.

The dataset's edges are split into train/test sets, the model is fit by
full-batch gradient descent on binary cross-entropy, and held-out
accuracy and AUC are reported. The run is recorded in the workspace
registry together with its loss curve, a weight checkpoint, and a node
embedding index for 'kl similar'.

The seed drives both the edge split and the weight initialization, and
is recorded alongside the split sizes and model dimensions, so
'kl eval --run' can rebuild the exact held-out set later.

Examples:
  kl train
  kl train --epochs 200 --optimizer sgd --human
  kl train --dataset dolphins --seed 7`,
	RunE: runTrain,
}

func runTrain(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	dataset := cfg.Dataset
	if trainDataset != "" {
		dataset = trainDataset
	}
	opts := train.Options{
		Epochs:    cfg.Train.Epochs,
		LR:        cfg.Train.LR,
		Optimizer: cfg.Train.Optimizer,
		Seed:      cfg.Train.Seed,
	}
	if cmd.Flags().Changed("epochs") {
		opts.Epochs = trainEpochs
	}
	if cmd.Flags().Changed("lr") {
		opts.LR = trainLR
	}
	if cmd.Flags().Changed("optimizer") {
		opts.Optimizer = trainOptimizer
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = trainSeed
	}

	g := mustLoadDataset(root, dataset)

	sopts := split.Options{
		TestPositives:  cfg.Split.TestPositives,
		TrainNegatives: cfg.Split.TrainNegatives,
		TestNegatives:  cfg.Split.TestNegatives,
		Seed:           opts.Seed,
	}
	s, err := split.New(g, sopts)
	if err != nil {
		exitWithError(ExitDataError, "splitting %s: %v", dataset, err)
	}

	mcfg := nn.Config{
		Nodes:     g.NumNodes,
		EmbedDim:  cfg.Model.EmbedDim,
		HiddenDim: cfg.Model.HiddenDim,
		OutDim:    cfg.Model.OutDim,
	}

	var onProgress func(train.Progress)
	if humanOutput {
		onProgress = func(p train.Progress) {
			fmt.Fprintf(os.Stderr, "epoch %d/%d  loss %.4f\n", p.Epoch, p.Epochs, p.Loss)
		}
	}

	model, res, err := train.Run(g, s, mcfg, opts, onProgress)
	if err != nil {
		exitWithError(ExitError, "training: %v", err)
	}

	runID := storage.NewRunID(time.Now())
	ckptPath := config.CheckpointPath(root, runID)
	if err := nn.NewCheckpoint(model, dataset).Save(ckptPath); err != nil {
		exitWithError(ExitError, "saving checkpoint: %v", err)
	}

	idx := embed.NewIndex(dataset, runID, mcfg.OutDim)
	if err := idx.AddAll(model.NodeEmbeddings()); err != nil {
		exitWithError(ExitError, "building embedding index: %v", err)
	}
	if err := idx.Save(config.EmbeddingsPath(root, runID)); err != nil {
		exitWithError(ExitError, "saving embedding index: %v", err)
	}

	db := mustOpenDatabase(root)
	defer db.Close()

	run := storage.Run{
		ID:             runID,
		CreatedAt:      time.Now().UTC(),
		Dataset:        dataset,
		Epochs:         opts.Epochs,
		LR:             opts.LR,
		Optimizer:      opts.Optimizer,
		Seed:           opts.Seed,
		TestPositives:  sopts.TestPositives,
		TrainNegatives: sopts.TrainNegatives,
		TestNegatives:  sopts.TestNegatives,
		EmbedDim:       mcfg.EmbedDim,
		HiddenDim:      mcfg.HiddenDim,
		OutDim:         mcfg.OutDim,
		FinalLoss:      res.FinalLoss,
		TestAccuracy:   res.Evaluation.Accuracy,
		TestAUC:        res.Evaluation.AUC,
		Duration:       res.Duration,
		CheckpointPath: ckptPath,
	}
	if err := db.SaveRun(run, res.LossHistory); err != nil {
		exitWithError(ExitError, "recording run: %v", err)
	}

	if humanOutput {
		fmt.Printf("\nRun %s on %s (%s)\n", runID, dataset, formatDuration(res.Duration))
		fmt.Printf("  Final loss:    %.4f\n", res.FinalLoss)
		fmt.Printf("  Test accuracy: %.1f%%\n", 100*res.Evaluation.Accuracy)
		fmt.Printf("  Test AUC:      %.4f\n", res.Evaluation.AUC)
	} else {
		outputJSON(TrainResponse{
			RunID:     runID,
			Dataset:   dataset,
			Options:   opts,
			Counts:    s.Counts(),
			FinalLoss: res.FinalLoss,
			Duration:  res.Duration,
			Test:      res.Evaluation,
		})
	}
	return nil
}
