package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/config"
	"github.com/matsen/karatelink/internal/nn"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set workspace configuration values",
	Long: `Get or set workspace configuration values.

Usage:
  kl config                  # Show all config
  kl config train.epochs     # Get one value
  kl config train.epochs 200 # Set a value

Keys:
  dataset               Default dataset name
  model.embed-dim       Embedding table width
  model.hidden-dim      First convolution output width
  model.out-dim         Second convolution output width
  split.test-positives  Edges held out for testing
  split.train-negatives Non-edges sampled for training
  split.test-negatives  Non-edges sampled for testing
  train.epochs          Training epochs
  train.lr              Learning rate
  train.optimizer       Optimizer (sgd or adam)
  train.seed            Split and init seed`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	// No args: show all config.
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("dataset:               %s\n", cfg.Dataset)
			fmt.Printf("model.embed-dim:       %d\n", cfg.Model.EmbedDim)
			fmt.Printf("model.hidden-dim:      %d\n", cfg.Model.HiddenDim)
			fmt.Printf("model.out-dim:         %d\n", cfg.Model.OutDim)
			fmt.Printf("split.test-positives:  %d\n", cfg.Split.TestPositives)
			fmt.Printf("split.train-negatives: %d\n", cfg.Split.TrainNegatives)
			fmt.Printf("split.test-negatives:  %d\n", cfg.Split.TestNegatives)
			fmt.Printf("train.epochs:          %d\n", cfg.Train.Epochs)
			fmt.Printf("train.lr:              %g\n", cfg.Train.LR)
			fmt.Printf("train.optimizer:       %s\n", cfg.Train.Optimizer)
			fmt.Printf("train.seed:            %d\n", cfg.Train.Seed)
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := args[0]

	// One arg: get a value.
	if len(args) == 1 {
		value, ok := configValue(cfg, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", key)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set a value.
	if err := setConfigValue(cfg, key, args[1]); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(config.ConfigPath(root)); err != nil {
		exitWithError(ExitConfigError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, args[1])
	} else {
		outputJSON(map[string]string{key: args[1]})
	}
	return nil
}

func configValue(cfg *config.Config, key string) (string, bool) {
	switch key {
	case "dataset":
		return cfg.Dataset, true
	case "model.embed-dim":
		return strconv.Itoa(cfg.Model.EmbedDim), true
	case "model.hidden-dim":
		return strconv.Itoa(cfg.Model.HiddenDim), true
	case "model.out-dim":
		return strconv.Itoa(cfg.Model.OutDim), true
	case "split.test-positives":
		return strconv.Itoa(cfg.Split.TestPositives), true
	case "split.train-negatives":
		return strconv.Itoa(cfg.Split.TrainNegatives), true
	case "split.test-negatives":
		return strconv.Itoa(cfg.Split.TestNegatives), true
	case "train.epochs":
		return strconv.Itoa(cfg.Train.Epochs), true
	case "train.lr":
		return strconv.FormatFloat(cfg.Train.LR, 'g', -1, 64), true
	case "train.optimizer":
		return cfg.Train.Optimizer, true
	case "train.seed":
		return strconv.FormatInt(cfg.Train.Seed, 10), true
	}
	return "", false
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "dataset":
		cfg.Dataset = value
		return nil
	case "train.optimizer":
		if _, err := nn.NewOptimizer(value, 1); err != nil {
			return err
		}
		cfg.Train.Optimizer = value
		return nil
	case "train.lr":
		lr, err := strconv.ParseFloat(value, 64)
		if err != nil || lr <= 0 {
			return fmt.Errorf("learning rate must be a positive number, got %q", value)
		}
		cfg.Train.LR = lr
		return nil
	case "train.seed":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("seed must be an integer, got %q", value)
		}
		cfg.Train.Seed = seed
		return nil
	}

	// The remaining keys are positive integer counts and dimensions.
	targets := map[string]*int{
		"model.embed-dim":       &cfg.Model.EmbedDim,
		"model.hidden-dim":      &cfg.Model.HiddenDim,
		"model.out-dim":         &cfg.Model.OutDim,
		"split.test-positives":  &cfg.Split.TestPositives,
		"split.train-negatives": &cfg.Split.TrainNegatives,
		"split.test-negatives":  &cfg.Split.TestNegatives,
		"train.epochs":          &cfg.Train.Epochs,
	}
	target, ok := targets[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	*target = n
	return nil
}
