package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds workspace defaults for splitting and training, stored in
// .karatelink/config.yaml. Command-line flags override these values.
type Config struct {
	Dataset string      `yaml:"dataset"`
	Model   ModelConfig `yaml:"model"`
	Split   SplitConfig `yaml:"split"`
	Train   TrainConfig `yaml:"train"`
}

// ModelConfig holds the network dimensions.
type ModelConfig struct {
	EmbedDim  int `yaml:"embed_dim"`
	HiddenDim int `yaml:"hidden_dim"`
	OutDim    int `yaml:"out_dim"`
}

// SplitConfig holds the edge split sizes.
type SplitConfig struct {
	TestPositives  int `yaml:"test_positives"`
	TrainNegatives int `yaml:"train_negatives"`
	TestNegatives  int `yaml:"test_negatives"`
}

// TrainConfig holds the training hyperparameters.
type TrainConfig struct {
	Epochs    int     `yaml:"epochs"`
	LR        float64 `yaml:"lr"`
	Optimizer string  `yaml:"optimizer"`
	Seed      int64   `yaml:"seed"`
}

// Default returns the configuration of the karate club demonstration.
func Default() *Config {
	return &Config{
		Dataset: "karate",
		Model: ModelConfig{
			EmbedDim:  5,
			HiddenDim: 16,
			OutDim:    16,
		},
		Split: SplitConfig{
			TestPositives:  50,
			TrainNegatives: 150,
			TestNegatives:  50,
		},
		Train: TrainConfig{
			Epochs:    100,
			LR:        0.01,
			Optimizer: "adam",
			Seed:      1,
		},
	}
}

// Load reads the configuration from path. Missing fields fall back to
// defaults so old config files keep working.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
