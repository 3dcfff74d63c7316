// Package main provides the kl CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/config"
	"github.com/matsen/karatelink/internal/graph"
	"github.com/matsen/karatelink/internal/nn"
	"github.com/matsen/karatelink/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kl",
	Short: "Link prediction on small graphs",
	Long: `kl trains a two-layer neighbor-aggregation network to predict
missing links in small graphs, starting from the builtin 34-node
karate club social network.

Edges are split into positive/negative train/test sets, a learned
embedding table plus two graph convolution layers are fit by gradient
descent, and held-out accuracy is reported. Runs are recorded in an
ephemeral SQLite registry inside the workspace. All commands output
JSON by default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Allow KL_* settings from a local .env file.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a
// workspace. The KL_ROOT environment variable takes precedence.
func getStartingDirectory() (string, int) {
	if root := os.Getenv("KL_ROOT"); root != "" {
		return root, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindWorkspace finds and validates the workspace, exits on error.
func mustFindWorkspace() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	root, err := config.FindWorkspace(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return root
}

// mustLoadConfig loads the workspace configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(config.ConfigPath(root))
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the run registry, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening run registry: %v", err)
	}
	return db
}

// mustLoadDataset resolves a dataset name to a graph: the builtin karate
// club, or an imported JSONL edge list in the workspace.
func mustLoadDataset(root, name string) *graph.Graph {
	if name == graph.KarateName {
		return graph.Karate()
	}

	edges, err := storage.ReadEdges(config.DatasetPath(root, name))
	if err != nil {
		exitWithError(ExitDataError, "reading dataset %q: %v", name, err)
	}
	if edges == nil {
		exitWithError(ExitDataError, "dataset %q not found (run 'kl graph import')", name)
	}

	g, err := graph.New(name, storage.NumNodesFor(edges), edges)
	if err != nil {
		exitWithError(ExitDataError, "building dataset %q: %v", name, err)
	}
	return g
}

// mustRestoreModel rebuilds a run's model from its checkpoint.
func mustRestoreModel(root string, run *storage.Run, g *graph.Graph) *nn.Model {
	ckpt, err := nn.LoadCheckpoint(config.CheckpointPath(root, run.ID))
	if err != nil {
		exitWithError(ExitDataError, "loading checkpoint for %s: %v", run.ID, err)
	}

	m := nn.NewModel(g, nn.Config{
		Nodes:     g.NumNodes,
		EmbedDim:  run.EmbedDim,
		HiddenDim: run.HiddenDim,
		OutDim:    run.OutDim,
	}, run.Seed)
	if err := ckpt.Restore(m); err != nil {
		exitWithError(ExitDataError, "restoring weights for %s: %v", run.ID, err)
	}
	return m
}

// mustResolveRun returns the named run, or the most recent one when
// id is empty.
func mustResolveRun(db *storage.DB, id string) *storage.Run {
	if id != "" {
		return mustGetRun(db, id)
	}
	runs, err := db.ListRuns(1)
	if err != nil {
		exitWithError(ExitError, "listing runs: %v", err)
	}
	if len(runs) == 0 {
		exitWithError(ExitDataError, "no recorded runs (run 'kl train' first)")
	}
	return &runs[0]
}

// mustGetRun fetches a run record, exits when missing.
func mustGetRun(db *storage.DB, id string) *storage.Run {
	run, err := db.GetRun(id)
	if err != nil {
		exitWithError(ExitError, "loading run %s: %v", id, err)
	}
	if run == nil {
		exitWithError(ExitDataError, "run %s not found (see 'kl runs')", id)
	}
	return run
}
