package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/config"
	"github.com/matsen/karatelink/internal/embed"
)

var (
	similarRunID string
	similarLimit int
)

func init() {
	similarCmd.Flags().StringVar(&similarRunID, "run", "", "Run whose embeddings to search (default: latest)")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "l", 10, "Maximum number of results")
	rootCmd.AddCommand(similarCmd)
}

// SimilarResponse lists the nodes closest to a query node in
// embedding space.
type SimilarResponse struct {
	RunID   string               `json:"run_id"`
	Dataset string               `json:"dataset"`
	Node    int                  `json:"node"`
	Similar []embed.SearchResult `json:"similar"`
	Total   int                  `json:"total"`
}

var similarCmd = &cobra.Command{
	Use:   "similar <node>",
	Short: "Find nodes with similar learned embeddings",
	Long: `Find the nodes closest to a given node in the trained embedding
space, by cosine similarity over the model's output representations.

Nodes that end up close together tend to share neighborhoods, so on the
karate club graph this surfaces each member's faction.

Uses the embedding index of the given run, or the most recent run when
--run is omitted.

Examples:
  kl similar 0
  kl similar 33 --limit 5 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func runSimilar(cmd *cobra.Command, args []string) error {
	node, err := strconv.Atoi(args[0])
	if err != nil {
		exitWithError(ExitError, "invalid node id %q", args[0])
	}

	root := mustFindWorkspace()
	db := mustOpenDatabase(root)
	defer db.Close()
	run := mustResolveRun(db, similarRunID)

	idx, err := embed.Load(config.EmbeddingsPath(root, run.ID))
	if err != nil {
		exitWithError(ExitDataError, "loading embedding index for %s: %v", run.ID, err)
	}
	if !idx.HasNode(node) {
		exitWithError(ExitDataError, "node %d is not in the %s embedding index (%d nodes)", node, run.ID, idx.Len())
	}

	results, err := idx.FindSimilar(node, similarLimit)
	if err != nil {
		exitWithError(ExitError, "searching embeddings: %v", err)
	}

	if humanOutput {
		fmt.Printf("Nodes similar to %d (%s, run %s):\n", node, run.Dataset, run.ID)
		for _, r := range results {
			fmt.Printf("  %3d  %.4f\n", r.Node, r.Similarity)
		}
	} else {
		outputJSON(SimilarResponse{
			RunID:   run.ID,
			Dataset: run.Dataset,
			Node:    node,
			Similar: results,
			Total:   len(results),
		})
	}
	return nil
}
