package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/config"
	"github.com/matsen/karatelink/internal/graph"
	"github.com/matsen/karatelink/internal/storage"
)

var graphExportOutput string

func init() {
	graphExportCmd.Flags().StringVarP(&graphExportOutput, "output", "o", "", "Output file (default: stdout)")
	graphCmd.AddCommand(graphInfoCmd)
	graphCmd.AddCommand(graphImportCmd)
	graphCmd.AddCommand(graphExportCmd)
	graphCmd.AddCommand(graphListCmd)
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect and manage graph datasets",
}

// GraphInfoResponse describes a dataset.
type GraphInfoResponse struct {
	Name     string  `json:"name"`
	Nodes    int     `json:"nodes"`
	Edges    int     `json:"edges"`
	NonEdges int     `json:"non_edges"`
	Density  float64 `json:"density"`
	MinDeg   int     `json:"min_degree"`
	MaxDeg   int     `json:"max_degree"`
	MeanDeg  float64 `json:"mean_degree"`
}

var graphInfoCmd = &cobra.Command{
	Use:   "info [dataset]",
	Short: "Show dataset statistics",
	Long: `Show node, edge, and degree statistics for a dataset.

Defaults to the dataset named in the workspace config. The builtin
"karate" dataset is always available.

Examples:
  kl graph info
  kl graph info karate --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraphInfo,
}

func runGraphInfo(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	name := cfg.Dataset
	if len(args) == 1 {
		name = args[0]
	}
	g := mustLoadDataset(root, name)

	minDeg, maxDeg := g.Degree(0), g.Degree(0)
	for u := 1; u < g.NumNodes; u++ {
		d := g.Degree(u)
		if d < minDeg {
			minDeg = d
		}
		if d > maxDeg {
			maxDeg = d
		}
	}
	pairs := g.NumNodes * (g.NumNodes - 1) / 2

	info := GraphInfoResponse{
		Name:     g.Name,
		Nodes:    g.NumNodes,
		Edges:    g.NumEdges(),
		NonEdges: pairs - g.NumEdges(),
		Density:  float64(g.NumEdges()) / float64(pairs),
		MinDeg:   minDeg,
		MaxDeg:   maxDeg,
		MeanDeg:  2 * float64(g.NumEdges()) / float64(g.NumNodes),
	}

	if humanOutput {
		fmt.Printf("Dataset: %s\n", info.Name)
		fmt.Printf("  Nodes:       %d\n", info.Nodes)
		fmt.Printf("  Edges:       %d\n", info.Edges)
		fmt.Printf("  Non-edges:   %d\n", info.NonEdges)
		fmt.Printf("  Density:     %.4f\n", info.Density)
		fmt.Printf("  Degree:      min %d, max %d, mean %.2f\n", info.MinDeg, info.MaxDeg, info.MeanDeg)
	} else {
		outputJSON(info)
	}
	return nil
}

var graphImportCmd = &cobra.Command{
	Use:   "import <name> <file>",
	Short: "Import a JSONL edge list as a named dataset",
	Long: `Import an edge list into the workspace as a named dataset.

The input file must contain one JSON edge object per line:
  {"source": 0, "target": 5}

Edges are validated (no self loops, no duplicates) and stored under
.karatelink/datasets/<name>.jsonl.

Examples:
  kl graph import dolphins edges.jsonl`,
	Args: cobra.ExactArgs(2),
	RunE: runGraphImport,
}

func runGraphImport(cmd *cobra.Command, args []string) error {
	name, file := args[0], args[1]
	root := mustFindWorkspace()

	if name == graph.KarateName {
		exitWithError(ExitError, "dataset name %q is reserved for the builtin graph", name)
	}
	if strings.ContainsAny(name, "/\\ ") {
		exitWithError(ExitError, "dataset name %q may not contain spaces or path separators", name)
	}

	edges, err := storage.ReadEdges(file)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", file, err)
	}
	if edges == nil {
		exitWithError(ExitDataError, "file not found: %s", file)
	}
	if len(edges) == 0 {
		exitWithError(ExitDataError, "no edges in %s", file)
	}

	// Validate before writing anything into the workspace.
	g, err := graph.New(name, storage.NumNodesFor(edges), edges)
	if err != nil {
		exitWithError(ExitDataError, "validating edge list: %v", err)
	}

	dest := config.DatasetPath(root, name)
	if _, err := os.Stat(dest); err == nil {
		exitWithError(ExitError, "dataset %q already exists", name)
	}
	if err := storage.WriteEdges(dest, g.Edges); err != nil {
		exitWithError(ExitError, "writing dataset: %v", err)
	}

	if humanOutput {
		fmt.Printf("Imported %s: %d nodes, %d edges\n", name, g.NumNodes, g.NumEdges())
	} else {
		outputJSON(GraphInfoResponse{
			Name:    name,
			Nodes:   g.NumNodes,
			Edges:   g.NumEdges(),
			Density: float64(g.NumEdges()) / float64(g.NumNodes*(g.NumNodes-1)/2),
			MeanDeg: 2 * float64(g.NumEdges()) / float64(g.NumNodes),
		})
	}
	return nil
}

var graphExportCmd = &cobra.Command{
	Use:   "export [dataset]",
	Short: "Export a dataset as a JSONL edge list",
	Long: `Export a dataset's edge list as JSONL, one edge object per line.

The output round-trips through 'kl graph import'. The builtin karate
dataset can be exported too.

Examples:
  kl graph export
  kl graph export karate -o karate.jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraphExport,
}

func runGraphExport(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	name := cfg.Dataset
	if len(args) == 1 {
		name = args[0]
	}
	g := mustLoadDataset(root, name)

	if graphExportOutput != "" {
		if err := storage.WriteEdges(graphExportOutput, g.Edges); err != nil {
			exitWithError(ExitError, "writing %s: %v", graphExportOutput, err)
		}
		if humanOutput {
			fmt.Printf("Exported %s (%d edges) to %s\n", name, g.NumEdges(), graphExportOutput)
		} else {
			outputJSON(StatusResponse{Status: "exported", Path: graphExportOutput})
		}
		return nil
	}

	for _, e := range g.Edges {
		line, err := json.Marshal(e)
		if err != nil {
			exitWithError(ExitError, "encoding edge: %v", err)
		}
		fmt.Println(string(line))
	}
	return nil
}

// DatasetEntry is one row of the dataset listing.
type DatasetEntry struct {
	Name    string `json:"name"`
	Builtin bool   `json:"builtin"`
}

var graphListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available datasets",
	RunE:  runGraphList,
}

func runGraphList(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()

	datasets := []DatasetEntry{{Name: graph.KarateName, Builtin: true}}

	matches, err := filepath.Glob(filepath.Join(config.DatasetsPath(root), "*.jsonl"))
	if err != nil {
		exitWithError(ExitError, "listing datasets: %v", err)
	}
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), ".jsonl")
		datasets = append(datasets, DatasetEntry{Name: name})
	}

	if humanOutput {
		for _, d := range datasets {
			if d.Builtin {
				fmt.Printf("  %s (builtin)\n", d.Name)
			} else {
				fmt.Printf("  %s\n", d.Name)
			}
		}
	} else {
		outputJSON(datasets)
	}
	return nil
}
