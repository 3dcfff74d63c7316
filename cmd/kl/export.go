package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/karatelink/internal/storage"
	"github.com/matsen/karatelink/internal/viz"
)

var (
	exportRunID       string
	exportFormat      string
	exportOutput      string
	exportLayout      string
	exportPredictions int
)

func init() {
	exportCmd.Flags().StringVar(&exportRunID, "run", "", "Overlay predicted links from this run")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "html", "Output format: html or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportLayout, "layout", "", "Node layout: "+strings.Join(viz.ValidLayouts, ", ")+" (default circle)")
	exportCmd.Flags().IntVar(&exportPredictions, "predictions", 10, "Number of predicted links to overlay with --run")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [dataset]",
	Short: "Export a graph visualization",
	Long: `Export a dataset as an interactive HTML page or Cytoscape.js JSON.

Nodes are colored by group label when the dataset has one (the karate
club's two factions). With --run, the run's top predicted missing links
are overlaid as dashed edges.

Examples:
  kl export -o karate.html
  kl export --run run-20260830-120000 --predictions 20 -o karate.html
  kl export --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	dataset := cfg.Dataset
	if len(args) == 1 {
		dataset = args[0]
	}

	var run *storage.Run
	if exportRunID != "" {
		db := mustOpenDatabase(root)
		defer db.Close()
		run = mustGetRun(db, exportRunID)
		if len(args) == 0 {
			// No explicit dataset given, follow the run.
			dataset = run.Dataset
		}
		if run.Dataset != dataset {
			exitWithError(ExitError, "run %s was trained on %q, not %q", run.ID, run.Dataset, dataset)
		}
	}

	g := mustLoadDataset(root, dataset)

	var predictions []viz.Prediction
	if run != nil {
		model := mustRestoreModel(root, run, g)
		predictions = viz.TopPredictions(g, model, exportPredictions)
	}

	data := viz.BuildGraphData(g, predictions)

	var content string
	var err error
	switch exportFormat {
	case "html":
		opts := viz.DefaultOptions()
		opts.Title = dataset
		if exportLayout != "" {
			opts.Layout = exportLayout
		}
		content, err = viz.GenerateHTML(data, opts)
	case "json":
		content, err = data.ToCytoscapeJSON()
	default:
		exitWithError(ExitError, "unknown format %q: must be html or json", exportFormat)
	}
	if err != nil {
		exitWithError(ExitError, "generating %s: %v", exportFormat, err)
	}

	if exportOutput == "" {
		fmt.Println(content)
		return nil
	}

	if err := os.WriteFile(exportOutput, []byte(content), 0644); err != nil {
		exitWithError(ExitError, "writing %s: %v", exportOutput, err)
	}
	if humanOutput {
		fmt.Printf("Wrote %s visualization of %s to %s\n", exportFormat, dataset, exportOutput)
	} else {
		outputJSON(StatusResponse{Status: "exported", Path: exportOutput})
	}
	return nil
}
