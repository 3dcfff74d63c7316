package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/karatelink/internal/graph"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines.
const MaxJSONLLineCapacity = 1024 * 1024

// ReadEdges reads a dataset edge list from a JSONL file, one edge object
// per line. Returns nil for a missing file.
func ReadEdges(path string) ([]graph.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening edges file: %w", err)
	}
	defer f.Close()

	var edges []graph.Edge
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e graph.Edge
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		edges = append(edges, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading edges file: %w", err)
	}

	return edges, nil
}

// WriteEdges writes a dataset edge list as JSONL, replacing any existing
// file. The write goes to a temp file first and is renamed into place.
func WriteEdges(path string, edges []graph.Edge) error {
	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, e := range edges {
		if err := enc.Encode(e); err != nil {
			f.Close()
			os.Remove(tempPath)
			return fmt.Errorf("encoding edge (%d, %d): %w", e.Source, e.Target, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("flushing edges file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// NumNodesFor infers the node count of an edge list as the highest node
// id plus one. Datasets with trailing isolated nodes should pass an
// explicit count instead.
func NumNodesFor(edges []graph.Edge) int {
	max := -1
	for _, e := range edges {
		if e.Source > max {
			max = e.Source
		}
		if e.Target > max {
			max = e.Target
		}
	}
	return max + 1
}
