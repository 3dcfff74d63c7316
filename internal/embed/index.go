// Package embed provides a similarity index over trained node embeddings.
package embed

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Errors returned by index operations.
var (
	ErrIndexNotFound      = errors.New("embedding index not found")
	ErrNodeNotIndexed     = errors.New("node not in embedding index")
	ErrUnsupportedVersion = errors.New("unsupported index version")
	ErrDimensionMismatch  = errors.New("embedding dimension mismatch")
)

// CurrentIndexVersion is the format version for compatibility checking.
// Increment this when making breaking changes to the index format.
const CurrentIndexVersion = 1

// Index holds the final-layer embedding of every node of a trained model.
type Index struct {
	Version    int
	Dataset    string
	RunID      string
	Dimensions int
	CreatedAt  time.Time
	Embeddings map[int][]float32
}

// SearchResult is a node ranked by similarity to a query.
type SearchResult struct {
	Node       int     `json:"node"`
	Similarity float32 `json:"similarity"`
}

// NewIndex creates an empty index for a dataset and run.
func NewIndex(dataset, runID string, dimensions int) *Index {
	return &Index{
		Version:    CurrentIndexVersion,
		Dataset:    dataset,
		RunID:      runID,
		Dimensions: dimensions,
		CreatedAt:  time.Now().UTC(),
		Embeddings: make(map[int][]float32),
	}
}

// Add stores a node embedding.
func (idx *Index) Add(node int, embedding []float32) error {
	if len(embedding) != idx.Dimensions {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(embedding), idx.Dimensions)
	}
	idx.Embeddings[node] = embedding
	return nil
}

// AddAll stores one embedding per node, with node ids 0..len-1.
func (idx *Index) AddAll(embeddings [][]float32) error {
	for node, vec := range embeddings {
		if err := idx.Add(node, vec); err != nil {
			return fmt.Errorf("node %d: %w", node, err)
		}
	}
	return nil
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int {
	return len(idx.Embeddings)
}

// HasNode checks whether a node is indexed.
func (idx *Index) HasNode(node int) bool {
	_, ok := idx.Embeddings[node]
	return ok
}

// Save persists the index using GOB encoding. The write goes to a temp
// file first and is renamed into place for atomicity.
func (idx *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(idx); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding index: %w", err)
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

// Load reads an index from disk.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	var idx Index
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&idx); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	if idx.Version != CurrentIndexVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, idx.Version, CurrentIndexVersion)
	}

	return &idx, nil
}
