package nn

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by checkpoint operations.
var (
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrUnsupportedVersion = errors.New("unsupported checkpoint version")
	ErrShapeMismatch      = errors.New("checkpoint weight shape mismatch")
)

// CurrentCheckpointVersion is the format version for compatibility checking.
// Increment this when making breaking changes to the checkpoint format.
const CurrentCheckpointVersion = 1

// WeightMatrix is a gob-friendly dense matrix.
type WeightMatrix struct {
	Rows, Cols int
	Data       []float64
}

// Checkpoint is a serializable snapshot of a trained model.
type Checkpoint struct {
	Version   int
	Dataset   string
	Config    Config
	CreatedAt time.Time
	Weights   map[string]WeightMatrix
}

// NewCheckpoint snapshots the model's current weights.
func NewCheckpoint(m *Model, dataset string) *Checkpoint {
	ckpt := &Checkpoint{
		Version:   CurrentCheckpointVersion,
		Dataset:   dataset,
		Config:    m.Config,
		CreatedAt: time.Now().UTC(),
		Weights:   make(map[string]WeightMatrix),
	}
	for _, p := range m.Params() {
		rows, cols := p.W.Dims()
		data := make([]float64, rows*cols)
		copy(data, p.W.RawMatrix().Data)
		ckpt.Weights[p.Name] = WeightMatrix{Rows: rows, Cols: cols, Data: data}
	}
	return ckpt
}

// Restore copies the checkpoint weights into the model. The model must
// have been built with the same Config.
func (c *Checkpoint) Restore(m *Model) error {
	for _, p := range m.Params() {
		w, ok := c.Weights[p.Name]
		if !ok {
			return fmt.Errorf("%w: missing weight %q", ErrShapeMismatch, p.Name)
		}
		rows, cols := p.W.Dims()
		if w.Rows != rows || w.Cols != cols {
			return fmt.Errorf("%w: %s is %dx%d, model wants %dx%d",
				ErrShapeMismatch, p.Name, w.Rows, w.Cols, rows, cols)
		}
		p.W.Copy(mat.NewDense(w.Rows, w.Cols, w.Data))
	}
	return nil
}

// Save persists the checkpoint using GOB encoding. The write goes to a
// temp file first and is renamed into place for atomicity.
func (c *Checkpoint) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding checkpoint: %w", err)
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

// LoadCheckpoint reads a checkpoint from disk.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("opening checkpoint: %w", err)
	}
	defer f.Close()

	var ckpt Checkpoint
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&ckpt); err != nil {
		return nil, fmt.Errorf("decoding checkpoint: %w", err)
	}

	if ckpt.Version != CurrentCheckpointVersion {
		return nil, fmt.Errorf("%w: got %d, want %d",
			ErrUnsupportedVersion, ckpt.Version, CurrentCheckpointVersion)
	}

	return &ckpt, nil
}
