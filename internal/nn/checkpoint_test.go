package nn

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/matsen/karatelink/internal/graph"
)

func TestCheckpoint_Roundtrip(t *testing.T) {
	g := graph.Karate()
	cfg := DefaultConfig(g.NumNodes)
	m := NewModel(g, cfg, 11)

	path := filepath.Join(t.TempDir(), "model.gob")
	ckpt := NewCheckpoint(m, g.Name)
	if err := ckpt.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("LoadCheckpoint() error = %v", err)
	}
	if loaded.Dataset != g.Name {
		t.Errorf("Dataset = %q, want %q", loaded.Dataset, g.Name)
	}
	if loaded.Config != cfg {
		t.Errorf("Config = %+v, want %+v", loaded.Config, cfg)
	}

	// Restore into a differently-seeded model and compare weights.
	restored := NewModel(g, cfg, 99)
	if err := loaded.Restore(restored); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	for i, p := range m.Params() {
		q := restored.Params()[i]
		rows, cols := p.W.Dims()
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if p.W.At(r, c) != q.W.At(r, c) {
					t.Fatalf("%s[%d,%d] = %v after restore, want %v",
						q.Name, r, c, q.W.At(r, c), p.W.At(r, c))
				}
			}
		}
	}
}

func TestCheckpoint_NotFound(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "missing.gob"))
	if !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("LoadCheckpoint() error = %v, want %v", err, ErrCheckpointNotFound)
	}
}

func TestCheckpoint_VersionMismatch(t *testing.T) {
	g := graph.Karate()
	m := NewModel(g, DefaultConfig(g.NumNodes), 1)

	ckpt := NewCheckpoint(m, g.Name)
	ckpt.Version = 99

	path := filepath.Join(t.TempDir(), "model.gob")
	if err := ckpt.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := LoadCheckpoint(path)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("LoadCheckpoint() error = %v, want %v", err, ErrUnsupportedVersion)
	}
}

func TestCheckpoint_ShapeMismatch(t *testing.T) {
	g := graph.Karate()
	m := NewModel(g, DefaultConfig(g.NumNodes), 1)
	ckpt := NewCheckpoint(m, g.Name)

	other := NewModel(g, Config{Nodes: g.NumNodes, EmbedDim: 3, HiddenDim: 4, OutDim: 4}, 1)
	if err := ckpt.Restore(other); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Restore() error = %v, want %v", err, ErrShapeMismatch)
	}
}
