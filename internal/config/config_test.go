package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Dataset != "karate" {
		t.Errorf("Dataset = %q, want karate", cfg.Dataset)
	}
	if cfg.Model.EmbedDim != 5 || cfg.Model.HiddenDim != 16 || cfg.Model.OutDim != 16 {
		t.Errorf("Model = %+v, want 5/16/16", cfg.Model)
	}
	if cfg.Split.TestPositives != 50 || cfg.Split.TrainNegatives != 150 || cfg.Split.TestNegatives != 50 {
		t.Errorf("Split = %+v, want 50/150/50", cfg.Split)
	}
	if cfg.Train.Epochs != 100 || cfg.Train.Optimizer != "adam" {
		t.Errorf("Train = %+v, want 100 epochs of adam", cfg.Train)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Train.Epochs = 250
	cfg.Train.Optimizer = "sgd"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Train.Epochs != 250 {
		t.Errorf("Epochs = %d, want 250", loaded.Train.Epochs)
	}
	if loaded.Train.Optimizer != "sgd" {
		t.Errorf("Optimizer = %q, want sgd", loaded.Train.Optimizer)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Train.Epochs != 100 {
		t.Errorf("Epochs = %d, want default 100", cfg.Train.Epochs)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("train:\n  epochs: 7\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Train.Epochs != 7 {
		t.Errorf("Epochs = %d, want 7", cfg.Train.Epochs)
	}
	if cfg.Model.HiddenDim != 16 {
		t.Errorf("HiddenDim = %d, want default 16", cfg.Model.HiddenDim)
	}
	if cfg.Dataset != "karate" {
		t.Errorf("Dataset = %q, want default karate", cfg.Dataset)
	}
}

func TestInit_CreatesLayout(t *testing.T) {
	root := t.TempDir()

	if err := Init(root); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	for _, dir := range []string{WorkspacePath(root), DatasetsPath(root), CachePath(root), CheckpointsPath(root)} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("missing directory %s", dir)
		}
	}
	if _, err := os.Stat(ConfigPath(root)); err != nil {
		t.Errorf("missing config file: %v", err)
	}

	// Re-init must not clobber an edited config.
	cfg, err := Load(ConfigPath(root))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.Train.Epochs = 123
	if err := cfg.Save(ConfigPath(root)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := Init(root); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	cfg, err = Load(ConfigPath(root))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Train.Epochs != 123 {
		t.Errorf("Epochs = %d after re-init, want 123", cfg.Train.Epochs)
	}
}

func TestFindWorkspace(t *testing.T) {
	root := t.TempDir()
	if err := Init(root); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("creating nested dirs: %v", err)
	}

	got, err := FindWorkspace(nested)
	if err != nil {
		t.Fatalf("FindWorkspace() error = %v", err)
	}
	// Resolve symlinks so macOS /private/var temp paths compare equal.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("FindWorkspace() = %q, want %q", got, root)
	}
}

func TestFindWorkspace_NotFound(t *testing.T) {
	_, err := FindWorkspace(t.TempDir())
	if !errors.Is(err, ErrNotWorkspace) {
		t.Errorf("FindWorkspace() error = %v, want %v", err, ErrNotWorkspace)
	}
}
