// Package config handles workspace discovery and configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotWorkspace is returned when no workspace is found.
var ErrNotWorkspace = errors.New("not inside a karatelink workspace (run 'kl init')")

// Workspace layout constants.
const (
	WorkspaceDir   = ".karatelink"
	ConfigFile     = "config.yaml"
	DatasetsDir    = "datasets"
	CacheDir       = "cache"
	CheckpointsDir = "checkpoints"
	DBFile         = "runs.db"
)

// WorkspacePath returns the path to the .karatelink directory from a root.
func WorkspacePath(root string) string {
	return filepath.Join(root, WorkspaceDir)
}

// ConfigPath returns the path to config.yaml from a root.
func ConfigPath(root string) string {
	return filepath.Join(root, WorkspaceDir, ConfigFile)
}

// DatasetsPath returns the directory holding imported dataset edge lists.
func DatasetsPath(root string) string {
	return filepath.Join(root, WorkspaceDir, DatasetsDir)
}

// DatasetPath returns the JSONL path of a named dataset.
func DatasetPath(root, name string) string {
	return filepath.Join(root, WorkspaceDir, DatasetsDir, name+".jsonl")
}

// CachePath returns the cache directory.
func CachePath(root string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir)
}

// DBPath returns the path to the run registry database.
func DBPath(root string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir, DBFile)
}

// CheckpointsPath returns the directory holding model checkpoints.
func CheckpointsPath(root string) string {
	return filepath.Join(root, WorkspaceDir, CheckpointsDir)
}

// CheckpointPath returns the checkpoint path of a run.
func CheckpointPath(root, runID string) string {
	return filepath.Join(root, WorkspaceDir, CheckpointsDir, runID+".gob")
}

// EmbeddingsPath returns the embedding index path of a run.
func EmbeddingsPath(root, runID string) string {
	return filepath.Join(root, WorkspaceDir, CacheDir, runID+".embeddings.gob")
}

// IsWorkspace checks if the given path contains a karatelink workspace.
func IsWorkspace(root string) bool {
	info, err := os.Stat(WorkspacePath(root))
	return err == nil && info.IsDir()
}

// FindWorkspace walks up from the given path to find a workspace root.
func FindWorkspace(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsWorkspace(abs) {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotWorkspace
		}
		abs = parent
	}
}

// Init creates the workspace directory structure under root and writes the
// default configuration. Existing configuration is left untouched.
func Init(root string) error {
	dirs := []string{
		WorkspacePath(root),
		DatasetsPath(root),
		CachePath(root),
		CheckpointsPath(root),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	path := ConfigPath(root)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Default().Save(path)
}
