package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/karatelink/internal/graph"
)

func TestEdges_WriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.jsonl")
	edges := []graph.Edge{{Source: 0, Target: 1}, {Source: 1, Target: 2}, {Source: 0, Target: 3}}

	if err := WriteEdges(path, edges); err != nil {
		t.Fatalf("WriteEdges() error = %v", err)
	}

	got, err := ReadEdges(path)
	if err != nil {
		t.Fatalf("ReadEdges() error = %v", err)
	}
	if len(got) != len(edges) {
		t.Fatalf("ReadEdges() returned %d edges, want %d", len(got), len(edges))
	}
	for i := range edges {
		if got[i] != edges[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], edges[i])
		}
	}
}

func TestReadEdges_Missing(t *testing.T) {
	got, err := ReadEdges(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("ReadEdges() error = %v", err)
	}
	if got != nil {
		t.Errorf("ReadEdges() = %v, want nil", got)
	}
}

func TestReadEdges_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.jsonl")
	content := "{\"source\":0,\"target\":1}\n\n{\"source\":1,\"target\":2}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := ReadEdges(path)
	if err != nil {
		t.Fatalf("ReadEdges() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ReadEdges() returned %d edges, want 2", len(got))
	}
}

func TestReadEdges_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.jsonl")
	if err := os.WriteFile(path, []byte("{\"source\":0,\"target\":1}\nnot json\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := ReadEdges(path); err == nil {
		t.Error("ReadEdges() error = nil, want parse error")
	}
}

func TestNumNodesFor(t *testing.T) {
	tests := []struct {
		name  string
		edges []graph.Edge
		want  int
	}{
		{name: "empty", edges: nil, want: 0},
		{name: "single edge", edges: []graph.Edge{{Source: 0, Target: 1}}, want: 2},
		{name: "sparse ids", edges: []graph.Edge{{Source: 2, Target: 9}}, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NumNodesFor(tt.edges); got != tt.want {
				t.Errorf("NumNodesFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteEdges_KarateRoundtrip(t *testing.T) {
	g := graph.Karate()
	path := filepath.Join(t.TempDir(), "karate.jsonl")

	if err := WriteEdges(path, g.Edges); err != nil {
		t.Fatalf("WriteEdges() error = %v", err)
	}
	edges, err := ReadEdges(path)
	if err != nil {
		t.Fatalf("ReadEdges() error = %v", err)
	}

	rebuilt, err := graph.New(g.Name, NumNodesFor(edges), edges)
	if err != nil {
		t.Fatalf("graph.New() error = %v", err)
	}
	if rebuilt.NumNodes != 34 || rebuilt.NumEdges() != 78 {
		t.Errorf("rebuilt graph = %d nodes, %d edges; want 34, 78", rebuilt.NumNodes, rebuilt.NumEdges())
	}
}
