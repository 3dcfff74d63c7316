package embed

import (
	"sort"

	"github.com/viterin/vek/vek32"
)

// Search ranks all indexed nodes by cosine similarity to a query vector.
// Results are sorted descending and truncated to limit (0 = all).
func (idx *Index) Search(query []float32, limit int) ([]SearchResult, error) {
	if len(query) != idx.Dimensions {
		return nil, ErrDimensionMismatch
	}

	results := make([]SearchResult, 0, len(idx.Embeddings))
	for node, vec := range idx.Embeddings {
		results = append(results, SearchResult{
			Node:       node,
			Similarity: vek32.CosineSimilarity(query, vec),
		})
	}

	sortResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// FindSimilar ranks nodes by similarity to a given node, excluding the
// node itself.
func (idx *Index) FindSimilar(node int, limit int) ([]SearchResult, error) {
	query, ok := idx.Embeddings[node]
	if !ok {
		return nil, ErrNodeNotIndexed
	}

	ranked, err := idx.Search(query, 0)
	if err != nil {
		return nil, err
	}

	results := ranked[:0]
	for _, r := range ranked {
		if r.Node != node {
			results = append(results, r)
		}
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// sortResults orders by similarity descending, breaking ties by node id
// so output is stable.
func sortResults(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Node < results[j].Node
	})
}
