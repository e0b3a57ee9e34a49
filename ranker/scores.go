package ranker

import (
	"sort"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"golang.org/x/xerrors"
)

// Score is the final rank of one article.
type Score struct {
	Title string
	Rank  float64
}

// SortScores orders scores by descending rank. Equal ranks are ordered by
// title.
func SortScores(scores []Score) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Rank != scores[j].Rank {
			return scores[i].Rank > scores[j].Rank
		}
		return scores[i].Title < scores[j].Title
	})
}

// Top returns the first k entries of sorted scores.
func Top(scores []Score, k int) []Score {
	if k < len(scores) {
		return scores[:k]
	}
	return scores
}

// CollectEdges drains it into a slice and closes it.
func CollectEdges(it graph.EdgeIterator) ([]graph.Edge, error) {
	var edges []graph.Edge
	for it.Next() {
		edges = append(edges, *it.Edge())
	}
	if err := it.Error(); err != nil {
		_ = it.Close()
		return nil, xerrors.Errorf("read edges: %w", err)
	}
	if err := it.Close(); err != nil {
		return nil, xerrors.Errorf("read edges: %w", err)
	}
	return edges, nil
}
