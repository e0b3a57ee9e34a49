package memory

import "github.com/Ahmed-Sermani/wikirank/graph"

// edgeIterator walks a snapshot of the link list.
type edgeIterator struct {
	edges []graph.Edge
	cur   graph.Edge
}

func (i *edgeIterator) Next() bool {
	if len(i.edges) == 0 {
		return false
	}
	i.cur, i.edges = i.edges[0], i.edges[1:]
	return true
}

func (*edgeIterator) Error() error { return nil }

func (*edgeIterator) Close() error { return nil }

// Edge returns a copy of the current link so callers may keep it.
func (i *edgeIterator) Edge() *graph.Edge {
	e := i.cur
	return &e
}
