package ranker

import (
	"sort"

	"github.com/Ahmed-Sermani/wikirank/graph"
)

// Cell is a non-zero entry of a transition matrix column.
type Cell struct {
	Row    int
	Weight float64
}

// TransitionMatrix is a sparse, column-normalized link matrix over the
// sorted set of titles that appear in an edge set. Column j lists the
// articles that title j links to together with the fraction of its links
// that point there.
type TransitionMatrix struct {
	Titles  []string
	Columns [][]Cell

	index map[string]int
}

// NewTransitionMatrix builds the matrix for edges. Every parallel edge adds
// one unit of weight to its cell before normalization. A title with no
// outbound edges gets an empty column.
func NewTransitionMatrix(edges []graph.Edge) *TransitionMatrix {
	seen := make(map[string]struct{})
	for _, e := range edges {
		seen[e.From] = struct{}{}
		seen[e.To] = struct{}{}
	}

	m := &TransitionMatrix{
		Titles: make([]string, 0, len(seen)),
		index:  make(map[string]int, len(seen)),
	}
	for title := range seen {
		m.Titles = append(m.Titles, title)
	}
	sort.Strings(m.Titles)
	for i, title := range m.Titles {
		m.index[title] = i
	}

	counts := make([]map[int]float64, len(m.Titles))
	for _, e := range edges {
		from, to := m.index[e.From], m.index[e.To]
		if counts[from] == nil {
			counts[from] = make(map[int]float64)
		}
		counts[from][to]++
	}

	m.Columns = make([][]Cell, len(m.Titles))
	for col, rows := range counts {
		if len(rows) == 0 {
			continue
		}

		var sum float64
		cells := make([]Cell, 0, len(rows))
		for row, count := range rows {
			cells = append(cells, Cell{Row: row, Weight: count})
			sum += count
		}
		sort.Slice(cells, func(i, j int) bool { return cells[i].Row < cells[j].Row })
		for i := range cells {
			cells[i].Weight /= sum
		}
		m.Columns[col] = cells
	}

	return m
}

// Size returns the number of distinct titles.
func (m *TransitionMatrix) Size() int { return len(m.Titles) }

// Index returns the position of title in the sorted title set.
func (m *TransitionMatrix) Index(title string) (int, bool) {
	i, ok := m.index[title]
	return i, ok
}

// At returns the weight of the cell at row, col.
func (m *TransitionMatrix) At(row, col int) float64 {
	for _, cell := range m.Columns[col] {
		if cell.Row == row {
			return cell.Weight
		}
	}
	return 0
}

// ColumnSum returns the sum of the weights in col: 1 for a title with
// outbound links and 0 for a dangling one.
func (m *TransitionMatrix) ColumnSum(col int) float64 {
	var sum float64
	for _, cell := range m.Columns[col] {
		sum += cell.Weight
	}
	return sum
}

// Dangling reports whether the title at col has no outbound links.
func (m *TransitionMatrix) Dangling(col int) bool { return len(m.Columns[col]) == 0 }
