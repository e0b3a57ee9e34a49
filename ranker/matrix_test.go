package ranker

import (
	"math"

	"github.com/Ahmed-Sermani/wikirank/graph"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(MatrixTestSuite))

type MatrixTestSuite struct{}

func (s *MatrixTestSuite) TestColumnStochastic(c *gc.C) {
	m := NewTransitionMatrix([]graph.Edge{
		{From: "C", To: "A"},
		{From: "A", To: "B"},
		{From: "A", To: "C"},
		{From: "A", To: "C"},
		{From: "B", To: "D"},
	})

	c.Assert(m.Titles, gc.DeepEquals, []string{"A", "B", "C", "D"})
	for col, title := range m.Titles {
		sum := m.ColumnSum(col)
		if title == "D" {
			c.Assert(m.Dangling(col), gc.Equals, true)
			c.Assert(sum, gc.Equals, 0.0)
			continue
		}
		c.Assert(math.Abs(sum-1) < 1e-12, gc.Equals, true, gc.Commentf("column %s sums to %v", title, sum))
	}
}

func (s *MatrixTestSuite) TestParallelEdgesAddWeight(c *gc.C) {
	m := NewTransitionMatrix([]graph.Edge{
		{From: "A", To: "B"},
		{From: "A", To: "C"},
		{From: "A", To: "C"},
	})

	a, _ := m.Index("A")
	b, _ := m.Index("B")
	cc, _ := m.Index("C")
	c.Assert(m.At(b, a), gc.Equals, 1.0/3.0)
	c.Assert(m.At(cc, a), gc.Equals, 2.0/3.0)
	c.Assert(m.At(a, a), gc.Equals, 0.0)
}

func (s *MatrixTestSuite) TestSelfLinkIsKept(c *gc.C) {
	m := NewTransitionMatrix([]graph.Edge{
		{From: "A", To: "A"},
		{From: "A", To: "B"},
	})

	a, _ := m.Index("A")
	c.Assert(m.At(a, a), gc.Equals, 0.5)
	_, found := m.Index("Z")
	c.Assert(found, gc.Equals, false)
}
