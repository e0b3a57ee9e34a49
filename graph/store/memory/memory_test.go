package memory

import (
	"testing"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"github.com/Ahmed-Sermani/wikirank/graph/graphtest"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(InMemoryGraphTestSuite))

func Test(t *testing.T) {
	gc.TestingT(t)
}

type InMemoryGraphTestSuite struct {
	graphtest.SuiteBase
}

func (s *InMemoryGraphTestSuite) SetUpTest(c *gc.C) {
	s.SetGraph(NewInMemoryGraph())
}

func (s *InMemoryGraphTestSuite) TestMissingSchema(c *gc.C) {
	g := NewInMemoryGraph()

	exists, err := g.TablesExist()
	c.Assert(err, gc.IsNil)
	c.Assert(exists, gc.Equals, false)
	c.Assert(xerrors.Is(g.Verify(), graph.ErrSchemaMissing), gc.Equals, true)

	err = g.InsertArticle(&graph.Article{Title: "A"})
	c.Assert(xerrors.Is(err, graph.ErrSchemaMissing), gc.Equals, true)
}

func (s *InMemoryGraphTestSuite) TestEdgeIteratorSnapshot(c *gc.C) {
	g := NewInMemoryGraph()
	c.Assert(g.Reset(), gc.IsNil)
	for _, title := range []string{"A", "B"} {
		c.Assert(g.InsertArticle(&graph.Article{Title: title}), gc.IsNil)
	}
	c.Assert(g.InsertEdge(&graph.Edge{From: "A", To: "B"}), gc.IsNil)

	it, err := g.Edges()
	c.Assert(err, gc.IsNil)
	c.Assert(g.InsertEdge(&graph.Edge{From: "B", To: "A"}), gc.IsNil)

	var got []graph.Edge
	for it.Next() {
		e := it.Edge()
		got = append(got, *e)
		e.To = "mutated"
	}
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)
	c.Assert(got, gc.DeepEquals, []graph.Edge{{From: "A", To: "B"}})

	again, err := g.Edges()
	c.Assert(err, gc.IsNil)
	c.Assert(again.Next(), gc.Equals, true)
	c.Assert(*again.Edge(), gc.Equals, graph.Edge{From: "A", To: "B"})
}

func (s *InMemoryGraphTestSuite) TestDuplicateBindingsAreKept(c *gc.C) {
	g := NewInMemoryGraph()
	c.Assert(g.Reset(), gc.IsNil)
	c.Assert(g.InsertArticle(&graph.Article{Title: "Go"}), gc.IsNil)
	c.Assert(g.InsertArticle(&graph.Article{Title: "Golang"}), gc.IsNil)

	u := "https://w.org/wiki/Go"
	c.Assert(g.InsertURL(&graph.URLBinding{Title: "Go", URL: u}), gc.IsNil)
	c.Assert(g.InsertURL(&graph.URLBinding{Title: "Golang", URL: u}), gc.IsNil)
	c.Assert(g.bindings, gc.DeepEquals, []graph.URLBinding{{Title: "Go", URL: u}, {Title: "Golang", URL: u}})

	title, err := g.FindTitleByURL(u)
	c.Assert(err, gc.IsNil)
	c.Assert(title, gc.Equals, "Go")
}
