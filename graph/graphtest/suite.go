package graphtest

import (
	"sort"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

// Store is implemented by graph stores that can be released once a test
// suite is done with them.
type Store interface {
	graph.Graph
	Close() error
}

// SuiteBase defines a re-usable set of graph-related tests that can
// be executed against any type that implements graph.Graph.
type SuiteBase struct {
	g graph.Graph
}

// SetGraph configures the test-suite to run all tests against g. The
// schema of g is reset before every test that needs it.
func (s *SuiteBase) SetGraph(g graph.Graph) {
	s.g = g
}

func (s *SuiteBase) resetSchema(c *gc.C) {
	c.Assert(s.g.Reset(), gc.IsNil)
}

func (s *SuiteBase) TestSchemaLifecycle(c *gc.C) {
	s.resetSchema(c)

	exists, err := s.g.TablesExist()
	c.Assert(err, gc.IsNil)
	c.Assert(exists, gc.Equals, true)
	c.Assert(s.g.Verify(), gc.IsNil)

	c.Assert(s.g.InsertArticle(&graph.Article{Title: "Go"}), gc.IsNil)

	// Reset drops everything that was stored.
	s.resetSchema(c)
	_, err = s.g.FindArticle("Go")
	c.Assert(xerrors.Is(err, graph.ErrNotFound), gc.Equals, true)
}

func (s *SuiteBase) TestInsertArticle(c *gc.C) {
	s.resetSchema(c)

	article := &graph.Article{Title: "Go (programming language)", URL: "https://en.wikipedia.org/w/index.php?title=Go"}
	c.Assert(s.g.InsertArticle(article), gc.IsNil)

	got, err := s.g.FindArticle(article.Title)
	c.Assert(err, gc.IsNil)
	c.Assert(got, gc.DeepEquals, article)

	err = s.g.InsertArticle(&graph.Article{Title: article.Title})
	c.Assert(xerrors.Is(err, graph.ErrDuplicateTitle), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *SuiteBase) TestFindMissingArticle(c *gc.C) {
	s.resetSchema(c)

	_, err := s.g.FindArticle("Nope")
	c.Assert(xerrors.Is(err, graph.ErrNotFound), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *SuiteBase) TestURLBindings(c *gc.C) {
	s.resetSchema(c)

	c.Assert(s.g.InsertArticle(&graph.Article{Title: "Go"}), gc.IsNil)
	c.Assert(s.g.InsertURL(&graph.URLBinding{Title: "Go", URL: "https://w.org/wiki/Go"}), gc.IsNil)
	c.Assert(s.g.InsertURL(&graph.URLBinding{Title: "Go", URL: "https://w.org/wiki/Golang"}), gc.IsNil)

	for _, u := range []string{"https://w.org/wiki/Go", "https://w.org/wiki/Golang"} {
		title, err := s.g.FindTitleByURL(u)
		c.Assert(err, gc.IsNil)
		c.Assert(title, gc.Equals, "Go")
	}

	_, err := s.g.FindTitleByURL("https://w.org/wiki/Rust")
	c.Assert(xerrors.Is(err, graph.ErrNotFound), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *SuiteBase) TestURLBindingsAreNotUnique(c *gc.C) {
	s.resetSchema(c)

	for _, title := range []string{"Go", "Golang"} {
		c.Assert(s.g.InsertArticle(&graph.Article{Title: title}), gc.IsNil)
	}
	u := "https://w.org/wiki/Go"
	c.Assert(s.g.InsertURL(&graph.URLBinding{Title: "Go", URL: u}), gc.IsNil)
	c.Assert(s.g.InsertURL(&graph.URLBinding{Title: "Go", URL: u}), gc.IsNil)
	c.Assert(s.g.InsertURL(&graph.URLBinding{Title: "Golang", URL: u}), gc.IsNil)

	title, err := s.g.FindTitleByURL(u)
	c.Assert(err, gc.IsNil)
	c.Assert(title == "Go" || title == "Golang", gc.Equals, true, gc.Commentf("got %q", title))
}

func (s *SuiteBase) TestURLBindingForUnknownTitle(c *gc.C) {
	s.resetSchema(c)

	err := s.g.InsertURL(&graph.URLBinding{Title: "Ghost", URL: "https://w.org/wiki/Ghost"})
	c.Assert(xerrors.Is(err, graph.ErrUnknownTitle), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *SuiteBase) TestEdges(c *gc.C) {
	s.resetSchema(c)

	for _, title := range []string{"A", "B", "C"} {
		c.Assert(s.g.InsertArticle(&graph.Article{Title: title}), gc.IsNil)
	}
	exp := []graph.Edge{
		{From: "A", To: "B"},
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "C", To: "A"},
		{From: "C", To: "C"},
	}
	for i := range exp {
		e := exp[i]
		c.Assert(s.g.InsertEdge(&e), gc.IsNil)
	}

	it, err := s.g.Edges()
	c.Assert(err, gc.IsNil)
	var got []graph.Edge
	for it.Next() {
		got = append(got, *it.Edge())
	}
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)

	sortEdges(got)
	c.Assert(got, gc.DeepEquals, exp)
}

func (s *SuiteBase) TestEdgeWithUnknownEndpoint(c *gc.C) {
	s.resetSchema(c)

	c.Assert(s.g.InsertArticle(&graph.Article{Title: "A"}), gc.IsNil)

	err := s.g.InsertEdge(&graph.Edge{From: "A", To: "Missing"})
	c.Assert(xerrors.Is(err, graph.ErrUnknownTitle), gc.Equals, true, gc.Commentf("got %v", err))

	err = s.g.InsertEdge(&graph.Edge{From: "Missing", To: "A"})
	c.Assert(xerrors.Is(err, graph.ErrUnknownTitle), gc.Equals, true, gc.Commentf("got %v", err))
}

func (s *SuiteBase) TestEmptyEdgeSet(c *gc.C) {
	s.resetSchema(c)

	it, err := s.g.Edges()
	c.Assert(err, gc.IsNil)
	c.Assert(it.Next(), gc.Equals, false)
	c.Assert(it.Error(), gc.IsNil)
	c.Assert(it.Close(), gc.IsNil)
}

func sortEdges(edges []graph.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
}
