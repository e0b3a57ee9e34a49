package memory

import (
	"sync"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"golang.org/x/xerrors"
)

var _ graph.Graph = (*InMemoryGraph)(nil)

// InMemoryGraph implements an in-memory link graph that can be concurrently
// accessed by multiple clients.
type InMemoryGraph struct {
	mu sync.RWMutex

	// created is false until Reset is called; it plays the role of the
	// table set of the SQL backends.
	created bool

	articles map[string]*graph.Article
	urls     map[string]string

	// bindings keeps every URL binding in insertion order, duplicates
	// included, like the rows of the urls table.
	bindings []graph.URLBinding
	edges    []graph.Edge
}

// NewInMemoryGraph creates a new in-memory link graph. Its tables do not
// exist until Reset is invoked.
func NewInMemoryGraph() *InMemoryGraph {
	return &InMemoryGraph{}
}

func (s *InMemoryGraph) TablesExist() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created, nil
}

func (s *InMemoryGraph) Verify() error {
	if exists, _ := s.TablesExist(); !exists {
		return xerrors.Errorf("verify: %w", graph.ErrSchemaMissing)
	}
	return nil
}

func (s *InMemoryGraph) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.created = true
	s.articles = make(map[string]*graph.Article)
	s.urls = make(map[string]string)
	s.bindings = nil
	s.edges = nil
	return nil
}

func (s *InMemoryGraph) InsertArticle(article *graph.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.created {
		return xerrors.Errorf("insert article: %w", graph.ErrSchemaMissing)
	}
	if _, exists := s.articles[article.Title]; exists {
		return xerrors.Errorf("insert article %q: %w", article.Title, graph.ErrDuplicateTitle)
	}

	aCopy := new(graph.Article)
	*aCopy = *article
	s.articles[aCopy.Title] = aCopy
	return nil
}

func (s *InMemoryGraph) FindArticle(title string) (*graph.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	article := s.articles[title]
	if article == nil {
		return nil, xerrors.Errorf("find article: %w", graph.ErrNotFound)
	}

	aCopy := new(graph.Article)
	*aCopy = *article
	return aCopy, nil
}

// InsertURL appends a URL binding. Bindings are not unique. Lookups
// answer with the first title bound to a URL.
func (s *InMemoryGraph) InsertURL(binding *graph.URLBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.created {
		return xerrors.Errorf("insert url: %w", graph.ErrSchemaMissing)
	}
	if _, exists := s.articles[binding.Title]; !exists {
		return xerrors.Errorf("insert url: %w", graph.ErrUnknownTitle)
	}
	s.bindings = append(s.bindings, *binding)
	if _, bound := s.urls[binding.URL]; !bound {
		s.urls[binding.URL] = binding.Title
	}
	return nil
}

func (s *InMemoryGraph) FindTitleByURL(url string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title, found := s.urls[url]
	if !found {
		return "", xerrors.Errorf("find title by url: %w", graph.ErrNotFound)
	}
	return title, nil
}

func (s *InMemoryGraph) InsertEdge(edge *graph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.created {
		return xerrors.Errorf("insert edge: %w", graph.ErrSchemaMissing)
	}
	_, srcExists := s.articles[edge.From]
	_, dstExists := s.articles[edge.To]
	if !srcExists || !dstExists {
		return xerrors.Errorf("insert edge: %w", graph.ErrUnknownTitle)
	}

	s.edges = append(s.edges, *edge)
	return nil
}

func (s *InMemoryGraph) Edges() (graph.EdgeIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.created {
		return nil, xerrors.Errorf("edges: %w", graph.ErrSchemaMissing)
	}
	// Edges are append-only so a snapshot of the slice header is stable.
	return &edgeIterator{edges: s.edges[:len(s.edges):len(s.edges)]}, nil
}

// Close is a no-op; it lets the in-memory graph stand in for the SQL
// backends.
func (s *InMemoryGraph) Close() error { return nil }
