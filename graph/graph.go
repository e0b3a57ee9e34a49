/*
   Link graph of a single wiki edition: articles keyed by canonical title,
   the URLs that resolve to them and the directed links between them.
*/
package graph

import "golang.org/x/xerrors"

var (
	// ErrNotFound is returned when a lookup by title or URL has no match.
	ErrNotFound = xerrors.New("not found")

	// ErrDuplicateTitle is returned when inserting an article whose title
	// is already stored.
	ErrDuplicateTitle = xerrors.New("duplicate article title")

	// ErrUnknownTitle is returned when a URL binding or an edge refers to
	// an article that has not been inserted yet.
	ErrUnknownTitle = xerrors.New("unknown article title")

	// ErrSchemaMissing is returned by Verify when the tables of the
	// configured wiki do not exist.
	ErrSchemaMissing = xerrors.New("link graph tables do not exist")
)

type Iterator interface {
	Next() bool
	Error() error
	Close() error
}

// Article is identified by its canonical title. URL holds the canonical
// (permalink) URL the title was resolved from.
type Article struct {
	Title string
	URL   string
}

// URLBinding memoizes that URL resolves to the article with Title.
type URLBinding struct {
	Title string
	URL   string
}

// Edge records that the From article links to the To article. Parallel
// edges are meaningful: every link occurrence is stored.
type Edge struct {
	From string
	To   string
}

type EdgeIterator interface {
	Iterator
	Edge() *Edge
}

type Graph interface {
	InsertArticle(*Article) error
	FindArticle(title string) (*Article, error)

	InsertURL(*URLBinding) error
	FindTitleByURL(url string) (string, error)

	InsertEdge(*Edge) error
	Edges() (EdgeIterator, error)

	Schema
}

// Schema is implemented by stores that manage the per-wiki tables.
type Schema interface {
	// TablesExist reports whether any of the wiki tables is present.
	TablesExist() (bool, error)

	// Verify returns ErrSchemaMissing unless all wiki tables are present.
	Verify() error

	// Reset drops the wiki tables (if present) and creates them empty.
	Reset() error
}
