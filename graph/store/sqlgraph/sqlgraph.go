/*
   Relational link graph shared by the PostgreSQL and SQLite backends.

   Every wiki edition L owns three tables:

       L        (title PRIMARY KEY, url)
       L_links  (from_title -> L.title, to_title -> L.title)
       L_urls   (title -> L.title, url)
*/
package sqlgraph

import (
	"database/sql"
	"fmt"

	"github.com/Ahmed-Sermani/wikirank/graph"
	sq "github.com/Masterminds/squirrel"
	"golang.org/x/xerrors"
)

const (
	createArticlesTable = `CREATE TABLE %[1]s (
  title VARCHAR(256) PRIMARY KEY,
  url VARCHAR(2047)
)`
	createLinksTable = `CREATE TABLE %[1]s (
  from_title VARCHAR(256) NOT NULL REFERENCES %[2]s(title) ON DELETE CASCADE,
  to_title VARCHAR(256) NOT NULL REFERENCES %[2]s(title) ON DELETE CASCADE
)`
	createURLsTable = `CREATE TABLE %[1]s (
  title VARCHAR(256) NOT NULL REFERENCES %[2]s(title) ON DELETE CASCADE,
  url VARCHAR(2047) NOT NULL
)`
	createURLsIndex = `CREATE INDEX %[1]s ON %[2]s (url)`
	dropTable       = `DROP TABLE IF EXISTS %s`
)

var _ graph.Graph = (*SQLGraph)(nil)

// Tables holds the names of the tables that belong to one wiki edition.
type Tables struct {
	Articles string
	Links    string
	URLs     string
}

// TablesFor returns the table names for the wiki with the given language code.
func TablesFor(lang string) Tables {
	return Tables{
		Articles: lang,
		Links:    lang + "_links",
		URLs:     lang + "_urls",
	}
}

// SQLGraph implements graph.Graph on top of a database/sql handle.
type SQLGraph struct {
	db      *sql.DB
	sb      sq.StatementBuilderType
	dialect Dialect
	tables  Tables
}

// New returns a SQLGraph that stores the link graph of the wiki with the
// given language code using db.
func New(db *sql.DB, lang string, dialect Dialect) *SQLGraph {
	return &SQLGraph{
		db:      db,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder).RunWith(db),
		dialect: dialect,
		tables:  TablesFor(lang),
	}
}

// DB returns the underlying database handle.
func (s *SQLGraph) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *SQLGraph) Close() error {
	return s.db.Close()
}

func (s *SQLGraph) quote(name string) string { return s.dialect.QuoteIdent(name) }

func (s *SQLGraph) allTables() []string {
	return []string{s.tables.Articles, s.tables.Links, s.tables.URLs}
}

func (s *SQLGraph) countTables() (int, error) {
	var total int
	for _, name := range s.allTables() {
		var n int
		if err := s.dialect.CountTables(s.sb, name).QueryRow().Scan(&n); err != nil {
			return 0, xerrors.Errorf("lookup table %q: %w", name, err)
		}
		total += n
	}
	return total, nil
}

func (s *SQLGraph) TablesExist() (bool, error) {
	n, err := s.countTables()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLGraph) Verify() error {
	n, err := s.countTables()
	if err != nil {
		return xerrors.Errorf("verify: %w", err)
	}
	if n != len(s.allTables()) {
		return xerrors.Errorf("verify %s: %w", s.tables.Articles, graph.ErrSchemaMissing)
	}

	// Tables left by something else may carry the right names but not the
	// columns the queries rely on.
	for _, t := range []struct {
		name    string
		columns []string
	}{
		{s.tables.Articles, []string{"title", "url"}},
		{s.tables.Links, []string{"from_title", "to_title"}},
		{s.tables.URLs, []string{"title", "url"}},
	} {
		if err := s.probeColumns(t.name, t.columns); err != nil {
			return xerrors.Errorf("verify %s: %w", t.name, err)
		}
	}
	return nil
}

func (s *SQLGraph) probeColumns(table string, columns []string) error {
	rows, err := s.sb.Select(columns...).From(s.quote(table)).Limit(0).Query()
	if err != nil {
		return s.dialect.MapError(err)
	}
	if err := rows.Close(); err != nil {
		return s.dialect.MapError(err)
	}
	return nil
}

// Reset drops the wiki tables, dependants first, and creates them again
// inside a single transaction.
func (s *SQLGraph) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return xerrors.Errorf("reset: %w", err)
	}

	stmts := []string{
		fmt.Sprintf(dropTable, s.quote(s.tables.URLs)),
		fmt.Sprintf(dropTable, s.quote(s.tables.Links)),
		fmt.Sprintf(dropTable, s.quote(s.tables.Articles)),
		fmt.Sprintf(createArticlesTable, s.quote(s.tables.Articles)),
		fmt.Sprintf(createLinksTable, s.quote(s.tables.Links), s.quote(s.tables.Articles)),
		fmt.Sprintf(createURLsTable, s.quote(s.tables.URLs), s.quote(s.tables.Articles)),
		fmt.Sprintf(createURLsIndex, s.quote(s.tables.URLs+"_url_idx"), s.quote(s.tables.URLs)),
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			_ = tx.Rollback()
			return xerrors.Errorf("reset: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return xerrors.Errorf("reset: %w", err)
	}
	return nil
}

func (s *SQLGraph) InsertArticle(article *graph.Article) error {
	_, err := s.sb.Insert(s.quote(s.tables.Articles)).
		Columns("title", "url").
		Values(article.Title, sql.NullString{String: article.URL, Valid: article.URL != ""}).
		Exec()
	if err != nil {
		return xerrors.Errorf("insert article %q: %w", article.Title, s.dialect.MapError(err))
	}
	return nil
}

func (s *SQLGraph) FindArticle(title string) (*graph.Article, error) {
	var url sql.NullString
	err := s.sb.Select("url").
		From(s.quote(s.tables.Articles)).
		Where(sq.Eq{"title": title}).
		QueryRow().
		Scan(&url)
	if err != nil {
		if xerrors.Is(err, sql.ErrNoRows) {
			return nil, xerrors.Errorf("find article: %w", graph.ErrNotFound)
		}
		return nil, xerrors.Errorf("find article: %w", s.dialect.MapError(err))
	}
	return &graph.Article{Title: title, URL: url.String}, nil
}

func (s *SQLGraph) InsertURL(binding *graph.URLBinding) error {
	_, err := s.sb.Insert(s.quote(s.tables.URLs)).
		Columns("title", "url").
		Values(binding.Title, binding.URL).
		Exec()
	if err != nil {
		return xerrors.Errorf("insert url: %w", s.dialect.MapError(err))
	}
	return nil
}

func (s *SQLGraph) FindTitleByURL(url string) (string, error) {
	var title string
	err := s.sb.Select("title").
		From(s.quote(s.tables.URLs)).
		Where(sq.Eq{"url": url}).
		Limit(1).
		QueryRow().
		Scan(&title)
	if err != nil {
		if xerrors.Is(err, sql.ErrNoRows) {
			return "", xerrors.Errorf("find title by url: %w", graph.ErrNotFound)
		}
		return "", xerrors.Errorf("find title by url: %w", s.dialect.MapError(err))
	}
	return title, nil
}

func (s *SQLGraph) InsertEdge(edge *graph.Edge) error {
	_, err := s.sb.Insert(s.quote(s.tables.Links)).
		Columns("from_title", "to_title").
		Values(edge.From, edge.To).
		Exec()
	if err != nil {
		return xerrors.Errorf("insert edge: %w", s.dialect.MapError(err))
	}
	return nil
}

func (s *SQLGraph) Edges() (graph.EdgeIterator, error) {
	rows, err := s.sb.Select("from_title", "to_title").
		From(s.quote(s.tables.Links)).
		Query()
	if err != nil {
		return nil, xerrors.Errorf("edges: %w", s.dialect.MapError(err))
	}
	return &edgeIterator{rows: rows}, nil
}
