package sqlgraph

import (
	"database/sql"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"golang.org/x/xerrors"
)

// edgeIterator streams the rows of the links table.
type edgeIterator struct {
	rows *sql.Rows
	cur  *graph.Edge
	err  error
}

func (i *edgeIterator) Next() bool {
	if i.err != nil || !i.rows.Next() {
		return false
	}

	var e graph.Edge
	if err := i.rows.Scan(&e.From, &e.To); err != nil {
		i.err = xerrors.Errorf("scan link: %w", err)
		return false
	}
	i.cur = &e
	return true
}

func (i *edgeIterator) Error() error {
	if i.err != nil {
		return i.err
	}
	return i.rows.Err()
}

func (i *edgeIterator) Close() error {
	if err := i.rows.Close(); err != nil {
		return xerrors.Errorf("close link rows: %w", err)
	}
	return nil
}

func (i *edgeIterator) Edge() *graph.Edge { return i.cur }
