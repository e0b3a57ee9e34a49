package sqlite

import "github.com/Ahmed-Sermani/wikirank/graph/store/sqlgraph"

func sqlgraphFor(g *SQLiteGraph, lang string) *sqlgraph.SQLGraph {
	return sqlgraph.New(g.DB(), lang, Dialect)
}
