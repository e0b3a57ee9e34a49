package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"github.com/Ahmed-Sermani/wikirank/graph/store/sqlgraph"
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"golang.org/x/xerrors"
)

const pingTimeout = 10 * time.Second

// Dialect describes PostgreSQL to the shared relational store.
var Dialect = sqlgraph.Dialect{
	Name:        "postgresql",
	Placeholder: sq.Dollar,
	QuoteIdent:  pq.QuoteIdentifier,
	CountTables: func(sb sq.StatementBuilderType, name string) sq.SelectBuilder {
		return sb.Select("COUNT(*)").
			From("information_schema.tables").
			Where("table_schema = current_schema()").
			Where(sq.Eq{"table_name": name})
	},
	MapError: mapError,
}

// PostgresGraph is a graph.Graph backed by PostgreSQL.
type PostgresGraph struct {
	*sqlgraph.SQLGraph
}

// NewPostgresGraph connects to the database at dsn and verifies the
// connection before returning.
func NewPostgresGraph(dsn, lang string) (*PostgresGraph, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, xerrors.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, xerrors.Errorf("connect postgres: %w", err)
	}

	return &PostgresGraph{SQLGraph: sqlgraph.New(db, lang, Dialect)}, nil
}

func mapError(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return err
	}

	switch pqErr.Code.Name() {
	case "unique_violation":
		return graph.ErrDuplicateTitle
	case "foreign_key_violation":
		return graph.ErrUnknownTitle
	case "undefined_table", "undefined_column":
		return graph.ErrSchemaMissing
	}
	return err
}
