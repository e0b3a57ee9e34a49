package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ahmed-Sermani/wikirank/graph"
	"github.com/Ahmed-Sermani/wikirank/graph/store/sqlgraph"
	sq "github.com/Masterminds/squirrel"
	"golang.org/x/xerrors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect describes SQLite to the shared relational store.
var Dialect = sqlgraph.Dialect{
	Name:        "sqlite",
	Placeholder: sq.Question,
	QuoteIdent:  quoteIdent,
	CountTables: func(sb sq.StatementBuilderType, name string) sq.SelectBuilder {
		return sb.Select("COUNT(*)").
			From("sqlite_master").
			Where(sq.Eq{"type": "table", "name": name})
	},
	MapError: mapError,
}

// SQLiteGraph is a graph.Graph backed by a single SQLite database file.
type SQLiteGraph struct {
	*sqlgraph.SQLGraph
}

// NewSQLiteGraph opens (creating if needed) the database file at path.
func NewSQLiteGraph(path, lang string) (*SQLiteGraph, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, xerrors.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, xerrors.Errorf("open sqlite: %w", err)
	}

	// Pragmas are per connection so the pool is pinned to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, pragma := range []string{"PRAGMA foreign_keys=ON", "PRAGMA journal_mode=WAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, xerrors.Errorf("configure sqlite: %w", err)
		}
	}

	return &SQLiteGraph{SQLGraph: sqlgraph.New(db, lang, Dialect)}, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func mapError(err error) error {
	sqliteErr, ok := err.(*sqlite.Error)
	if !ok {
		return err
	}

	msg := sqliteErr.Error()
	switch {
	case sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT:
		if strings.Contains(msg, "FOREIGN KEY") {
			return graph.ErrUnknownTitle
		}
		if strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "PRIMARY KEY") {
			return graph.ErrDuplicateTitle
		}
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return graph.ErrSchemaMissing
	}
	return err
}
