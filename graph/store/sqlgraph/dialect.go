package sqlgraph

import (
	sq "github.com/Masterminds/squirrel"
)

// Dialect captures what differs between the relational backends.
type Dialect struct {
	// Name is used in error messages and logs.
	Name string

	// Placeholder is the bind-parameter format of the driver.
	Placeholder sq.PlaceholderFormat

	// QuoteIdent quotes a table or index name.
	QuoteIdent func(name string) string

	// CountTables returns a query yielding the number of tables called
	// name in the current schema (0 or 1).
	CountTables func(sb sq.StatementBuilderType, name string) sq.SelectBuilder

	// MapError translates driver errors into the graph sentinel errors.
	// Errors it does not recognise are returned unchanged.
	MapError func(err error) error
}
