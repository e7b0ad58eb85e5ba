// Package common holds the shared Connection/Cursor implementation backed
// by database/sql. Each backend adapter contributes a Dialect with the
// pieces that differ per engine: query rewriting, the native error-code
// mapping, and catalog introspection. The single pinned session, transaction
// state, cursor iteration, and closed-state guarding are implemented once
// here.
package common

import (
	"context"
	"database/sql"
	"errors"

	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// Querier is the subset of database/sql used by dialect introspection and
// cursor execution. Both *sql.Conn and *sql.Tx satisfy it, so statements
// route transparently through an open transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Dialect is the per-backend hook set consumed by the shared base.
type Dialect interface {
	// ID returns the canonical backend identifier.
	ID() dbcapabilities.DatabaseID

	// Rewrite converts the neutral SQL convention (`?` placeholders,
	// backtick identifiers) to the native dialect.
	Rewrite(query string) string

	// Translate maps a native failure to a taxonomy error for op. It is
	// the per-adapter half of the guarded-call wrapper; implementations
	// extract the native code and look it up in their CodeMap.
	Translate(op string, err error) error

	// Tables lists base table names, excluding system catalogs.
	Tables(ctx context.Context, q Querier) ([]string, error)

	// Columns starts a fresh single-pass iterator over the table's
	// columns in declared order. A missing table fails with
	// KindProgramming.
	Columns(ctx context.Context, q Querier, table string) (*driver.ColumnIter, error)

	// ServerVariable resolves a backend configuration variable, nil when
	// unrecognized.
	ServerVariable(ctx context.Context, q Querier, name string) (*driver.Variable, error)
}

// Guard finishes the guarded-call wrapper: a nil error passes through, an
// error that already carries a taxonomy kind is never double-wrapped, and
// anything else is handed to the dialect's translation table.
func Guard(d Dialect, op string, err error) error {
	if err == nil {
		return nil
	}
	var de *driver.Error
	if errors.As(err, &de) {
		return err
	}
	return d.Translate(op, err)
}
