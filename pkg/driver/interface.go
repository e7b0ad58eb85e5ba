// Package driver defines the uniform contract that every backend adapter
// implements, the backend-independent error taxonomy, and the registry that
// dispatches declarative configuration to a registered adapter.
package driver

import (
	"context"

	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
)

// Driver is a backend adapter's entry-point record: the three dispatch
// operations plus identity and capability metadata. Adapters register one
// Driver ahead of time; dispatch never loads code paths at call time.
type Driver interface {
	// ID returns the canonical backend identifier.
	ID() dbcapabilities.DatabaseID

	// Capabilities returns the capability metadata for this backend.
	Capabilities() dbcapabilities.Capability

	// Connect opens a live connection to the configured database.
	// Failures surface as taxonomy kinds, typically KindCannotConnect,
	// KindBadPassword, KindNoDatabase, or KindPermission.
	Connect(ctx context.Context, cfg Config) (Connection, error)

	// CreateDatabase creates the named database. An existing database of
	// the same name fails with KindDatabaseExists on every backend.
	CreateDatabase(ctx context.Context, cfg Config) error

	// DropDatabase deletes the named database. A missing database fails
	// with KindNoDatabase.
	DropDatabase(ctx context.Context, cfg Config) error
}

// Connection is one live native connection handle. It is exclusively owned:
// concurrent use from multiple goroutines is undefined and must be
// serialized by the caller, mirroring native client non-thread-safety per
// handle. Every operation on a closed connection fails with KindOperational.
type Connection interface {
	// ID returns the unique identifier assigned at construction.
	ID() string

	// Dialect returns the backend identifier of this connection.
	Dialect() dbcapabilities.DatabaseID

	// DatabaseName returns the database this connection is bound to.
	DatabaseName() string

	// IsOpen reports whether the connection has not been closed.
	IsOpen() bool

	// Cursor returns a new cursor bound to this connection. The cursor is
	// invalidated when this connection closes, whether or not the cursor
	// was closed itself.
	Cursor() (Cursor, error)

	// Tables returns the base table names in the current database,
	// excluding system catalogs. Order is unspecified across backends.
	Tables(ctx context.Context) ([]string, error)

	// Schema returns a lazy, finite, single-pass iterator over the
	// table's column descriptors in declared column order. A missing
	// table fails with KindProgramming. Each call yields a fresh pass.
	Schema(ctx context.Context, table string) (*ColumnIter, error)

	// Columns returns the ordered column names of the table, equal to the
	// Name field of Schema in the same order.
	Columns(ctx context.Context, table string) ([]string, error)

	// ServerVariable returns the named backend configuration variable, or
	// nil when the backend does not recognize it. Backends without a
	// variable namespace return nil unconditionally.
	ServerVariable(ctx context.Context, name string) (*Variable, error)

	// Begin starts a transaction. Nested Begin behavior is
	// adapter-defined and not guaranteed atomic.
	Begin(ctx context.Context) error

	// Commit ends the currently open transaction, making its effects
	// durable.
	Commit(ctx context.Context) error

	// Rollback ends the currently open transaction, discarding its
	// effects.
	Rollback(ctx context.Context) error

	// Raw returns the underlying native handle for operations not covered
	// by the contract. Type assertion is required.
	Raw() interface{}

	// Config returns the configuration this connection was opened with.
	Config() Config

	// Close releases the native handle. Closing is terminal; it is a hard
	// abort equivalent to an uncommitted-transaction rollback performed
	// by the backend. Close is safe to call more than once.
	Close() error
}

// Cursor owns one native statement/result handle. It composes two
// capabilities: a lazy row-stream (Execute, FetchOne, Next/Row/Err) and a
// closable handle (Close). Its validity is strictly bounded by the parent
// connection's open state.
type Cursor interface {
	// Execute runs a SQL statement and returns the cursor itself so the
	// result can be iterated directly. The SQL uses the backend-neutral
	// convention: `?` placeholders and backtick-quoted identifiers; the
	// adapter rewrites both to the native dialect.
	Execute(ctx context.Context, query string, args ...interface{}) (Cursor, error)

	// FetchOne returns the next result row, or nil at the end of the
	// result set. Exhaustion is not an error.
	FetchOne() (Row, error)

	// Next advances the row stream, reporting false at exhaustion or on
	// error. Check Err after Next returns false.
	Next() bool

	// Row returns the row produced by the last successful Next.
	Row() Row

	// Err returns the first error encountered during iteration.
	Err() error

	// Close releases the result handle. Safe to call more than once.
	Close() error
}

// Row is one result row as an ordered tuple of column values.
type Row []interface{}

// Variable is a (name, value) pair for a backend configuration variable.
type Variable struct {
	Name  string
	Value string
}
