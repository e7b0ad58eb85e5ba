package common

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// Conn implements driver.Connection over a single pinned database/sql
// session. The pool underneath is capped at one connection so the handle is
// exclusively owned, mirroring native client non-thread-safety per handle.
type Conn struct {
	id      string
	db      *sql.DB
	session *sql.Conn
	dialect Dialect
	cfg     driver.Config

	tx     *sql.Tx
	closed bool

	// cursors tracks the live cursors created from this connection so
	// Close can release their result sets first: database/sql blocks a
	// session close until every open sql.Rows on it is done, and the
	// hard abort must always return.
	cursors map[*Cursor]struct{}
}

// Open dials the native driver and pins one session. All failures surface
// as taxonomy errors through the dialect's connect translation.
func Open(ctx context.Context, d Dialect, cfg driver.Config, driverName, dsn string) (*Conn, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, Guard(d, "connect", err)
	}

	// One native handle per Connection; pooling is a caller concern.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	session, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, Guard(d, "connect", err)
	}

	return &Conn{
		id:      uuid.NewString(),
		db:      db,
		session: session,
		dialect: d,
		cfg:     cfg,
		cursors: make(map[*Cursor]struct{}),
	}, nil
}

// ID returns the identifier assigned at construction.
func (c *Conn) ID() string {
	return c.id
}

// Dialect returns the backend identifier.
func (c *Conn) Dialect() dbcapabilities.DatabaseID {
	return c.dialect.ID()
}

// DatabaseName returns the database this connection is bound to.
func (c *Conn) DatabaseName() string {
	return c.cfg.DatabaseName
}

// IsOpen reports whether Close has not been called.
func (c *Conn) IsOpen() bool {
	return !c.closed
}

// Config returns the configuration the connection was opened with.
func (c *Conn) Config() driver.Config {
	return c.cfg
}

// Raw returns the pinned *sql.Conn session.
func (c *Conn) Raw() interface{} {
	return c.session
}

// requireOpen guards every public operation against the terminal state.
func (c *Conn) requireOpen(op string) error {
	if c.closed {
		return driver.NewError(c.dialect.ID(), op, driver.KindOperational, driver.ErrConnectionClosed)
	}
	return nil
}

// querier routes statements through the open transaction when one is
// active, otherwise through the pinned session.
func (c *Conn) querier() Querier {
	if c.tx != nil {
		return c.tx
	}
	return c.session
}

// Cursor returns a new cursor bound to this connection.
func (c *Conn) Cursor() (driver.Cursor, error) {
	if err := c.requireOpen("cursor"); err != nil {
		return nil, err
	}
	cur := &Cursor{conn: c}
	c.cursors[cur] = struct{}{}
	return cur, nil
}

// forget drops a closed cursor from the tracking set.
func (c *Conn) forget(cur *Cursor) {
	delete(c.cursors, cur)
}

// Tables lists base table names via the dialect's catalog query.
func (c *Conn) Tables(ctx context.Context) ([]string, error) {
	if err := c.requireOpen("tables"); err != nil {
		return nil, err
	}
	tables, err := c.dialect.Tables(ctx, c.querier())
	if err != nil {
		return nil, Guard(c.dialect, "tables", err)
	}
	return tables, nil
}

// Schema starts a fresh single-pass iteration over the table's column
// descriptors in declared order.
func (c *Conn) Schema(ctx context.Context, table string) (*driver.ColumnIter, error) {
	if err := c.requireOpen("schema"); err != nil {
		return nil, err
	}
	it, err := c.dialect.Columns(ctx, c.querier(), table)
	if err != nil {
		return nil, Guard(c.dialect, "schema", err)
	}
	return it, nil
}

// Columns returns the ordered column names, equal to the Name field of
// Schema in the same order.
func (c *Conn) Columns(ctx context.Context, table string) ([]string, error) {
	it, err := c.Schema(ctx, table)
	if err != nil {
		return nil, err
	}
	descs, err := it.Collect()
	if err != nil {
		return nil, Guard(c.dialect, "columns", err)
	}
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	return names, nil
}

// ServerVariable resolves a backend configuration variable, nil when the
// backend does not recognize it.
func (c *Conn) ServerVariable(ctx context.Context, name string) (*driver.Variable, error) {
	if err := c.requireOpen("server_variable"); err != nil {
		return nil, err
	}
	v, err := c.dialect.ServerVariable(ctx, c.querier(), name)
	if err != nil {
		return nil, Guard(c.dialect, "server_variable", err)
	}
	return v, nil
}

// Begin starts a transaction on the pinned session. A second Begin while a
// transaction is active fails the way the backends themselves do.
func (c *Conn) Begin(ctx context.Context) error {
	if err := c.requireOpen("begin"); err != nil {
		return err
	}
	if c.tx != nil {
		return driver.Errorf(c.dialect.ID(), "begin", driver.KindProgramming,
			"transaction already in progress")
	}
	tx, err := c.session.BeginTx(ctx, nil)
	if err != nil {
		return Guard(c.dialect, "begin", err)
	}
	c.tx = tx
	return nil
}

// Commit ends the open transaction, making its effects durable.
func (c *Conn) Commit(ctx context.Context) error {
	if err := c.requireOpen("commit"); err != nil {
		return err
	}
	if c.tx == nil {
		return driver.Errorf(c.dialect.ID(), "commit", driver.KindProgramming,
			"no transaction is active")
	}
	err := c.tx.Commit()
	c.tx = nil
	return Guard(c.dialect, "commit", err)
}

// Rollback ends the open transaction, discarding its effects.
func (c *Conn) Rollback(ctx context.Context) error {
	if err := c.requireOpen("rollback"); err != nil {
		return err
	}
	if c.tx == nil {
		return driver.Errorf(c.dialect.ID(), "rollback", driver.KindProgramming,
			"no transaction is active")
	}
	err := c.tx.Rollback()
	c.tx = nil
	return Guard(c.dialect, "rollback", err)
}

// Close releases the native handle. An uncommitted transaction is rolled
// back, matching the backend's own treatment of an aborted session. Close
// is idempotent; it invalidates every cursor created from this connection.
func (c *Conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	// Release every live result set first; the session close below
	// waits for open sql.Rows and would block forever otherwise.
	for cur := range c.cursors {
		cur.invalidate()
	}
	c.cursors = nil

	if c.tx != nil {
		c.tx.Rollback()
		c.tx = nil
	}

	err := c.session.Close()
	if dbErr := c.db.Close(); err == nil {
		err = dbErr
	}
	return Guard(c.dialect, "close", err)
}
