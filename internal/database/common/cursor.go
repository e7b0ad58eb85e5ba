package common

import (
	"context"
	"database/sql"
	"strings"

	"github.com/seriesdb/seriesdb/pkg/driver"
)

// Cursor implements driver.Cursor over sql.Rows. It keeps a non-owning
// back-reference to its parent connection for lifetime validity only: when
// the parent closes, every operation here fails with KindOperational
// regardless of the cursor's own state.
type Cursor struct {
	conn *Conn

	rows   *sql.Rows
	cols   []string
	row    driver.Row
	err    error
	closed bool
}

func (c *Cursor) requireValid(op string) error {
	if !c.conn.IsOpen() {
		return driver.NewError(c.conn.dialect.ID(), op, driver.KindOperational, driver.ErrConnectionClosed)
	}
	if c.closed {
		return driver.Errorf(c.conn.dialect.ID(), op, driver.KindOperational, "cursor is closed")
	}
	return nil
}

// stripLeading removes whitespace, SQL comments, and opening parentheses
// ahead of the statement's first keyword.
func stripLeading(query string) string {
	s := query
	for {
		s = strings.TrimLeft(s, " \t\r\n(")
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			s = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s, "*/")
			if i < 0 {
				return ""
			}
			s = s[i+2:]
		default:
			return s
		}
	}
}

// rowsReturning reports whether the statement produces a result set, which
// decides between Query and Exec on the native layer. Leading comments and
// parentheses do not hide the keyword.
func rowsReturning(query string) bool {
	q := strings.ToLower(stripLeading(query))
	for _, prefix := range []string{"select", "show", "pragma", "explain", "with", "values", "describe", "desc"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}
	return false
}

// Execute runs one statement, written in the backend-neutral convention,
// and returns the cursor itself so results can be iterated directly. A
// prior result set on this cursor is discarded first.
func (c *Cursor) Execute(ctx context.Context, query string, args ...interface{}) (driver.Cursor, error) {
	if err := c.requireValid("execute"); err != nil {
		return nil, err
	}

	if c.rows != nil {
		c.rows.Close()
		c.rows = nil
		c.cols = nil
	}
	c.row = nil
	c.err = nil

	native := c.conn.dialect.Rewrite(query)
	q := c.conn.querier()

	if rowsReturning(native) {
		rows, err := q.QueryContext(ctx, native, args...)
		if err != nil {
			return nil, Guard(c.conn.dialect, "execute", err)
		}
		cols, err := rows.Columns()
		if err != nil {
			rows.Close()
			return nil, Guard(c.conn.dialect, "execute", err)
		}
		c.rows = rows
		c.cols = cols
	} else {
		if _, err := q.ExecContext(ctx, native, args...); err != nil {
			return nil, Guard(c.conn.dialect, "execute", err)
		}
	}
	return c, nil
}

// FetchOne returns the next result row, or nil at the end of the result
// set. A statement that produced no result set is already exhausted.
func (c *Cursor) FetchOne() (driver.Row, error) {
	if err := c.requireValid("fetch"); err != nil {
		return nil, err
	}
	if c.rows == nil {
		return nil, nil
	}

	if !c.rows.Next() {
		err := c.rows.Err()
		c.rows.Close()
		c.rows = nil
		if err != nil {
			return nil, Guard(c.conn.dialect, "fetch", err)
		}
		return nil, nil
	}

	values := make([]interface{}, len(c.cols))
	ptrs := make([]interface{}, len(c.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, Guard(c.conn.dialect, "fetch", err)
	}
	return driver.Row(values), nil
}

// Next advances the row stream. Exhaustion is a normal end-of-sequence
// condition; errors are reported through Err.
func (c *Cursor) Next() bool {
	row, err := c.FetchOne()
	if err != nil {
		c.err = err
		return false
	}
	if row == nil {
		return false
	}
	c.row = row
	return true
}

// Row returns the row produced by the last successful Next.
func (c *Cursor) Row() driver.Row {
	return c.row
}

// Err returns the first error encountered during iteration.
func (c *Cursor) Err() error {
	return c.err
}

// invalidate releases the result set without touching the tracking set.
// The closing connection calls it for every live cursor before it shuts the
// session down.
func (c *Cursor) invalidate() {
	if c.rows != nil {
		c.rows.Close()
		c.rows = nil
	}
}

// Close releases the result handle. Safe to call more than once, and a
// no-op after the parent connection has closed.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if !c.conn.IsOpen() {
		c.rows = nil
		return nil
	}
	c.conn.forget(c)
	if c.rows == nil {
		return nil
	}
	err := c.rows.Close()
	c.rows = nil
	return Guard(c.conn.dialect, "close", err)
}
