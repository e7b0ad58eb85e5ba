package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriesdb/seriesdb/pkg/driver"
)

func testConfig(t *testing.T) driver.Config {
	return driver.Config{
		Driver:       "sqlite",
		DatabaseName: filepath.Join(t.TempDir(), "test.sdb"),
	}
}

// openTestConn creates a fresh database file and connects to it.
func openTestConn(t *testing.T) driver.Connection {
	ctx := context.Background()
	d := NewDriver()
	cfg := testConfig(t)

	require.NoError(t, d.CreateDatabase(ctx, cfg))
	conn, err := d.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustExec(t *testing.T, conn driver.Connection, query string, args ...interface{}) {
	t.Helper()
	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()
	_, err = cur.Execute(context.Background(), query, args...)
	require.NoError(t, err)
}

func TestConnectMissingDatabase(t *testing.T) {
	cfg := testConfig(t)

	_, err := NewDriver().Connect(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrNoDatabase))
	assert.True(t, errors.Is(err, driver.ErrDatabase))
}

func TestConnectNoPathConfigured(t *testing.T) {
	_, err := NewDriver().Connect(context.Background(), driver.Config{Driver: "sqlite"})
	assert.True(t, errors.Is(err, driver.ErrProgramming))
}

func TestCreateDropLifecycle(t *testing.T) {
	ctx := context.Background()
	d := NewDriver()
	cfg := testConfig(t)

	require.NoError(t, d.CreateDatabase(ctx, cfg))
	_, err := os.Stat(cfg.DatabaseName)
	require.NoError(t, err, "create produces the database file")

	err = d.CreateDatabase(ctx, cfg)
	assert.True(t, errors.Is(err, driver.ErrDatabaseExists))

	conn, err := d.Connect(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	require.NoError(t, d.DropDatabase(ctx, cfg))
	_, err = os.Stat(cfg.DatabaseName)
	assert.True(t, os.IsNotExist(err), "drop removes the database file")

	err = d.DropDatabase(ctx, cfg)
	assert.True(t, errors.Is(err, driver.ErrNoDatabase))
}

func TestCreateNestedDirectory(t *testing.T) {
	ctx := context.Background()
	d := NewDriver()
	cfg := driver.Config{
		Driver:       "sqlite",
		DatabaseName: filepath.Join(t.TempDir(), "a", "b", "nested.sdb"),
	}

	require.NoError(t, d.CreateDatabase(ctx, cfg))
	_, err := os.Stat(cfg.DatabaseName)
	assert.NoError(t, err)
}

func TestInMemoryDatabase(t *testing.T) {
	ctx := context.Background()
	d := NewDriver()
	cfg := driver.Config{Driver: "sqlite", DatabaseName: ":memory:"}

	// Create and drop are no-ops for a private in-memory database.
	require.NoError(t, d.CreateDatabase(ctx, cfg))
	require.NoError(t, d.DropDatabase(ctx, cfg))

	conn, err := d.Connect(ctx, cfg)
	require.NoError(t, err)
	defer conn.Close()

	mustExec(t, conn, "CREATE TABLE t (x INTEGER)")
	tables, err := conn.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, tables)
}

func TestConnectionIdentity(t *testing.T) {
	conn := openTestConn(t)

	assert.NotEmpty(t, conn.ID())
	assert.Equal(t, "sqlite", string(conn.Dialect()))
	assert.True(t, conn.IsOpen())
	assert.Contains(t, conn.DatabaseName(), "test.sdb")
	assert.NotNil(t, conn.Raw())
}

func TestCursorRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	mustExec(t, conn, "CREATE TABLE archive (dateTime INTEGER NOT NULL PRIMARY KEY, outTemp REAL)")
	mustExec(t, conn, "INSERT INTO archive VALUES (?, ?)", 1000, 20.5)
	mustExec(t, conn, "INSERT INTO archive VALUES (?, ?)", 2000, 21.0)

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	res, err := cur.Execute(ctx, "SELECT dateTime, outTemp FROM archive ORDER BY dateTime")
	require.NoError(t, err)

	row, err := res.FetchOne()
	require.NoError(t, err)
	require.Len(t, row, 2)
	assert.EqualValues(t, 1000, row[0])

	row, err = res.FetchOne()
	require.NoError(t, err)
	assert.EqualValues(t, 2000, row[0])

	// Exhaustion is a nil row, not an error.
	row, err = res.FetchOne()
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestCursorNextIteration(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	mustExec(t, conn, "CREATE TABLE n (v INTEGER)")
	for _, v := range []int{1, 2, 3} {
		mustExec(t, conn, "INSERT INTO n VALUES (?)", v)
	}

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	_, err = cur.Execute(ctx, "SELECT v FROM n ORDER BY v")
	require.NoError(t, err)

	var got []interface{}
	for cur.Next() {
		require.Len(t, cur.Row(), 1)
		got = append(got, cur.Row()[0])
	}
	require.NoError(t, cur.Err())
	require.Len(t, got, 3)
	assert.EqualValues(t, 1, got[0])
	assert.EqualValues(t, 3, got[2])
}

func TestSelectOne(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	res, err := cur.Execute(ctx, "select 1")
	require.NoError(t, err)

	row, err := res.FetchOne()
	require.NoError(t, err)
	require.Len(t, row, 1)
	assert.EqualValues(t, 1, row[0])

	row, err = res.FetchOne()
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestCursorNonReturningStatement(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	_, err = cur.Execute(ctx, "CREATE TABLE t (x INTEGER)")
	require.NoError(t, err)

	// A statement without a result set is already exhausted.
	row, err := cur.FetchOne()
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestBadSQLIsProgrammingError(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	_, err = cur.Execute(ctx, "SELCT 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrProgramming))
	assert.True(t, errors.Is(err, driver.ErrDatabase))
}

func TestTables(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	tables, err := conn.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)

	mustExec(t, conn, "CREATE TABLE archive (dateTime INTEGER)")
	mustExec(t, conn, "CREATE TABLE archive_day (dateTime INTEGER)")

	tables, err = conn.Tables(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"archive", "archive_day"}, tables)
}

func TestSchemaDescriptors(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	mustExec(t, conn, `CREATE TABLE archive (
		dateTime INTEGER NOT NULL PRIMARY KEY,
		usUnits  INTEGER NOT NULL,
		outTemp  REAL,
		label    TEXT DEFAULT 'none'
	)`)

	it, err := conn.Schema(ctx, "archive")
	require.NoError(t, err)
	cols, err := it.Collect()
	require.NoError(t, err)
	require.Len(t, cols, 4)

	assert.Equal(t, 0, cols[0].Ordinal)
	assert.Equal(t, "dateTime", cols[0].Name)
	assert.Equal(t, "INTEGER", cols[0].Type)
	assert.False(t, cols[0].Nullable)
	assert.True(t, cols[0].IsPrimary)
	assert.Nil(t, cols[0].Default)

	assert.Equal(t, "usUnits", cols[1].Name)
	assert.False(t, cols[1].Nullable)
	assert.False(t, cols[1].IsPrimary)

	assert.Equal(t, "outTemp", cols[2].Name)
	assert.Equal(t, "REAL", cols[2].Type)
	assert.True(t, cols[2].Nullable)

	assert.Equal(t, "label", cols[3].Name)
	require.NotNil(t, cols[3].Default)
	assert.Equal(t, "'none'", *cols[3].Default)
}

func TestSchemaMissingTable(t *testing.T) {
	conn := openTestConn(t)

	_, err := conn.Schema(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrProgramming))
}

func TestColumnsMatchSchema(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	mustExec(t, conn, "CREATE TABLE archive (dateTime INTEGER, usUnits INTEGER, outTemp REAL)")

	names, err := conn.Columns(ctx, "archive")
	require.NoError(t, err)
	assert.Equal(t, []string{"dateTime", "usUnits", "outTemp"}, names)
}

func TestServerVariable(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	v, err := conn.ServerVariable(ctx, "user_version")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "user_version", v.Name)
	assert.Equal(t, "0", v.Value)

	// An unknown pragma yields no row and reports nil.
	v, err = conn.ServerVariable(ctx, "definitely_not_a_pragma")
	require.NoError(t, err)
	assert.Nil(t, v)

	// A name that cannot be a pragma is ignored, not interpolated.
	v, err = conn.ServerVariable(ctx, "1; DROP TABLE archive")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTransactionCommit(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	mustExec(t, conn, "CREATE TABLE t (x INTEGER)")

	require.NoError(t, conn.Begin(ctx))
	mustExec(t, conn, "INSERT INTO t VALUES (?)", 1)
	require.NoError(t, conn.Commit(ctx))

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()
	_, err = cur.Execute(ctx, "SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	row, err := cur.FetchOne()
	require.NoError(t, err)
	assert.EqualValues(t, 1, row[0])
}

func TestTransactionRollback(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	mustExec(t, conn, "CREATE TABLE t (x INTEGER)")

	require.NoError(t, conn.Begin(ctx))
	mustExec(t, conn, "INSERT INTO t VALUES (?)", 1)
	require.NoError(t, conn.Rollback(ctx))

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()
	_, err = cur.Execute(ctx, "SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	row, err := cur.FetchOne()
	require.NoError(t, err)
	assert.EqualValues(t, 0, row[0], "rolled-back insert leaves no trace")
}

func TestTransactionStateErrors(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	// Commit and rollback require an open transaction.
	assert.True(t, errors.Is(conn.Commit(ctx), driver.ErrProgramming))
	assert.True(t, errors.Is(conn.Rollback(ctx), driver.ErrProgramming))

	require.NoError(t, conn.Begin(ctx))
	assert.True(t, errors.Is(conn.Begin(ctx), driver.ErrProgramming),
		"a second Begin fails while a transaction is open")
	require.NoError(t, conn.Rollback(ctx))

	// The connection is reusable after the failed Begin.
	require.NoError(t, conn.Begin(ctx))
	require.NoError(t, conn.Commit(ctx))
}

func TestCloseIsTerminalAndIdempotent(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	cur, err := conn.Cursor()
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	assert.False(t, conn.IsOpen())
	require.NoError(t, conn.Close(), "close is idempotent")

	_, err = conn.Tables(ctx)
	assert.True(t, errors.Is(err, driver.ErrOperational))
	assert.True(t, errors.Is(err, driver.ErrConnectionClosed))

	// Cursors are invalidated with their parent.
	_, err = cur.Execute(ctx, "SELECT 1")
	assert.True(t, errors.Is(err, driver.ErrOperational))
	_, err = cur.FetchOne()
	assert.True(t, errors.Is(err, driver.ErrOperational))
	assert.NoError(t, cur.Close(), "closing an invalidated cursor is a no-op")
}

func TestCloseWithUnfetchedResultSet(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	mustExec(t, conn, "CREATE TABLE t (x INTEGER)")
	mustExec(t, conn, "INSERT INTO t VALUES (1)")
	mustExec(t, conn, "INSERT INTO t VALUES (2)")

	cur, err := conn.Cursor()
	require.NoError(t, err)
	_, err = cur.Execute(ctx, "SELECT x FROM t")
	require.NoError(t, err)

	// The hard abort must return even though the result set was never
	// drained.
	require.NoError(t, conn.Close())

	_, err = cur.FetchOne()
	assert.True(t, errors.Is(err, driver.ErrOperational))
	assert.NoError(t, cur.Close())
}

func TestCommentPrefixedSelect(t *testing.T) {
	ctx := context.Background()
	conn := openTestConn(t)

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	res, err := cur.Execute(ctx, "/* latest */ select 1")
	require.NoError(t, err)

	row, err := res.FetchOne()
	require.NoError(t, err)
	require.Len(t, row, 1)
	assert.EqualValues(t, 1, row[0])
}

func TestCloseRollsBackOpenTransaction(t *testing.T) {
	ctx := context.Background()
	d := NewDriver()
	cfg := testConfig(t)
	require.NoError(t, d.CreateDatabase(ctx, cfg))

	conn, err := d.Connect(ctx, cfg)
	require.NoError(t, err)
	mustExec(t, conn, "CREATE TABLE t (x INTEGER)")
	require.NoError(t, conn.Begin(ctx))
	mustExec(t, conn, "INSERT INTO t VALUES (1)")
	require.NoError(t, conn.Close())

	conn, err = d.Connect(ctx, cfg)
	require.NoError(t, err)
	defer conn.Close()

	cur, err := conn.Cursor()
	require.NoError(t, err)
	defer cur.Close()
	_, err = cur.Execute(ctx, "SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	row, err := cur.FetchOne()
	require.NoError(t, err)
	assert.EqualValues(t, 0, row[0], "close discards the uncommitted insert")
}
