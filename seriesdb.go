package seriesdb

import (
	"context"

	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"

	// Built-in backend adapters register themselves on import.
	_ "github.com/seriesdb/seriesdb/internal/database/mysql"
	_ "github.com/seriesdb/seriesdb/internal/database/postgres"
	_ "github.com/seriesdb/seriesdb/internal/database/sqlite"
)

// Re-exported driver types, so most applications need only this package.
type (
	Config           = driver.Config
	Connection       = driver.Connection
	Cursor           = driver.Cursor
	Row              = driver.Row
	Variable         = driver.Variable
	ColumnDescriptor = driver.ColumnDescriptor
	ColumnIter       = driver.ColumnIter
	Error            = driver.Error
	Kind             = driver.Kind
)

// Sentinel errors for errors.Is matching against the taxonomy. Every
// taxonomy error also matches ErrDatabase, the root of the hierarchy.
var (
	ErrDatabase       = driver.ErrDatabase
	ErrOperational    = driver.ErrOperational
	ErrProgramming    = driver.ErrProgramming
	ErrCannotConnect  = driver.ErrCannotConnect
	ErrDisconnect     = driver.ErrDisconnect
	ErrBadPassword    = driver.ErrBadPassword
	ErrPermission     = driver.ErrPermission
	ErrDatabaseExists = driver.ErrDatabaseExists
	ErrNoDatabase     = driver.ErrNoDatabase

	ErrConnectionClosed = driver.ErrConnectionClosed
)

// Connect opens a connection to the backend named by cfg.Driver.
func Connect(ctx context.Context, cfg Config) (Connection, error) {
	return driver.Connect(ctx, cfg)
}

// Create creates the database described by cfg. It fails with
// ErrDatabaseExists when the database is already present.
func Create(ctx context.Context, cfg Config) error {
	return driver.Create(ctx, cfg)
}

// Drop deletes the database described by cfg. It fails with ErrNoDatabase
// when the database is absent.
func Drop(ctx context.Context, cfg Config) error {
	return driver.Drop(ctx, cfg)
}

// KindOf reports the taxonomy kind carried by err, if err came from this
// layer.
func KindOf(err error) (Kind, bool) {
	return driver.KindOf(err)
}

// Backends lists the registered backend identifiers.
func Backends() []dbcapabilities.DatabaseID {
	return driver.ListRegistered()
}
