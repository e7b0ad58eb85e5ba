// Package sqlite implements the embedded file-based backend adapter on top
// of the pure-Go modernc.org/sqlite driver. The database name in the
// configuration is the database file path; ":memory:" selects a private
// in-memory database.
package sqlite

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

const driverName = "sqlite"

// Driver implements driver.Driver for SQLite.
type Driver struct{}

// NewDriver creates the SQLite driver.
func NewDriver() driver.Driver {
	return &Driver{}
}

// ID returns the canonical backend identifier.
func (d *Driver) ID() dbcapabilities.DatabaseID {
	return dbcapabilities.SQLite
}

// Capabilities returns the capability metadata for SQLite.
func (d *Driver) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbcapabilities.SQLite)
}

func inMemory(path string) bool {
	return path == ":memory:"
}

// dsn builds the driver DSN, forwarding adapter-specific options verbatim
// as connection parameters.
func dsn(cfg driver.Config) string {
	if len(cfg.Options) == 0 {
		return cfg.DatabaseName
	}
	params := url.Values{}
	for k, v := range cfg.Options {
		params.Set(k, v)
	}
	return cfg.DatabaseName + "?" + params.Encode()
}

// Connect opens the database file. A missing file is KindNoDatabase: the
// file system is SQLite's database catalog, so existence is checked here
// rather than left to the native driver, which would silently create the
// file.
func (d *Driver) Connect(ctx context.Context, cfg driver.Config) (driver.Connection, error) {
	path := cfg.DatabaseName
	if path == "" {
		return nil, driver.Errorf(d.ID(), "connect", driver.KindProgramming, "no database file configured")
	}
	if !inMemory(path) {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, driver.Errorf(d.ID(), "connect", driver.KindNoDatabase,
					"database %s does not exist", path)
			}
			return nil, driver.NewError(d.ID(), "connect", driver.KindCannotConnect, err)
		}
	}
	return common.Open(ctx, dialect{}, cfg, driverName, dsn(cfg))
}

// CreateDatabase creates the database file, failing with KindDatabaseExists
// when it is already present. Parent directories are created as needed.
func (d *Driver) CreateDatabase(ctx context.Context, cfg driver.Config) error {
	path := cfg.DatabaseName
	if path == "" {
		return driver.Errorf(d.ID(), "create", driver.KindProgramming, "no database file configured")
	}
	if inMemory(path) {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return driver.Errorf(d.ID(), "create", driver.KindDatabaseExists,
			"database %s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return driver.NewError(d.ID(), "create", driver.KindOperational, err)
		}
	}

	// Touching the file through the driver validates the path the same
	// way a later Connect will see it.
	conn, err := common.Open(ctx, dialect{}, cfg, driverName, dsn(cfg))
	if err != nil {
		return err
	}
	cur, err := conn.Cursor()
	if err != nil {
		conn.Close()
		return err
	}
	if _, err := cur.Execute(ctx, "PRAGMA user_version = 0"); err != nil {
		conn.Close()
		return err
	}
	if err := cur.Close(); err != nil {
		conn.Close()
		return err
	}
	return conn.Close()
}

// DropDatabase removes the database file, failing with KindNoDatabase when
// it is absent.
func (d *Driver) DropDatabase(ctx context.Context, cfg driver.Config) error {
	path := cfg.DatabaseName
	if path == "" {
		return driver.Errorf(d.ID(), "drop", driver.KindProgramming, "no database file configured")
	}
	if inMemory(path) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return driver.Errorf(d.ID(), "drop", driver.KindNoDatabase,
				"database %s does not exist", path)
		}
		return driver.NewError(d.ID(), "drop", driver.KindOperational, err)
	}
	// WAL and shared-memory side files go with the database.
	os.Remove(path + "-wal")
	os.Remove(path + "-shm")
	return nil
}
