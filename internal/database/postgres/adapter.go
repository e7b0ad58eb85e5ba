// Package postgres implements the PostgreSQL backend adapter on top of the
// pgx stdlib driver.
package postgres

import (
	"context"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

const driverName = "pgx"

// dbID is the canonical identifier this adapter registers under.
const dbID = dbcapabilities.PostgreSQL

// Driver implements driver.Driver for PostgreSQL.
type Driver struct{}

// NewDriver creates the PostgreSQL driver.
func NewDriver() driver.Driver {
	return &Driver{}
}

// ID returns the canonical backend identifier.
func (d *Driver) ID() dbcapabilities.DatabaseID {
	return dbID
}

// Capabilities returns the capability metadata for PostgreSQL.
func (d *Driver) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbID)
}

// dsn builds a postgres:// URL for the given database name. TLS defaults
// to off unless the configuration overrides sslmode; remaining options are
// forwarded verbatim as connection parameters.
func dsn(cfg driver.Config, database string) string {
	caps := dbcapabilities.MustGet(dbID)

	query := url.Values{}
	query.Set("sslmode", "disable")
	for k, v := range cfg.Options {
		query.Set(k, v)
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     cfg.Addr(caps.DefaultPort),
		Path:     "/" + database,
		RawQuery: query.Encode(),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	return u.String()
}

// Connect opens a connection to the configured database.
func (d *Driver) Connect(ctx context.Context, cfg driver.Config) (driver.Connection, error) {
	return common.Open(ctx, dialect{}, cfg, driverName, dsn(cfg, cfg.DatabaseName))
}

// CreateDatabase issues CREATE DATABASE through a maintenance session on
// the postgres system database. The statement carries no existence guard
// so that an existing database surfaces as SQLSTATE 42P04 and maps to
// KindDatabaseExists uniformly.
func (d *Driver) CreateDatabase(ctx context.Context, cfg driver.Config) error {
	stmt := fmt.Sprintf("CREATE DATABASE %s", common.QuoteIdentifier(cfg.DatabaseName, '"'))
	return common.ExecMaintenance(ctx, dialect{}, "create", driverName, dsn(cfg, systemDatabase()), stmt)
}

// DropDatabase deletes the named database; a missing database surfaces as
// SQLSTATE 3D000 and maps to KindNoDatabase.
func (d *Driver) DropDatabase(ctx context.Context, cfg driver.Config) error {
	stmt := fmt.Sprintf("DROP DATABASE %s", common.QuoteIdentifier(cfg.DatabaseName, '"'))
	return common.ExecMaintenance(ctx, dialect{}, "drop", driverName, dsn(cfg, systemDatabase()), stmt)
}

func systemDatabase() string {
	caps := dbcapabilities.MustGet(dbID)
	if len(caps.SystemDatabases) > 0 {
		return caps.SystemDatabases[0]
	}
	return ""
}
