// Package mysql implements the MySQL/MariaDB backend adapter on top of
// github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

const driverName = "mysql"

// dbID is the canonical identifier this adapter registers under.
const dbID = dbcapabilities.MySQL

// Driver implements driver.Driver for MySQL.
type Driver struct{}

// NewDriver creates the MySQL driver.
func NewDriver() driver.Driver {
	return &Driver{}
}

// ID returns the canonical backend identifier.
func (d *Driver) ID() dbcapabilities.DatabaseID {
	return dbID
}

// Capabilities returns the capability metadata for MySQL.
func (d *Driver) Capabilities() dbcapabilities.Capability {
	return dbcapabilities.MustGet(dbID)
}

// dsn builds the native DSN for the given database name, forwarding the
// adapter-specific options verbatim as DSN parameters.
func dsn(cfg driver.Config, database string) string {
	caps := dbcapabilities.MustGet(dbID)

	native := gomysql.NewConfig()
	native.User = cfg.User
	native.Passwd = cfg.Password
	native.Net = "tcp"
	native.Addr = cfg.Addr(caps.DefaultPort)
	native.DBName = database
	if len(cfg.Options) > 0 {
		native.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			native.Params[k] = v
		}
	}
	return native.FormatDSN()
}

// Connect opens a connection to the configured database.
func (d *Driver) Connect(ctx context.Context, cfg driver.Config) (driver.Connection, error) {
	return common.Open(ctx, dialect{}, cfg, driverName, dsn(cfg, cfg.DatabaseName))
}

// CreateDatabase issues CREATE DATABASE through a maintenance session on
// the system database. The statement is issued without an existence guard
// so that an existing database surfaces as the native duplicate error and
// maps to KindDatabaseExists uniformly.
func (d *Driver) CreateDatabase(ctx context.Context, cfg driver.Config) error {
	stmt := fmt.Sprintf("CREATE DATABASE %s", common.QuoteIdentifier(cfg.DatabaseName, '`'))
	return common.ExecMaintenance(ctx, dialect{}, "create", driverName, dsn(cfg, systemDatabase()), stmt)
}

// DropDatabase deletes the named database; a missing database maps to
// KindNoDatabase through the native error.
func (d *Driver) DropDatabase(ctx context.Context, cfg driver.Config) error {
	stmt := fmt.Sprintf("DROP DATABASE %s", common.QuoteIdentifier(cfg.DatabaseName, '`'))
	return common.ExecMaintenance(ctx, dialect{}, "drop", driverName, dsn(cfg, systemDatabase()), stmt)
}

func systemDatabase() string {
	caps := dbcapabilities.MustGet(dbID)
	if len(caps.SystemDatabases) > 0 {
		return caps.SystemDatabases[0]
	}
	return ""
}
