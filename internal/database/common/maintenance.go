package common

import (
	"context"
	"database/sql"
)

// ExecMaintenance opens a short-lived connection, typically against the
// backend's system database, runs one statement, and closes. Used by the
// client/server adapters for CREATE DATABASE and DROP DATABASE, which
// cannot run against the database they target.
func ExecMaintenance(ctx context.Context, d Dialect, op, driverName, dsn, stmt string) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return Guard(d, op, err)
	}
	defer db.Close()

	conn, err := db.Conn(ctx)
	if err != nil {
		return Guard(d, "connect", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, stmt)
	return Guard(d, op, err)
}
