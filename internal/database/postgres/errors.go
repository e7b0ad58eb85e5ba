package postgres

import (
	dbsql "database/sql/driver"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// codeMap translates PostgreSQL SQLSTATE values into the uniform error
// taxonomy. Unmapped states fall back to the root kind.
var codeMap = driver.CodeMap{
	// Connection establishment.
	"08000": driver.KindCannotConnect, // connection_exception
	"08001": driver.KindCannotConnect, // sqlclient_unable_to_establish_sqlconnection
	"08003": driver.KindCannotConnect, // connection_does_not_exist
	"57P03": driver.KindCannotConnect, // cannot_connect_now

	// Connection loss after establishment.
	"08004": driver.KindDisconnect, // sqlserver_rejected_establishment_of_sqlconnection
	"08006": driver.KindDisconnect, // connection_failure
	"08P01": driver.KindDisconnect, // protocol_violation
	"57P01": driver.KindDisconnect, // admin_shutdown
	"57P02": driver.KindDisconnect, // crash_shutdown
	"57P04": driver.KindDisconnect, // database_dropped
	"57P05": driver.KindDisconnect, // idle_session_timeout

	// Authentication.
	"28000": driver.KindBadPassword, // invalid_authorization_specification
	"28P01": driver.KindBadPassword, // invalid_password

	// Privileges.
	"38001": driver.KindPermission, // containing_sql_not_permitted
	"38002": driver.KindPermission, // modifying_sql_data_not_permitted
	"38003": driver.KindPermission, // prohibited_sql_statement_attempted
	"38004": driver.KindPermission, // reading_sql_data_not_permitted
	"42501": driver.KindPermission, // insufficient_privilege

	// Catalog state.
	"42P04": driver.KindDatabaseExists, // duplicate_database
	"3D000": driver.KindNoDatabase,     // invalid_catalog_name

	// Statement errors.
	"42601": driver.KindProgramming, // syntax_error
	"42P01": driver.KindProgramming, // undefined_table
	"42703": driver.KindProgramming, // undefined_column
}

type dialect struct{}

func (dialect) ID() dbcapabilities.DatabaseID {
	return dbID
}

// Rewrite converts the neutral convention to PostgreSQL's double-quoted
// identifiers and numbered placeholders.
func (dialect) Rewrite(query string) string {
	return common.RewriteToDollar(query)
}

// Translate maps a native pgx error onto the taxonomy via its SQLSTATE.
func (dialect) Translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return driver.Translate(dbID, op, pgErr.Code, codeMap, err)
	}
	if errors.Is(err, dbsql.ErrBadConn) {
		return driver.NewError(dbID, op, driver.KindDisconnect, err)
	}
	if op == "connect" {
		return driver.NewError(dbID, op, driver.KindCannotConnect, err)
	}
	return driver.NewError(dbID, op, driver.KindDatabase, err)
}

var _ common.Dialect = dialect{}
