package mysql

import (
	dbsql "database/sql/driver"
	"errors"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// codeMap translates MySQL server and client error numbers into the
// uniform error taxonomy. Unmapped numbers fall back to the root kind.
var codeMap = driver.CodeMap{
	// Server errors.
	"1007": driver.KindDatabaseExists, // ER_DB_CREATE_EXISTS
	"1008": driver.KindNoDatabase,     // ER_DB_DROP_EXISTS
	"1044": driver.KindPermission,     // ER_DBACCESS_DENIED_ERROR
	"1045": driver.KindBadPassword,    // ER_ACCESS_DENIED_ERROR
	"1049": driver.KindNoDatabase,     // ER_BAD_DB_ERROR
	"1054": driver.KindProgramming,    // ER_BAD_FIELD_ERROR
	"1064": driver.KindProgramming,    // ER_PARSE_ERROR
	"1142": driver.KindPermission,     // ER_TABLEACCESS_DENIED_ERROR
	"1146": driver.KindProgramming,    // ER_NO_SUCH_TABLE

	// Client errors.
	"2002": driver.KindCannotConnect, // CR_CONNECTION_ERROR
	"2003": driver.KindCannotConnect, // CR_CONN_HOST_ERROR
	"2005": driver.KindCannotConnect, // CR_UNKNOWN_HOST
	"2006": driver.KindDisconnect,    // CR_SERVER_GONE_ERROR
	"2013": driver.KindDisconnect,    // CR_SERVER_LOST
}

type dialect struct{}

func (dialect) ID() dbcapabilities.DatabaseID {
	return dbID
}

// Rewrite is the identity: MySQL natively accepts backtick quoting and
// question-mark placeholders.
func (dialect) Rewrite(query string) string {
	return query
}

// Translate maps a native go-sql-driver error onto the taxonomy.
func (dialect) Translate(op string, err error) error {
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		code := strconv.Itoa(int(mysqlErr.Number))
		return driver.Translate(dbID, op, code, codeMap, err)
	}
	if errors.Is(err, gomysql.ErrInvalidConn) || errors.Is(err, dbsql.ErrBadConn) {
		return driver.NewError(dbID, op, driver.KindDisconnect, err)
	}
	if op == "connect" {
		return driver.NewError(dbID, op, driver.KindCannotConnect, err)
	}
	return driver.NewError(dbID, op, driver.KindDatabase, err)
}

var _ common.Dialect = dialect{}
