package sqlite

import (
	"errors"
	"strconv"

	sqlite3 "modernc.org/sqlite"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// codeMap assigns SQLite primary result codes to taxonomy kinds. Extended
// result codes are looked up first, then reduced to their primary code;
// anything still unmapped falls through to the root kind.
var codeMap = driver.CodeMap{
	"1":  driver.KindProgramming,   // SQLITE_ERROR: bad SQL, missing object
	"5":  driver.KindOperational,   // SQLITE_BUSY
	"6":  driver.KindOperational,   // SQLITE_LOCKED
	"8":  driver.KindPermission,    // SQLITE_READONLY
	"10": driver.KindOperational,   // SQLITE_IOERR
	"13": driver.KindOperational,   // SQLITE_FULL
	"14": driver.KindCannotConnect, // SQLITE_CANTOPEN
	"23": driver.KindPermission,    // SQLITE_AUTH
}

// dbID is the canonical identifier this adapter registers under.
const dbID = dbcapabilities.SQLite

// dialect supplies the SQLite hooks to the shared connection base.
type dialect struct{}

func (dialect) ID() dbcapabilities.DatabaseID {
	return dbID
}

// Rewrite is the identity: SQLite accepts both the neutral backtick
// identifier quoting and `?` placeholders natively.
func (dialect) Rewrite(query string) string {
	return query
}

// Translate maps a native sqlite failure to its taxonomy kind, carrying the
// native message as diagnostic content.
func (dialect) Translate(op string, err error) error {
	var se *sqlite3.Error
	if errors.As(err, &se) {
		code := se.Code()
		if kind, ok := codeMap[strconv.Itoa(code)]; ok {
			return driver.NewError(dbID, op, kind, err)
		}
		return driver.Translate(dbID, op, strconv.Itoa(code&0xff), codeMap, err)
	}
	if op == "connect" {
		return driver.NewError(dbID, op, driver.KindCannotConnect, err)
	}
	return driver.NewError(dbID, op, driver.KindDatabase, err)
}

var _ common.Dialect = dialect{}
