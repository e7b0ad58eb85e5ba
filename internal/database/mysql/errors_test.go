package mysql

import (
	dbsql "database/sql/driver"
	"errors"
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriesdb/seriesdb/pkg/driver"
)

func TestTranslateServerErrors(t *testing.T) {
	tests := []struct {
		number   uint16
		sentinel error
	}{
		{1007, driver.ErrDatabaseExists},
		{1008, driver.ErrNoDatabase},
		{1044, driver.ErrPermission},
		{1045, driver.ErrBadPassword},
		{1049, driver.ErrNoDatabase},
		{1054, driver.ErrProgramming},
		{1064, driver.ErrProgramming},
		{1142, driver.ErrPermission},
		{1146, driver.ErrProgramming},
		{2002, driver.ErrCannotConnect},
		{2006, driver.ErrDisconnect},
		{2013, driver.ErrDisconnect},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.number), func(t *testing.T) {
			native := &gomysql.MySQLError{Number: tt.number, Message: "native message"}
			err := dialect{}.Translate("execute", native)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.True(t, errors.Is(err, driver.ErrDatabase))

			var native2 *gomysql.MySQLError
			require.True(t, errors.As(err, &native2), "native cause stays reachable")
		})
	}
}

func TestTranslateUnmappedNumberIsRootKind(t *testing.T) {
	native := &gomysql.MySQLError{Number: 1205, Message: "lock wait timeout"}
	err := dialect{}.Translate("execute", native)

	kind, ok := driver.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, driver.KindDatabase, kind)
	assert.True(t, errors.Is(err, driver.ErrDatabase))
	assert.False(t, errors.Is(err, driver.ErrProgramming))
}

func TestTranslateConnectionLoss(t *testing.T) {
	err := dialect{}.Translate("execute", gomysql.ErrInvalidConn)
	assert.True(t, errors.Is(err, driver.ErrDisconnect))

	err = dialect{}.Translate("execute", dbsql.ErrBadConn)
	assert.True(t, errors.Is(err, driver.ErrDisconnect))
}

func TestTranslateConnectPhaseFallback(t *testing.T) {
	netErr := errors.New("dial tcp 127.0.0.1:3306: connection refused")

	err := dialect{}.Translate("connect", netErr)
	assert.True(t, errors.Is(err, driver.ErrCannotConnect))

	err = dialect{}.Translate("execute", netErr)
	kind, ok := driver.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, driver.KindDatabase, kind)
}
