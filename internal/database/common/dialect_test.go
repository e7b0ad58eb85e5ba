package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seriesdb/seriesdb/pkg/dbcapabilities"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// stubDialect counts how often its translation table is consulted.
type stubDialect struct {
	translated int
}

func (s *stubDialect) ID() dbcapabilities.DatabaseID { return dbcapabilities.SQLite }
func (s *stubDialect) Rewrite(query string) string   { return query }

func (s *stubDialect) Translate(op string, err error) error {
	s.translated++
	return driver.NewError(s.ID(), op, driver.KindOperational, err)
}

func (s *stubDialect) Tables(ctx context.Context, q Querier) ([]string, error) {
	return nil, nil
}

func (s *stubDialect) Columns(ctx context.Context, q Querier, table string) (*driver.ColumnIter, error) {
	return nil, nil
}

func (s *stubDialect) ServerVariable(ctx context.Context, q Querier, name string) (*driver.Variable, error) {
	return nil, nil
}

func TestGuardNilPassesThrough(t *testing.T) {
	s := &stubDialect{}
	assert.NoError(t, Guard(s, "execute", nil))
	assert.Zero(t, s.translated)
}

func TestGuardTranslatesNativeErrors(t *testing.T) {
	s := &stubDialect{}
	native := errors.New("disk I/O error")

	err := Guard(s, "execute", native)
	require.Error(t, err)
	assert.Equal(t, 1, s.translated)
	assert.True(t, errors.Is(err, driver.ErrOperational))
	assert.Equal(t, native, errors.Unwrap(err))
}

func TestGuardNeverDoubleWraps(t *testing.T) {
	s := &stubDialect{}
	already := driver.NewError(dbcapabilities.SQLite, "schema", driver.KindProgramming,
		errors.New("table archive does not exist"))

	err := Guard(s, "execute", already)
	assert.Zero(t, s.translated, "an error that already carries a kind is returned as is")
	assert.Equal(t, already, err)

	// Even when wrapped in transport context.
	wrapped := fmt.Errorf("running statement: %w", already)
	err = Guard(s, "execute", wrapped)
	assert.Zero(t, s.translated)
	assert.Equal(t, wrapped, err)
	assert.True(t, errors.Is(err, driver.ErrProgramming))
}
