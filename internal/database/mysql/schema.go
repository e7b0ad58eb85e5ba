package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// Tables lists base tables in the connected schema, excluding views.
func (dialect) Tables(ctx context.Context, q common.Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		 ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Columns walks information_schema.columns in declared column order,
// canonicalizing the YES/NO nullability flag and the PRI key marker. An
// unknown table yields zero rows rather than a server error, so emptiness
// is checked up front and surfaced as KindProgramming.
func (d dialect) Columns(ctx context.Context, q common.Querier, table string) (*driver.ColumnIter, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT ordinal_position, column_name, column_type, is_nullable,
		        column_default, column_key
		 FROM information_schema.columns
		 WHERE table_schema = DATABASE() AND table_name = ?
		 ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, err
	}

	scanNext := func() (*driver.ColumnDescriptor, error) {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, nil
		}
		var (
			position int
			name     string
			typ      string
			nullable string
			dflt     sql.NullString
			key      string
		)
		if err := rows.Scan(&position, &name, &typ, &nullable, &dflt, &key); err != nil {
			return nil, err
		}
		desc := &driver.ColumnDescriptor{
			// ordinal_position counts from 1; descriptors count from 0.
			Ordinal:   position - 1,
			Name:      name,
			Type:      strings.ToUpper(typ),
			Nullable:  nullable == "YES",
			IsPrimary: key == "PRI",
		}
		if dflt.Valid {
			v := dflt.String
			desc.Default = &v
		}
		return desc, nil
	}

	first, err := scanNext()
	if err != nil {
		rows.Close()
		return nil, err
	}
	if first == nil {
		rows.Close()
		return nil, driver.Errorf(dbID, "schema", driver.KindProgramming,
			"table %s does not exist", table)
	}

	pending := first
	fetch := func() (*driver.ColumnDescriptor, error) {
		if pending != nil {
			d := pending
			pending = nil
			return d, nil
		}
		return scanNext()
	}
	return driver.NewColumnIter(fetch, rows.Close), nil
}

// ServerVariable resolves a server variable through SHOW VARIABLES. An
// unknown name yields no row, which is reported as nil, not an error.
func (dialect) ServerVariable(ctx context.Context, q common.Querier, name string) (*driver.Variable, error) {
	rows, err := q.QueryContext(ctx, "SHOW VARIABLES LIKE ?", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var variable driver.Variable
	if err := rows.Scan(&variable.Name, &variable.Value); err != nil {
		return nil, err
	}
	return &variable, nil
}
