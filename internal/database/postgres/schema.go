package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/seriesdb/seriesdb/internal/database/common"
	"github.com/seriesdb/seriesdb/pkg/driver"
)

// Tables lists ordinary tables from pg_class, excluding the pg_ and sql_
// catalog namespaces.
func (dialect) Tables(ctx context.Context, q common.Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT relname FROM pg_class
		 WHERE relkind = 'r' AND relname !~ '^(pg_|sql_)'
		 ORDER BY relname`)
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
// marking primary-key membership through the table's PRIMARY KEY
// constraint. An unknown table yields zero rows rather than a server
// error, so emptiness is checked up front and surfaced as
// KindProgramming.
func (d dialect) Columns(ctx context.Context, q common.Querier, table string) (*driver.ColumnIter, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT c.ordinal_position, c.column_name, c.data_type, c.is_nullable,
		        c.column_default, k.column_name IS NOT NULL
		 FROM information_schema.columns c
		 LEFT JOIN (
		     SELECT kcu.table_schema, kcu.table_name, kcu.column_name
		     FROM information_schema.table_constraints tc
		     JOIN information_schema.key_column_usage kcu
		       ON kcu.constraint_name = tc.constraint_name
		      AND kcu.table_schema = tc.table_schema
		      AND kcu.table_name = tc.table_name
		     WHERE tc.constraint_type = 'PRIMARY KEY'
		 ) k ON k.table_schema = c.table_schema
		    AND k.table_name = c.table_name
		    AND k.column_name = c.column_name
		 WHERE c.table_schema = current_schema() AND c.table_name = $1
		 ORDER BY c.ordinal_position`, table)
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
			primary  bool
		)
		if err := rows.Scan(&position, &name, &typ, &nullable, &dflt, &primary); err != nil {
			return nil, err
		}
		desc := &driver.ColumnDescriptor{
			// ordinal_position counts from 1; descriptors count from 0.
			Ordinal:   position - 1,
			Name:      name,
			Type:      strings.ToUpper(typ),
			Nullable:  nullable == "YES",
			IsPrimary: primary,
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

var variableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// ServerVariable resolves a runtime parameter through SHOW. An unknown
// parameter fails with SQLSTATE 42704, which is reported as nil, not an
// error.
func (dialect) ServerVariable(ctx context.Context, q common.Querier, name string) (*driver.Variable, error) {
	if !variableName.MatchString(name) {
		return nil, nil
	}
	var value string
	err := q.QueryRowContext(ctx, fmt.Sprintf("SHOW %s", name)).Scan(&value)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42704" {
			return nil, nil
		}
		return nil, err
	}
	return &driver.Variable{Name: name, Value: value}, nil
}
