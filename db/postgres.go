package db

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"

	. "github.com/Nathan-JzSu/qwt/common"
)

const DefaultTable = "job_wait"

// Build the SELECT for the dataset table in the given goqu dialect.  If years is not empty then only
// those years are loaded.

func selectQuery(dialect, table string, years []int) (string, []any, error) {
	cols := make([]any, len(AllColumns))
	for i, c := range AllColumns {
		cols[i] = goqu.C(c)
	}
	ds := goqu.Dialect(dialect).
		From(goqu.T(table)).
		Select(cols...).
		Order(goqu.C(ColYear).Asc(), goqu.C(ColJobNumber).Asc()).
		Prepared(true)
	if len(years) > 0 {
		ds = ds.Where(goqu.C(ColYear).In(years))
	}
	return ds.ToSQL()
}

// Load the dataset from a PostgreSQL (or TimescaleDB) table.

func LoadPostgres(ctx context.Context, uri, table string, years []int, verbose bool) ([]*JobRecord, int, error) {
	conn, err := pgx.Connect(ctx, uri)
	if err != nil {
		return nil, 0, fmt.Errorf("Connecting to database: %w", err)
	}
	defer conn.Close(ctx)

	sql, args, err := selectQuery("postgres", table, years)
	if err != nil {
		return nil, 0, err
	}
	if verbose {
		Log.Infof("Query: %s %v", sql, args)
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("Querying %s: %w", table, err)
	}
	raws, err := pgx.CollectRows(rows, pgx.RowToStructByName[rawRecord])
	if err != nil {
		return nil, 0, fmt.Errorf("Reading %s: %w", table, err)
	}
	records, soft := cleanAll(raws, verbose)
	return records, soft, nil
}

func cleanAll(raws []rawRecord, verbose bool) ([]*JobRecord, int) {
	records := make([]*JobRecord, 0, len(raws))
	soft := 0
	for i := range raws {
		rec, err := raws[i].clean()
		if err != nil {
			if verbose {
				Log.Infof("Row %d: %v", i+1, err)
			}
			soft++
			continue
		}
		records = append(records, rec)
	}
	return records, soft
}
