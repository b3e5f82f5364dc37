package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "modernc.org/sqlite"

	. "github.com/Nathan-JzSu/qwt/common"
)

func LoadSqlite(ctx context.Context, fn, table string, years []int, verbose bool) ([]*JobRecord, int, error) {
	db, err := sql.Open("sqlite", fn)
	if err != nil {
		return nil, 0, fmt.Errorf("Opening %s: %w", fn, err)
	}
	defer db.Close()

	query, args, err := selectQuery("sqlite3", table, years)
	if err != nil {
		return nil, 0, err
	}
	if verbose {
		Log.Infof("Query: %s %v", query, args)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("Querying %s: %w", table, err)
	}
	defer rows.Close()

	var raws []rawRecord
	for rows.Next() {
		var (
			jobType, classUser, classOwn, month sql.NullString
			wait                                sql.NullFloat64
			year, day, jobNumber, slots         sql.NullInt64
		)
		// Same order as AllColumns
		err := rows.Scan(&jobType, &classUser, &classOwn, &wait, &month, &year, &day, &jobNumber, &slots)
		if err != nil {
			return nil, 0, fmt.Errorf("Reading %s: %w", table, err)
		}
		raws = append(raws, rawRecord{
			JobType:   nullString(jobType),
			ClassUser: nullString(classUser),
			ClassOwn:  nullString(classOwn),
			Month:     nullString(month),
			WaitSec:   nullFloat(wait),
			Year:      nullInt(year),
			Day:       nullInt(day),
			JobNumber: nullInt(jobNumber),
			Slots:     nullInt(slots),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	records, soft := cleanAll(raws, verbose)
	return records, soft, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}

const createTableSql = `CREATE TABLE IF NOT EXISTS %q (
	job_type TEXT NOT NULL,
	class_user TEXT,
	class_own TEXT,
	first_job_waiting_time REAL NOT NULL,
	month TEXT NOT NULL,
	year INTEGER NOT NULL,
	day INTEGER,
	job_number INTEGER,
	slots INTEGER NOT NULL
)`

const insertBatchSize = 500

// Write records to a table in an SQLite file, creating the table if necessary.

func WriteSqlite(ctx context.Context, fn, table string, records []*JobRecord) error {
	db, err := sql.Open("sqlite", fn)
	if err != nil {
		return fmt.Errorf("Opening %s: %w", fn, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(createTableSql, table)); err != nil {
		return fmt.Errorf("Creating %s: %w", table, err)
	}
	dialect := goqu.Dialect("sqlite3")
	for lo := 0; lo < len(records); lo += insertBatchSize {
		hi := min(lo+insertBatchSize, len(records))
		rows := make([]any, 0, hi-lo)
		for _, r := range records[lo:hi] {
			var day any
			if r.HasDay() {
				day = r.Day
			}
			rows = append(rows, goqu.Record{
				ColJobType:   r.JobType,
				ColClassUser: r.ClassUser,
				ColClassOwn:  r.ClassOwn,
				ColWait:      r.WaitSec,
				ColMonth:     r.Month.String(),
				ColYear:      r.Year,
				ColDay:       day,
				ColJobNumber: int64(r.JobNumber),
				ColSlots:     r.Slots,
			})
		}
		query, args, err := dialect.Insert(goqu.T(table)).Rows(rows...).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("Inserting into %s: %w", table, err)
		}
	}
	return tx.Commit()
}
