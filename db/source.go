package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/Nathan-JzSu/qwt/common"
)

var ErrNoSource = errors.New("No data source: provide -data-file, -data-dir, -snapshot, -database-uri or -sqlite")

// Exactly one kind of source should be set; Validate() in the command layer checks that.  Several
// data files and snapshots may be given and are concatenated.

type Source struct {
	DataFiles   []string
	DataDir     string
	Snapshots   []string
	DatabaseURI string
	Sqlite      string
	Table       string
	Years       []int // only pushed down to database sources
	Verbose     bool
}

func (s *Source) Empty() bool {
	return len(s.DataFiles) == 0 && s.DataDir == "" && len(s.Snapshots) == 0 && s.DatabaseURI == "" &&
		s.Sqlite == ""
}

func (s *Source) Describe() string {
	switch {
	case s.DatabaseURI != "":
		return "database"
	case s.Sqlite != "":
		return s.Sqlite
	case len(s.Snapshots) > 0:
		return fmt.Sprint(s.Snapshots)
	case s.DataDir != "":
		return s.DataDir
	default:
		return fmt.Sprint(s.DataFiles)
	}
}

// Load everything the source names into a new Store.

func Open(ctx context.Context, s Source) (*Store, error) {
	if s.Empty() {
		return nil, ErrNoSource
	}
	table := s.Table
	if table == "" {
		table = DefaultTable
	}
	started := time.Now()
	var (
		records []*JobRecord
		soft    int
		err     error
	)
	switch {
	case s.DatabaseURI != "":
		records, soft, err = LoadPostgres(ctx, s.DatabaseURI, table, s.Years, s.Verbose)
	case s.Sqlite != "":
		records, soft, err = LoadSqlite(ctx, s.Sqlite, table, s.Years, s.Verbose)
	case len(s.Snapshots) > 0:
		for _, fn := range s.Snapshots {
			var rs []*JobRecord
			rs, err = ReadSnapshotFile(fn)
			if err != nil {
				break
			}
			records = append(records, rs...)
		}
	default:
		files := s.DataFiles
		if s.DataDir != "" {
			var more []string
			more, err = CSVFilesIn(s.DataDir)
			if err == nil && len(more) == 0 {
				err = fmt.Errorf("No CSV files in %s", s.DataDir)
			}
			files = append(files, more...)
		}
		for _, fn := range files {
			if err != nil {
				break
			}
			var rs []*JobRecord
			var n int
			rs, n, err = ReadCSVFile(fn, s.Verbose)
			records = append(records, rs...)
			soft += n
		}
	}
	if err != nil {
		return nil, err
	}
	if soft > 0 {
		Log.Warningf("Dropped %d malformed rows from %s", soft, s.Describe())
	}
	if s.Verbose {
		Log.Infof("Loaded %d rows from %s in %v", len(records), s.Describe(), time.Since(started))
	}
	return NewStore(records), nil
}
