package db

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	. "github.com/Nathan-JzSu/qwt/common"
)

// Column names as written by `qwt derive`.  Order in the file is free.

const (
	ColJobType   = "job_type"
	ColClassUser = "class_user"
	ColClassOwn  = "class_own"
	ColWait      = "first_job_waiting_time"
	ColMonth     = "month"
	ColYear      = "year"
	ColDay       = "day"
	ColJobNumber = "job_number"
	ColSlots     = "slots"
)

var (
	AllColumns = []string{
		ColJobType, ColClassUser, ColClassOwn, ColWait, ColMonth, ColYear, ColDay, ColJobNumber,
		ColSlots,
	}
	requiredColumns = []string{ColJobType, ColWait, ColMonth, ColYear, ColSlots}
)

// Read a CSV dataset.  Bad rows are dropped and counted in softErrors; a bad header is an error.

func ReadCSV(input io.Reader, verbose bool) (records []*JobRecord, softErrors int, err error) {
	rdr := csv.NewReader(input)
	rdr.FieldsPerRecord = -1
	rdr.ReuseRecord = true
	header, err := rdr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("Empty CSV input, no header")
		}
		return nil, 0, err
	}
	index := make(map[string]int)
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, found := index[c]; !found {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("CSV header lacks columns: %s", strings.Join(missing, ", "))
	}

	field := func(fields []string, name string) (string, bool) {
		ix, found := index[name]
		if !found || ix >= len(fields) {
			return "", false
		}
		return strings.TrimSpace(fields[ix]), true
	}

	lineno := 1
	for {
		fields, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineno++
		if err != nil {
			if verbose {
				Log.Infof("Line %d: %v", lineno, err)
			}
			softErrors++
			continue
		}
		var raw rawRecord
		if s, ok := field(fields, ColJobType); ok && s != "" {
			raw.JobType = &s
		}
		if s, ok := field(fields, ColClassUser); ok && !isNA(s) {
			raw.ClassUser = &s
		}
		if s, ok := field(fields, ColClassOwn); ok && !isNA(s) {
			raw.ClassOwn = &s
		}
		if s, ok := field(fields, ColMonth); ok && !isNA(s) {
			raw.Month = &s
		}
		raw.WaitSec = floatField(field(fields, ColWait))
		raw.Year = intField(field(fields, ColYear))
		raw.Day = intField(field(fields, ColDay))
		raw.Slots = intField(field(fields, ColSlots))
		raw.JobNumber = intField(field(fields, ColJobNumber))

		rec, err := raw.clean()
		if err != nil {
			if verbose {
				Log.Infof("Line %d: %v", lineno, err)
			}
			softErrors++
			continue
		}
		records = append(records, rec)
	}
	return records, softErrors, nil
}

func isNA(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		return true
	}
	return false
}

func floatField(s string, present bool) *float64 {
	if !present || isNA(s) {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Integer columns come out of some tools as "2024.0".
func intField(s string, present bool) *int64 {
	if !present || isNA(s) {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &n
	}
	f := floatField(s, present)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	n := int64(*f)
	return &n
}

func ReadCSVFile(fn string, verbose bool) ([]*JobRecord, int, error) {
	input, err := os.Open(fn)
	if err != nil {
		return nil, 0, err
	}
	defer input.Close()
	records, soft, err := ReadCSV(input, verbose)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", fn, err)
	}
	return records, soft, nil
}

// The CSV files in dir, sorted by name.
func CSVFilesIn(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func WriteCSV(output io.Writer, records []*JobRecord) error {
	w := csv.NewWriter(output)
	if err := w.Write(AllColumns); err != nil {
		return err
	}
	row := make([]string, len(AllColumns))
	for _, r := range records {
		row[0] = r.JobType
		row[1] = r.ClassUser
		row[2] = r.ClassOwn
		row[3] = strconv.FormatFloat(r.WaitSec, 'f', -1, 64)
		row[4] = r.Month.String()
		row[5] = strconv.Itoa(r.Year)
		row[6] = ""
		if r.HasDay() {
			row[6] = strconv.Itoa(r.Day)
		}
		row[7] = strconv.FormatUint(r.JobNumber, 10)
		row[8] = strconv.Itoa(r.Slots)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
