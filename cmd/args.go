package cmd

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/pages"
	"github.com/Nathan-JzSu/qwt/query"
	. "github.com/Nathan-JzSu/qwt/table"
	"github.com/Nathan-JzSu/qwt/util/status"
)

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// DevArgs are for development and their inclusion can be controlled with the devArgs setting,
// below.

type DevArgs struct {
	CpuProfile string
}

const devArgs = true

func (d *DevArgs) CpuProfileFile() string {
	return d.CpuProfile
}

func (d *DevArgs) Add(fs *CLI) {
	if devArgs {
		fs.Group("development")
		fs.StringVar(&d.CpuProfile, "cpuprofile", "",
			"(Development) write cpu profile to `filename`")
	}
}

func (d *DevArgs) Validate() error {
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// -v also lowers the log level so that soft errors and timings are reported.

type VerboseArgs struct {
	Verbose bool
}

func (va *VerboseArgs) Add(fs *CLI) {
	fs.Group("development")
	fs.BoolVar(&va.Verbose, "v", false, "Print verbose diagnostics to stderr")
	fs.BoolVar(&va.Verbose, "verbose", false, "Print verbose diagnostics to stderr")
}

func (va *VerboseArgs) Validate() error {
	if va.Verbose {
		Log.LowerLevelTo(status.LogLevelInfo)
	}
	return nil
}

func (va *VerboseArgs) VerboseFlag() bool {
	return va.Verbose
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// The config file supplies defaults for other options and must be validated before them.

type ConfigFileArgs struct {
	ConfigFilename string
}

func (cfa *ConfigFileArgs) Add(fs *CLI) {
	fs.Group("application-control")
	fs.StringVar(&cfa.ConfigFilename, "config-file", "",
		"Read option defaults from this ini `filename` [default: $HOME/.qwt]")
}

func (cfa *ConfigFileArgs) Validate() error {
	if cfa.ConfigFilename != "" {
		cfa.ConfigFilename = path.Clean(cfa.ConfigFilename)
		if err := LoadConfigFile(cfa.ConfigFilename); err != nil {
			return fmt.Errorf("Failed to read config file: %w", err)
		}
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// SourceArgs name the dataset.  Exactly one kind of source may be given; if none is given on the
// command line the [data-source] section of the config file is consulted.

type SourceArgs struct {
	DataFiles   []string
	DataDir     string
	Snapshots   []string
	DatabaseURI string
	Sqlite      string
	Table       string
	Years       []int
}

func (s *SourceArgs) Add(fs *CLI) {
	fs.Group("data-source")
	fs.Var(NewRepeatableStringNoCommas(&s.DataFiles), "data-file",
		"Read the dataset from this CSV `filename` (repeatable)")
	fs.StringVar(&s.DataDir, "data-dir", "",
		"Read the dataset from all CSV files in this `directory`")
	fs.Var(NewRepeatableStringNoCommas(&s.Snapshots), "snapshot",
		"Read the dataset from this CBOR snapshot `filename` (repeatable)")
	fs.StringVar(&s.DatabaseURI, "database-uri", "",
		"Read the dataset from the PostgreSQL database at this `uri`")
	fs.StringVar(&s.Sqlite, "sqlite", "",
		"Read the dataset from this SQLite `filename`")
	fs.StringVar(&s.Table, "table", "",
		"Read database sources from this `table` [default: "+db.DefaultTable+"]")
	fs.Var(NewRepeatableInt(&s.Years), "load-year",
		"Load only rows for this `year` from database sources (repeatable) [default: all]")
}

func (s *SourceArgs) kinds() int {
	n := 0
	for _, b := range []bool{
		len(s.DataFiles) > 0, s.DataDir != "", len(s.Snapshots) > 0, s.DatabaseURI != "",
		s.Sqlite != "",
	} {
		if b {
			n++
		}
	}
	return n
}

func (s *SourceArgs) Validate() error {
	if s.kinds() == 0 {
		var dataFile, snapshot string
		switch {
		case ApplyDefault(&dataFile, DataSourceDataFile):
			s.DataFiles = []string{dataFile}
		case ApplyDefault(&s.DataDir, DataSourceDataDir):
		case ApplyDefault(&snapshot, DataSourceSnapshot):
			s.Snapshots = []string{snapshot}
		case ApplyDefault(&s.DatabaseURI, DataSourceDatabaseURI):
		case ApplyDefault(&s.Sqlite, DataSourceSqlite):
		}
	}
	switch s.kinds() {
	case 0:
		return db.ErrNoSource
	case 1:
	default:
		return errors.New("Only one kind of data source can be given")
	}
	for i := range s.DataFiles {
		s.DataFiles[i] = path.Clean(s.DataFiles[i])
	}
	for i := range s.Snapshots {
		s.Snapshots[i] = path.Clean(s.Snapshots[i])
	}
	if s.DataDir != "" {
		s.DataDir = path.Clean(s.DataDir)
	}
	return nil
}

func (s *SourceArgs) SourceFlags() *SourceArgs {
	return s
}

func (s *SourceArgs) Source(verbose bool) db.Source {
	return db.Source{
		DataFiles:   s.DataFiles,
		DataDir:     s.DataDir,
		Snapshots:   s.Snapshots,
		DatabaseURI: s.DatabaseURI,
		Sqlite:      s.Sqlite,
		Table:       s.Table,
		Years:       s.Years,
		Verbose:     verbose,
	}
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Query inputs, as a page would receive them.  They are not parsed here: malformed values are not
// an argument error but select nothing, with a warning.

type InputArgs struct {
	Page       string
	Years      []string
	Months     []string
	Days       []string
	JobTypes   []string
	CPUBuckets []string
	Queue      string
	WaitMin    string
	WaitMax    string
	WaitUnit   string
}

func (ia *InputArgs) Add(fs *CLI) {
	fs.Group("operation-selection")
	fs.StringVar(&ia.Page, "page", "all",
		"Query this `page`: "+strings.Join(pages.PageNames(), ", "))
	fs.Group("query-input")
	fs.Var(NewRepeatableStringNoCommas(&ia.Years), "year",
		"Select this `year` (repeatable) [default: page dependent]")
	fs.Var(NewRepeatableStringNoCommas(&ia.Months), "month",
		"Select this `month`, Jan..Dec (repeatable) [default: page dependent]")
	fs.Var(NewRepeatableStringNoCommas(&ia.Days), "day",
		"Select this `day` of the month (repeatable) [default: all]")
	fs.Var(NewRepeatableStringNoCommas(&ia.JobTypes), "job-type",
		"Select this `job-type` (repeatable); an empty value selects none on the all page\n"+
			"[default: all]")
	fs.Var(NewRepeatableStringNoCommas(&ia.CPUBuckets), "cpu",
		"Select this CPU `bucket` on the omp page (repeatable) [default: all]")
	fs.StringVar(&ia.Queue, "queue", "",
		"Select queues of this `class`: all, shared or buyin [default: all]")
	fs.StringVar(&ia.WaitMin, "wait-min", "",
		"Select jobs that waited at least this `amount` [default: no limit]")
	fs.StringVar(&ia.WaitMax, "wait-max", "",
		"Select jobs that waited at most this `amount` [default: no limit]")
	fs.StringVar(&ia.WaitUnit, "wait-unit", "",
		"The `unit` of -wait-min and -wait-max: sec, min, hour [default: min]")
}

func (ia *InputArgs) Validate() error {
	for _, n := range pages.PageNames() {
		if ia.Page == n {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", pages.ErrUnknownPage, ia.Page)
}

func (ia *InputArgs) Input() *query.Input {
	return &query.Input{
		Years:      ia.Years,
		Months:     ia.Months,
		Days:       ia.Days,
		JobTypes:   ia.JobTypes,
		CPUBuckets: ia.CPUBuckets,
		Queue:      ia.Queue,
		WaitMin:    ia.WaitMin,
		WaitMax:    ia.WaitMax,
		WaitUnit:   ia.WaitUnit,
	}
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Format arguments - same logic for most consumers.

type FormatArgs struct {
	// Print args
	Fmt string

	// Synthesized and other
	PrintFields []string
	PrintOpts   *FormatOptions
}

func (fa *FormatArgs) Add(fs *CLI) {
	fs.Group("printing")
	fs.StringVar(&fa.Fmt, "fmt", "",
		"Select `field,...` and format for the output [default: try -fmt=help]")
}

func ValidateFormatArgs[T any](
	fa *FormatArgs,
	defaultFields string,
	formatters map[string]Formatter[T],
	aliases map[string][]string,
	def DefaultFormat,
) error {
	var others map[string]bool
	fa.PrintFields, others = ParseFormatSpec(defaultFields, fa.Fmt, formatters, aliases)
	fa.PrintOpts = StandardFormatOptions(others, def)
	var err error
	if bad := UnknownControls(others); len(bad) > 0 {
		err = fmt.Errorf("Unknown field or control in format string: %s", strings.Join(bad, ","))
	} else if len(fa.PrintFields) == 0 {
		err = errors.New("No valid output fields were selected in format string")
	}
	return err
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Repeatable arguments.

type RepeatableStringNoCommas struct {
	xs *[]string
}

func NewRepeatableStringNoCommas(xs *[]string) *RepeatableStringNoCommas {
	return &RepeatableStringNoCommas{xs}
}

func (rs *RepeatableStringNoCommas) String() string {
	if rs == nil || rs.xs == nil {
		return ""
	}
	return strings.Join(*rs.xs, ",")
}

func (rs *RepeatableStringNoCommas) Set(s string) error {
	if *rs.xs == nil {
		*rs.xs = []string{s}
	} else {
		*rs.xs = append(*rs.xs, s)
	}
	return nil
}

type RepeatableCommaSeparated[T any] struct {
	xs         *[]T
	fromString func(string) (T, error)
}

func (rs *RepeatableCommaSeparated[T]) String() string {
	if rs == nil || rs.xs == nil {
		return ""
	}
	s := ""
	for _, v := range *rs.xs {
		if s != "" {
			s += ","
		}
		s += fmt.Sprint(v)
	}
	return s
}

func (rs *RepeatableCommaSeparated[T]) Set(s string) error {
	ys := strings.Split(s, ",") // OK: "" is ruled out below
	ws := make([]T, 0, len(ys))
	for _, y := range ys {
		if y == "" {
			return errors.New("Empty string is an invalid argument")
		}
		n, err := rs.fromString(y)
		if err != nil {
			return err
		}
		ws = append(ws, n)
	}
	if *rs.xs == nil {
		*rs.xs = ws
	} else {
		*rs.xs = append(*rs.xs, ws...)
	}
	return nil
}

type RepeatableInt = RepeatableCommaSeparated[int]

func NewRepeatableInt(xs *[]int) *RepeatableInt {
	return &RepeatableCommaSeparated[int]{xs, strconv.Atoi}
}

type RepeatableString = RepeatableCommaSeparated[string]

func NewRepeatableString(xs *[]string) *RepeatableString {
	return &RepeatableString{
		xs,
		func(s string) (string, error) {
			return s, nil
		},
	}
}
