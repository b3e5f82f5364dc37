// `qwt info <year> <month>` - the per-class queue-info table of one month.

package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	. "github.com/Nathan-JzSu/qwt/cmd"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/query"
	"github.com/Nathan-JzSu/qwt/stats"
	. "github.com/Nathan-JzSu/qwt/table"
)

type InfoCommand struct {
	DevArgs
	VerboseArgs
	ConfigFileArgs
	SourceArgs
	FormatArgs

	rest  []string
	year  int
	month Month
}

var _ DatasetCommand = (*InfoCommand)(nil)
var _ FormatHelpAPI = (*InfoCommand)(nil)
var _ SetRestArgumentsAPI = (*InfoCommand)(nil)

func (ic *InfoCommand) Add(fs *CLI) {
	ic.DevArgs.Add(fs)
	ic.VerboseArgs.Add(fs)
	ic.ConfigFileArgs.Add(fs)
	ic.SourceArgs.Add(fs)
	ic.FormatArgs.Add(fs)
}

func (ic *InfoCommand) SetRestArguments(args []string) {
	ic.rest = args
}

func (ic *InfoCommand) Validate() error {
	e1 := ic.ConfigFileArgs.Validate()
	var e2 error
	if len(ic.rest) != 2 {
		e2 = errors.New("Usage: info <year> <month>")
	} else {
		var err error
		if ic.year, err = strconv.Atoi(ic.rest[0]); err != nil {
			e2 = fmt.Errorf("Bad year %q", ic.rest[0])
		} else if n, err := strconv.Atoi(ic.rest[1]); err == nil {
			// The month is a number, 1..12, or a name
			ic.month = Month(n)
			if !ic.month.Valid() {
				e2 = fmt.Errorf("Bad month %q", ic.rest[1])
			}
		} else if ic.month, err = ParseMonth(ic.rest[1]); err != nil {
			e2 = err
		}
	}
	return errors.Join(
		e1,
		e2,
		ic.DevArgs.Validate(),
		ic.VerboseArgs.Validate(),
		ic.SourceArgs.Validate(),
		ValidateFormatArgs(&ic.FormatArgs, infoDefaultFields, infoFormatters, infoAliases, DefaultFixed),
	)
}

func (ic *InfoCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Print the queue waiting time basic info of one month: for each job class the
minimum, maximum, mean and median first-job waiting time and the number of first jobs.

The month can be a number 1..12 or a name, Jan..Dec.
`)
}

func (ic *InfoCommand) MaybeFormatHelp() *FormatHelp {
	return StandardFormatHelp(ic.Fmt, "Print queue info.", infoFormatters, infoAliases, infoDefaultFields)
}

type InfoRow struct {
	Class   db.JobClass
	Summary stats.Summary // minutes
}

func Rows(store *db.Store, year int, month Month) []*InfoRow {
	c := &query.Criteria{Years: []int{year}, Months: []Month{month}}
	rows := make([]*InfoRow, 0)
	for _, class := range db.AllClasses() {
		rows = append(rows, &InfoRow{
			Class:   class,
			Summary: stats.Summarize(query.Filter(store.Class(class), c, nil)),
		})
	}
	return rows
}

func (ic *InfoCommand) Perform(_ context.Context, store *db.Store, stdout, _ io.Writer) error {
	opts := ic.PrintOpts
	if opts.Fixed && opts.Header {
		fmt.Fprintf(stdout, "\nQueue Waiting Time Basic Info of %d %s\n\n", ic.year, ic.month)
	}
	FormatData(stdout, ic.PrintFields, infoFormatters, opts, Rows(store, ic.year, ic.month))
	return nil
}
