// `qwt summary` - the summary statistics of one page for one selection.

package summary

import (
	"context"
	"errors"
	"fmt"
	"io"

	. "github.com/Nathan-JzSu/qwt/cmd"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/pages"
	. "github.com/Nathan-JzSu/qwt/table"
)

type SummaryCommand struct {
	DevArgs
	VerboseArgs
	ConfigFileArgs
	SourceArgs
	InputArgs
	FormatArgs
}

var _ DatasetCommand = (*SummaryCommand)(nil)
var _ FormatHelpAPI = (*SummaryCommand)(nil)

func (sc *SummaryCommand) Add(fs *CLI) {
	sc.DevArgs.Add(fs)
	sc.VerboseArgs.Add(fs)
	sc.ConfigFileArgs.Add(fs)
	sc.SourceArgs.Add(fs)
	sc.InputArgs.Add(fs)
	sc.FormatArgs.Add(fs)
}

func (sc *SummaryCommand) Validate() error {
	// The config file must be loaded before the source defaults are applied.
	e1 := sc.ConfigFileArgs.Validate()
	return errors.Join(
		e1,
		sc.DevArgs.Validate(),
		sc.VerboseArgs.Validate(),
		sc.SourceArgs.Validate(),
		sc.InputArgs.Validate(),
		ValidateFormatArgs(
			&sc.FormatArgs, summaryDefaultFields, summaryFormatters, summaryAliases, DefaultFixed),
	)
}

func (sc *SummaryCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Print the waiting-time summary of a page: minimum, maximum, mean and median of
the first-job waiting times selected by the query inputs, and their count.

The all, gpu, mpi and onep pages take one year and one month (default: the current
ones); the omp page takes sets of years, months and CPU buckets (default: everything).
Malformed inputs are not errors: they select nothing and the warning field says why.
`)
}

func (sc *SummaryCommand) MaybeFormatHelp() *FormatHelp {
	return StandardFormatHelp(
		sc.Fmt, "Print page summaries.", summaryFormatters, summaryAliases, summaryDefaultFields)
}

func (sc *SummaryCommand) Perform(_ context.Context, store *db.Store, stdout, _ io.Writer) error {
	r, err := pages.Open(store).Summary(sc.Page, sc.Input())
	if err != nil {
		return err
	}
	FormatData(stdout, sc.PrintFields, summaryFormatters, sc.PrintOpts, []*pages.Result{r})
	return nil
}
