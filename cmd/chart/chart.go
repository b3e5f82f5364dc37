// `qwt chart` - the data series behind one chart of one page.

package chart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	. "github.com/Nathan-JzSu/qwt/cmd"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/pages"
	. "github.com/Nathan-JzSu/qwt/table"
)

type ChartCommand struct {
	DevArgs
	VerboseArgs
	ConfigFileArgs
	SourceArgs
	InputArgs
	FormatArgs
	Chart string
}

var _ DatasetCommand = (*ChartCommand)(nil)
var _ FormatHelpAPI = (*ChartCommand)(nil)

func (cc *ChartCommand) Add(fs *CLI) {
	cc.DevArgs.Add(fs)
	cc.VerboseArgs.Add(fs)
	cc.ConfigFileArgs.Add(fs)
	cc.SourceArgs.Add(fs)
	cc.InputArgs.Add(fs)
	cc.FormatArgs.Add(fs)
	fs.Group("operation-selection")
	fs.StringVar(&cc.Chart, "chart", "bar",
		"Print the series of this `chart`: bar, daily, box or scatter3d, depending on the page")
}

// The default field alias for each chart name.
func kindOf(chart string) string {
	if chart == "scatter3d" {
		return "scatter"
	}
	return chart
}

func (cc *ChartCommand) Validate() error {
	e1 := cc.ConfigFileArgs.Validate()
	var e2 error
	if charts, err := pages.ChartNames(cc.Page); err == nil && !slices.Contains(charts, cc.Chart) {
		e2 = fmt.Errorf("%w: page %s has charts %s", pages.ErrUnknownChart, cc.Page,
			strings.Join(charts, ", "))
	}
	return errors.Join(
		e1,
		e2,
		cc.DevArgs.Validate(),
		cc.VerboseArgs.Validate(),
		cc.SourceArgs.Validate(),
		cc.InputArgs.Validate(),
		ValidateFormatArgs(&cc.FormatArgs, kindOf(cc.Chart), chartFormatters, chartAliases, DefaultFixed),
	)
}

func (cc *ChartCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Print the data series of a page chart, one row per bar, line point, box or
scatter point.  The query inputs are those of the summary command.

  all   bar (median by job class), box (by day of month), scatter3d (mean by year, month, type)
  gpu   bar (median by queue type), daily
  mpi   bar, daily, box (by CPU core group)
  omp   bar (median by CPU bucket), box (by month and CPU bucket)
  onep  bar, daily
`)
}

func (cc *ChartCommand) MaybeFormatHelp() *FormatHelp {
	return StandardFormatHelp(
		cc.Fmt, "Print chart series.", chartFormatters, chartAliases, kindOf(cc.Chart))
}

func (cc *ChartCommand) Perform(_ context.Context, store *db.Store, stdout, stderr io.Writer) error {
	c, err := pages.Open(store).Chart(cc.Page, cc.Chart, cc.Input())
	if err != nil {
		return err
	}
	if c.Warning != "" {
		fmt.Fprintln(stderr, c.Warning)
	}
	FormatData(stdout, cc.PrintFields, chartFormatters, cc.PrintOpts, Rows(c))
	return nil
}

// Flatten a chart payload into table rows.

func Rows(c *pages.Chart) []*ChartRow {
	rows := make([]*ChartRow, 0)
	switch {
	case c.Bar != nil:
		for _, p := range c.Bar.Points {
			rows = append(rows, &ChartRow{
				Kind:    "bar",
				Group:   p.Group,
				Minutes: p.Minutes,
				Value:   p.Value,
				Text:    p.Text,
				Count:   p.Count,
				Unit:    c.Bar.Unit,
			})
		}
	case c.Box != nil:
		for _, g := range c.Box.Groups {
			rows = append(rows, &ChartRow{
				Kind:      "box",
				Group:     g.X,
				Series:    g.Color,
				Facet:     g.Facet,
				Value:     g.Stats.Median,
				Count:     g.Stats.N,
				Unit:      c.Box.Unit,
				Q1:        g.Stats.Q1,
				Q3:        g.Stats.Q3,
				WhiskerLo: g.Stats.WhiskerLo,
				WhiskerHi: g.Stats.WhiskerHi,
				Outliers:  len(g.Stats.Outliers),
			})
		}
	case c.Scatter != nil:
		for _, p := range c.Scatter {
			rows = append(rows, &ChartRow{
				Kind:  "scatter",
				Group: p.JobType,
				Year:  p.Year,
				Month: p.Month.String(),
				Value: p.MeanHours,
				Count: p.Count,
				Unit:  "hour",
			})
		}
	default:
		for _, p := range c.Lines {
			rows = append(rows, &ChartRow{
				Kind:    "daily",
				Series:  p.Series,
				Day:     p.Day,
				Minutes: p.Minutes,
				Value:   p.Minutes,
				Count:   p.Count,
				Unit:    "min",
			})
		}
	}
	return rows
}
