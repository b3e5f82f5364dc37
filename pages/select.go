package pages

import (
	"strconv"
	"strings"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/query"
)

const (
	WarnHomeInvalidMonth = "Invalid month format. Please use 3-letter month (e.g., Jan, Feb)."
	WarnFutureMonth      = "No data available for this month."
	WarnInvalidYearMonth = "Invalid year or month input."
	WarnInvalidMonth     = "Invalid month format. Use 3-letter month (e.g., Jan, Feb)."
	WarnNoYearMonth      = "No data available for this year and month."
)

type selection struct {
	page     *Page
	year     int
	month    Month
	rows     []*db.JobRecord
	criteria *query.Criteria // nil if nothing could be selected
	warning  string

	// For the "all" page: the rows of the year and month, before other filters
	yearMonthRows []*db.JobRecord
}

func firstText(xs []string) string {
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			return x
		}
	}
	return ""
}

// Resolve a free-text year and month.  Empty text means the current year or month.  If ok is
// false nothing is selected and the warning says why.

func (d *Dashboard) textYearMonth(p *Page, in *query.Input) (year int, month Month, warning string, ok bool) {
	now := d.now()
	yearText := firstText(in.Years)
	if yearText == "" {
		yearText = strconv.Itoa(now.Year())
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		if !p.lenientYear {
			return 0, 0, WarnInvalidYearMonth, false
		}
		year = now.Year()
	}

	monthText := firstText(in.Months)
	if monthText == "" {
		monthText = Month(now.Month()).String()
	}
	month, err = ParseMonth(monthText)
	if err != nil {
		if p.lenientYear {
			return year, 0, WarnHomeInvalidMonth, false
		}
		return year, 0, WarnInvalidMonth, false
	}

	if p.checkFuture {
		lastYear, lastMonth := d.store.Latest()
		if year > lastYear || (year == lastYear && month > lastMonth) {
			return year, month, WarnFutureMonth, false
		}
	} else if !d.yearMonths[[2]int{year, int(month)}] {
		warning = WarnNoYearMonth
	}
	return year, month, warning, true
}

// Apply the page to the input.  The input is not modified.

func (d *Dashboard) selectRows(p *Page, in *query.Input) *selection {
	eff := *in
	switch {
	case p.token != "":
		// The page's own class; the job-type input is not honored
		eff.JobTypes = []string{p.token}
	case !p.jobTypes:
		eff.JobTypes = nil
	case eff.JobTypes == nil:
		// Absent is the initial state of the control, which has everything checked.  An explicit
		// empty selection is not nil.
		eff.JobTypes = d.homeTypes
	}
	if !p.cpuBuckets {
		eff.CPUBuckets = nil
	}
	if !p.queue {
		eff.Queue = ""
	}

	sel := &selection{page: p}
	if p.yearMonth == YearMonthText {
		year, month, warning, ok := d.textYearMonth(p, in)
		sel.year, sel.month, sel.warning = year, month, warning
		if !ok {
			sel.rows = []*db.JobRecord{}
			sel.yearMonthRows = sel.rows
			return sel
		}
		eff.Years = []string{strconv.Itoa(year)}
		eff.Months = []string{month.String()}
		if p.all {
			sel.yearMonthRows = d.engine.Filter(d.home, &query.Criteria{
				Years:  []int{year},
				Months: []Month{month},
			})
		}
	}

	rows, c, err := d.engine.Select(d.base(p), p.policy, &eff)
	if err != nil && sel.warning == "" {
		sel.warning = err.Error()
	}
	sel.rows = rows
	sel.criteria = c
	return sel
}
