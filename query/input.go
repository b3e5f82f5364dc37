package query

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Nathan-JzSu/qwt/buckets"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
)

// Input is the textual form of a query, as it arrives from a UI control, the command line or an
// HTTP query string.  Years and months may be multi-select sets or a single free-text field; both
// arrive here as lists of strings.

type Input struct {
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

// Policy is the part of a query that is fixed by the page the query comes from, not by the user.

type Policy struct {
	JobTypeMode            MatchMode
	EmptyJobTypesMatchNone bool
	QueueRule              QueueRule
}

func splitValues(xs []string) []string {
	var ys []string
	for _, x := range xs {
		for _, y := range strings.Split(x, ",") {
			if y = strings.TrimSpace(y); y != "" {
				ys = append(ys, y)
			}
		}
	}
	return ys
}

// Parse the input under the policy.  Every parse failure wraps ErrMalformed.  Sets are sorted and
// de-duplicated so that equal selections produce equal criteria.

func (p Policy) Compile(in *Input) (*Criteria, error) {
	c := &Criteria{
		JobTypes: JobTypeMatch{
			Mode:             p.JobTypeMode,
			EmptyMatchesNone: p.EmptyJobTypesMatchNone,
		},
		Queue: QueueFilter{Rule: p.QueueRule},
	}
	for _, s := range splitValues(in.Years) {
		y, err := strconv.Atoi(s)
		if err != nil || y < 1000 || y > 9999 {
			return nil, fmt.Errorf("%w: bad year %q", ErrMalformed, s)
		}
		c.Years = append(c.Years, y)
	}
	slices.Sort(c.Years)
	c.Years = slices.Compact(c.Years)

	for _, s := range splitValues(in.Months) {
		m, err := ParseMonth(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		c.Months = append(c.Months, m)
	}
	slices.Sort(c.Months)
	c.Months = slices.Compact(c.Months)

	for _, s := range splitValues(in.Days) {
		d, err := strconv.Atoi(s)
		if err != nil || d < 1 || d > 31 {
			return nil, fmt.Errorf("%w: bad day %q", ErrMalformed, s)
		}
		c.Days = append(c.Days, d)
	}
	slices.Sort(c.Days)
	c.Days = slices.Compact(c.Days)

	// Job types can contain commas in principle, so they are not split.
	for _, s := range in.JobTypes {
		if s != "" {
			c.JobTypes.Values = append(c.JobTypes.Values, s)
		}
	}
	slices.Sort(c.JobTypes.Values)
	c.JobTypes.Values = slices.Compact(c.JobTypes.Values)

	c.CPUBuckets = splitValues(in.CPUBuckets)
	slices.Sort(c.CPUBuckets)
	c.CPUBuckets = slices.Compact(c.CPUBuckets)

	q, err := ParseQueueMode(in.Queue)
	if err != nil {
		return nil, err
	}
	c.Queue.Mode = q

	if in.WaitMin != "" || in.WaitMax != "" {
		unit, err := ParseWaitUnit(in.WaitUnit)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		w := &WaitRange{Low: math.Inf(-1), High: math.Inf(1), Unit: unit}
		if in.WaitMin != "" {
			if w.Low, err = strconv.ParseFloat(in.WaitMin, 64); err != nil || math.IsNaN(w.Low) {
				return nil, fmt.Errorf("%w: bad minimum wait %q", ErrMalformed, in.WaitMin)
			}
		}
		if in.WaitMax != "" {
			if w.High, err = strconv.ParseFloat(in.WaitMax, 64); err != nil || math.IsNaN(w.High) {
				return nil, fmt.Errorf("%w: bad maximum wait %q", ErrMalformed, in.WaitMax)
			}
		}
		if w.Low > w.High {
			return nil, fmt.Errorf("%w: minimum wait above maximum", ErrMalformed)
		}
		c.Wait = w
	}
	return c, nil
}

// Engine couples the filter with the bucket table it expands CPU selections through.

type Engine struct {
	table *buckets.Table
}

func NewEngine(table *buckets.Table) *Engine {
	return &Engine{table: table}
}

func (e *Engine) Table() *buckets.Table {
	return e.table
}

func (e *Engine) Filter(rows []*db.JobRecord, c *Criteria) []*db.JobRecord {
	return Filter(rows, c, e.table)
}

// Query never fails: malformed input selects nothing.  The parse error is returned alongside the
// empty subset so that callers can show it, but it is not an error for the caller to act on.

func (e *Engine) Query(rows []*db.JobRecord, p Policy, in *Input) ([]*db.JobRecord, error) {
	subset, _, err := e.Select(rows, p, in)
	return subset, err
}

// Like Query, but also returns the compiled criteria, which are nil if the input was malformed.

func (e *Engine) Select(rows []*db.JobRecord, p Policy, in *Input) ([]*db.JobRecord, *Criteria, error) {
	c, err := p.Compile(in)
	if err != nil {
		Log.Infof("Query selects nothing: %v", err)
		return []*db.JobRecord{}, nil, err
	}
	return e.Filter(rows, c), c, nil
}
