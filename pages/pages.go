// The dashboard pages.  A page fixes the rows it looks at, how its year and month inputs are read,
// the query policy for the rest of the input, and the charts it can draw.  Everything else is the
// shared filter engine and aggregator.
//
// There are five pages:
//
//   all   every job, job types shown by class; free-text year and month
//   gpu   GPU jobs; free-text year and month; queue by owner class
//   mpi   MPI jobs; free-text year and month; queue by user class
//   omp   OpenMP jobs; year and month sets and CPU buckets
//   onep  single-process jobs; free-text year and month; queue by user class

package pages

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Nathan-JzSu/qwt/buckets"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/query"
	"github.com/Nathan-JzSu/qwt/stats"
)

var (
	ErrUnknownPage  = errors.New("Unknown page")
	ErrUnknownChart = errors.New("Unknown chart")
)

type YearMonthInput int

const (
	// One year and one month, as text
	YearMonthText YearMonthInput = iota

	// Multi-select sets of years and months
	YearMonthSets
)

type chartDef struct {
	name  string
	title string
	build func(d *Dashboard, sel *selection) *Chart
}

// MT: Immutable after construction.
type Page struct {
	Name  string
	Title string

	// Rows whose job type contains the token belong to the page, unless all
	token     string
	all       bool
	policy    query.Policy
	yearMonth YearMonthInput

	// An unparseable year means the current year rather than no data
	lenientYear bool

	// Warn about and empty out months after the last month in the data
	checkFuture bool

	// The inputs the page honors; others are ignored
	jobTypes   bool
	cpuBuckets bool
	queue      bool

	charts []chartDef
}

func (p *Page) Charts() []string {
	names := make([]string, len(p.charts))
	for i, c := range p.charts {
		names[i] = c.name
	}
	return names
}

func (p *Page) chart(name string) (chartDef, bool) {
	for _, c := range p.charts {
		if c.name == name {
			return c, true
		}
	}
	return chartDef{}, false
}

var pageDefs = []*Page{
	{
		Name:  "all",
		Title: "All Jobs",
		all:   true,
		policy: query.Policy{
			JobTypeMode:            query.MatchExact,
			EmptyJobTypesMatchNone: true,
			QueueRule:              query.QueueRuleBoth,
		},
		lenientYear: true,
		checkFuture: true,
		jobTypes:    true,
		queue:       true,
		charts: []chartDef{
			{"bar", "Waiting Time vs Job Type", homeBar},
			{"box", "Box Plot of Job Waiting Time by Date", homeBoxByDay},
			{"scatter3d", "Mean Waiting Time by Year, Month and Job Type", homeScatter},
		},
	},
	{
		Name:   "gpu",
		Title:  "GPU Job",
		token:  "GPU",
		policy: query.Policy{JobTypeMode: query.MatchContains, QueueRule: query.QueueRuleOwner},
		queue:  true,
		charts: []chartDef{
			{"bar", "Waiting Time vs Queue Type", gpuBar},
			{"daily", "Daily Median Waiting Time", gpuDaily},
		},
	},
	{
		Name:   "mpi",
		Title:  "MPI Job",
		token:  "MPI",
		policy: query.Policy{JobTypeMode: query.MatchContains, QueueRule: query.QueueRuleUser},
		queue:  true,
		charts: []chartDef{
			{"bar", "Waiting Time vs Queue Type", mpiBar},
			{"daily", "Daily Median Waiting Time", plainDaily},
			{"box", "Job Waiting Time by CPU Cores", mpiBoxByCores},
		},
	},
	{
		Name:       "omp",
		Title:      "OMP Job",
		token:      "omp",
		policy:     query.Policy{JobTypeMode: query.MatchContains},
		yearMonth:  YearMonthSets,
		cpuBuckets: true,
		charts: []chartDef{
			{"bar", "Median Waiting Time by CPU Group", ompBar},
			{"box", "Job Waiting Time by Month and CPU Group", ompBoxByMonth},
		},
	},
	{
		Name:   "onep",
		Title:  "1-p Job",
		token:  "1-p",
		policy: query.Policy{JobTypeMode: query.MatchContains, QueueRule: query.QueueRuleUser},
		queue:  true,
		charts: []chartDef{
			{"bar", "Waiting Time vs Queue Type", onepBar},
			{"daily", "Daily Median Waiting Time", plainDaily},
		},
	},
}

func PageNames() []string {
	names := make([]string, len(pageDefs))
	for i, p := range pageDefs {
		names[i] = p.Name
	}
	return names
}

// The charts a page can draw, in display order.

func ChartNames(page string) ([]string, error) {
	for _, p := range pageDefs {
		if p.Name == page {
			return p.Charts(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPage, page)
}

// MT: Immutable after construction, except for the clock, which must be set before use.
type Dashboard struct {
	store      *db.Store
	engine     *query.Engine
	now        func() time.Time
	home       []*db.JobRecord // copies with job types replaced by class labels
	homeTypes  []string
	yearMonths map[[2]int]bool
	pages      map[string]*Page
}

// A dashboard over the store with the standard bucket table.

func Open(store *db.Store) *Dashboard {
	return New(store, query.NewEngine(buckets.NewTable(store.ObservedSlots())))
}

func New(store *db.Store, engine *query.Engine) *Dashboard {
	d := &Dashboard{
		store:      store,
		engine:     engine,
		now:        time.Now,
		home:       make([]*db.JobRecord, store.Len()),
		yearMonths: make(map[[2]int]bool),
		pages:      make(map[string]*Page),
	}
	types := make(map[string]bool)
	for i, r := range store.Records() {
		c := *r
		c.JobType = query.ClassLabel(r.JobType)
		d.home[i] = &c
		types[c.JobType] = true
		d.yearMonths[[2]int{r.Year, int(r.Month)}] = true
	}
	for t := range types {
		d.homeTypes = append(d.homeTypes, t)
	}
	slices.Sort(d.homeTypes)
	for _, p := range pageDefs {
		d.pages[p.Name] = p
	}
	return d
}

// For testing: fix the time used for defaulting year and month.
func (d *Dashboard) WithClock(now func() time.Time) *Dashboard {
	d.now = now
	return d
}

func (d *Dashboard) Len() int {
	return d.store.Len()
}

func (d *Dashboard) Table() *buckets.Table {
	return d.engine.Table()
}

func (d *Dashboard) Pages() []*Page {
	return pageDefs
}

func (d *Dashboard) Page(name string) (*Page, error) {
	if p, found := d.pages[name]; found {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPage, name)
}

func (d *Dashboard) base(p *Page) []*db.JobRecord {
	if p.all {
		return d.home
	}
	return d.store.Records()
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Results.

type Result struct {
	Page    string            `json:"page"`
	Year    int               `json:"year,omitempty"`
	Month   Month             `json:"month,omitempty"`
	Summary stats.Summary     `json:"summary"`
	Text    stats.SummaryText `json:"text"`
	Warning string            `json:"warning,omitempty"`

	// The waiting-time slider of the "all" page
	Range *stats.Range `json:"range,omitempty"`
}

// A chart payload.  Exactly one of Bar, Lines, Box and Scatter is set.

type Chart struct {
	Page    string               `json:"page"`
	Name    string               `json:"name"`
	Title   string               `json:"title"`
	Year    int                  `json:"year,omitempty"`
	Month   Month                `json:"month,omitempty"`
	Warning string               `json:"warning,omitempty"`
	Bar     *stats.Series        `json:"bar,omitempty"`
	Lines   []stats.LinePoint    `json:"lines,omitempty"`
	Box     *stats.BoxChart      `json:"box,omitempty"`
	Scatter []stats.ScatterPoint `json:"scatter,omitempty"`
}

func (d *Dashboard) Summary(page string, in *query.Input) (*Result, error) {
	p, err := d.Page(page)
	if err != nil {
		return nil, err
	}
	sel := d.selectRows(p, in)
	s := stats.Summarize(sel.rows)
	r := &Result{
		Page:    p.Name,
		Year:    sel.year,
		Month:   sel.month,
		Summary: s,
		Text:    s.Text(),
		Warning: sel.warning,
	}
	if p.all {
		rng := stats.ScaleRange(sel.yearMonthRows)
		r.Range = &rng
	}
	return r, nil
}

func (d *Dashboard) Chart(page, chart string, in *query.Input) (*Chart, error) {
	p, err := d.Page(page)
	if err != nil {
		return nil, err
	}
	def, found := p.chart(chart)
	if !found {
		return nil, fmt.Errorf("%w: %s has no chart %s", ErrUnknownChart, page, chart)
	}
	sel := d.selectRows(p, in)
	c := def.build(d, sel)
	c.Page = p.Name
	c.Name = def.name
	c.Title = def.title
	c.Year = sel.year
	c.Month = sel.month
	c.Warning = sel.warning
	return c, nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Controls: what a front end needs to populate its inputs.

type PageInfo struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Charts []string `json:"charts"`
}

type Controls struct {
	Pages      []PageInfo `json:"pages"`
	Years      []int      `json:"years"`
	Months     []string   `json:"months"`
	JobTypes   []string   `json:"job_types"`
	CPUBuckets []string   `json:"cpu_buckets"`

	// The buckets "select all" picks: those with observed slot counts
	AvailableBuckets []string `json:"available_buckets"`
	Queues           []string `json:"queues"`
}

func (d *Dashboard) Controls() *Controls {
	c := &Controls{
		Years:            d.store.Years(),
		JobTypes:         d.homeTypes,
		CPUBuckets:       d.engine.Table().Labels(),
		AvailableBuckets: d.engine.Table().Available(d.store.ObservedSlots()),
		Queues:           []string{"all", "shared", "buyin"},
	}
	for _, m := range AllMonths() {
		c.Months = append(c.Months, m.String())
	}
	for _, p := range pageDefs {
		c.Pages = append(c.Pages, PageInfo{Name: p.Name, Title: p.Title, Charts: p.Charts()})
	}
	return c
}
