package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Nathan-JzSu/qwt/buckets"
	"github.com/Nathan-JzSu/qwt/db"
)

const OthersGroup = "others"

type GroupKey int

const (
	KeyJobType GroupKey = iota
	KeyClass
	KeyCPUBucket
	KeyDay
	KeyMonth
	KeyYear
)

type Order int

const (
	// Ascending by median, ties by group name
	OrderByValue Order = iota

	// By group name, or numerically for day/month/year
	OrderByKey

	// Bucket table order
	OrderByBuckets
)

type SeriesOptions struct {
	Key     GroupKey
	Buckets *buckets.Table // KeyCPUBucket and OrderByBuckets

	// Removed from the group label before grouping
	TrimPrefix string

	// Drop negative waits first
	NonNegative bool

	// Round each row to 2 decimals of minutes before taking medians
	RoundRows bool

	// If positive, keep the TopK groups with the highest median and fold the rest into "others"
	TopK int

	Order Order

	// Show hours if the largest median exceeds 100 minutes
	AdaptiveUnit bool
}

type Point struct {
	Group   string  `json:"group"`
	Minutes float64 `json:"median_minutes"`
	Value   float64 `json:"value"`
	Text    string  `json:"text"`
	Count   int     `json:"count"`
}

type Series struct {
	Unit   string  `json:"unit"`
	Points []Point `json:"points"`
}

type group struct {
	label   string
	sortKey int
	values  []float64
	median  float64
}

func groupLabel(r *db.JobRecord, opts *SeriesOptions) (string, int) {
	switch opts.Key {
	case KeyClass:
		if c, ok := db.ClassOf(r.JobType); ok {
			return c.Label(), int(c)
		}
		return r.JobType, int(db.ClassOneP) + 1
	case KeyCPUBucket:
		l := buckets.Other
		if opts.Buckets != nil {
			l = opts.Buckets.Assign(r.Slots)
		}
		return l, 0
	case KeyDay:
		return strconv.Itoa(r.Day), r.Day
	case KeyMonth:
		return r.Month.String(), int(r.Month)
	case KeyYear:
		return strconv.Itoa(r.Year), r.Year
	default:
		return strings.TrimPrefix(r.JobType, opts.TrimPrefix), 0
	}
}

func GroupedMedian(rows []*db.JobRecord, opts SeriesOptions) Series {
	groups := make(map[string]*group)
	for _, r := range rows {
		if opts.NonNegative && r.WaitSec < 0 {
			continue
		}
		if opts.Key == KeyDay && !r.HasDay() {
			continue
		}
		l, k := groupLabel(r, &opts)
		g := groups[l]
		if g == nil {
			g = &group{label: l, sortKey: k}
			groups[l] = g
		}
		v := r.WaitMinutes()
		if opts.RoundRows {
			v = Round(v, 2)
		}
		g.values = append(g.values, v)
	}

	gs := make([]*group, 0, len(groups))
	for _, g := range groups {
		g.median = Median(g.values)
		gs = append(gs, g)
	}

	if opts.TopK > 0 && len(gs) > opts.TopK {
		// Highest medians first, ties to the group that sorts first by name
		slices.SortFunc(gs, func(a, b *group) int {
			if c := cmp.Compare(b.median, a.median); c != 0 {
				return c
			}
			return cmp.Compare(a.label, b.label)
		})
		others := &group{label: OthersGroup}
		for _, g := range gs[opts.TopK:] {
			others.values = append(others.values, g.values...)
		}
		others.median = Median(others.values)
		gs = append(gs[:opts.TopK], others)
	}

	switch opts.Order {
	case OrderByKey:
		slices.SortFunc(gs, func(a, b *group) int {
			if c := cmp.Compare(a.sortKey, b.sortKey); c != 0 {
				return c
			}
			return cmp.Compare(a.label, b.label)
		})
	case OrderByBuckets:
		slices.SortFunc(gs, func(a, b *group) int {
			return cmp.Compare(bucketOrder(opts.Buckets, a.label), bucketOrder(opts.Buckets, b.label))
		})
	default:
		slices.SortFunc(gs, func(a, b *group) int {
			if c := cmp.Compare(a.median, b.median); c != 0 {
				return c
			}
			return cmp.Compare(a.label, b.label)
		})
	}

	s := Series{Unit: "min", Points: make([]Point, len(gs))}
	hours := false
	if opts.AdaptiveUnit {
		for _, g := range gs {
			if g.median > 100 {
				hours = true
				s.Unit = "hr"
				break
			}
		}
	}
	for i, g := range gs {
		p := Point{Group: g.label, Minutes: g.median, Count: len(g.values)}
		switch {
		case hours:
			p.Value = Round(g.median/60, 1)
			p.Text = strconv.FormatFloat(p.Value, 'f', 1, 64) + " " + s.Unit
		case opts.AdaptiveUnit:
			p.Value = Round(g.median, 1)
			p.Text = strconv.FormatFloat(p.Value, 'f', 1, 64) + " " + s.Unit
		default:
			p.Value = g.median
			if g.median == 0 {
				p.Text = "0"
			} else {
				p.Text = fmt.Sprintf("%.1f", g.median)
			}
		}
		s.Points[i] = p
	}
	return s
}

func bucketOrder(tbl *buckets.Table, label string) int {
	if tbl == nil {
		return 0
	}
	if o := tbl.Order(label); o >= 0 {
		return o
	}
	return len(tbl.Labels())
}

// A line chart: the median waiting time per (day, series), ordered by day and then series.  Rows
// without a day are skipped.

type LinePoint struct {
	Day     int     `json:"day"`
	Series  string  `json:"series"`
	Minutes float64 `json:"median_minutes"`
	Count   int     `json:"count"`
}

// If seriesOf is nil there is a single series named "".

func DailyMedian(rows []*db.JobRecord, seriesOf func(*db.JobRecord) string) []LinePoint {
	type key struct {
		day    int
		series string
	}
	values := make(map[key][]float64)
	for _, r := range rows {
		if !r.HasDay() {
			continue
		}
		k := key{day: r.Day}
		if seriesOf != nil {
			k.series = seriesOf(r)
		}
		values[k] = append(values[k], r.WaitMinutes())
	}
	points := make([]LinePoint, 0, len(values))
	for k, vs := range values {
		points = append(points, LinePoint{Day: k.day, Series: k.series, Minutes: Median(vs), Count: len(vs)})
	}
	slices.SortFunc(points, func(a, b LinePoint) int {
		if c := cmp.Compare(a.Day, b.Day); c != 0 {
			return c
		}
		return cmp.Compare(a.Series, b.Series)
	})
	return points
}
