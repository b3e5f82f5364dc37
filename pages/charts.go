package pages

import (
	"strconv"
	"strings"

	"github.com/Nathan-JzSu/qwt/buckets"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/stats"
)

const (
	homeBoxPoints = 3500
	mpiBoxPoints  = 4000
	ompBoxPoints  = 10000
	mpiCoreGroups = 10

	// Up to this many seconds the box-by-day chart is in minutes
	minutesLimit = 5400
)

func yearLabel(r *db.JobRecord) string {
	return strconv.Itoa(r.Year)
}

func monthOrder(s string) int {
	m, err := ParseMonth(s)
	if err != nil {
		return 13
	}
	return int(m)
}

func numericOrder(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func withDay(rows []*db.JobRecord) []*db.JobRecord {
	ys := make([]*db.JobRecord, 0, len(rows))
	for _, r := range rows {
		if r.HasDay() {
			ys = append(ys, r)
		}
	}
	return ys
}

// The selected years, or nil for "all years present".
func (sel *selection) years() []int {
	if sel.criteria == nil {
		return nil
	}
	return sel.criteria.Years
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// all

func homeBar(d *Dashboard, sel *selection) *Chart {
	s := stats.GroupedMedian(sel.rows, stats.SeriesOptions{
		Key:       stats.KeyClass,
		RoundRows: true,
		Order:     stats.OrderByKey,
	})
	return &Chart{Bar: &s}
}

func homeBoxByDay(d *Dashboard, sel *selection) *Chart {
	rows := withDay(sel.rows)
	scale, unit := 60.0, "min"
	for _, r := range rows {
		if r.WaitSec > minutesLimit {
			scale, unit = 3600, "hour"
			break
		}
	}
	box := stats.BoxGroups(stats.Sample(rows, homeBoxPoints, stats.DefaultSeed), stats.BoxOptions{
		X:      func(r *db.JobRecord) string { return strconv.Itoa(r.Day) },
		Color:  yearLabel,
		XOrder: numericOrder,
		Scale:  scale,
		Unit:   unit,
	})
	return &Chart{Box: &box}
}

func homeScatter(d *Dashboard, sel *selection) *Chart {
	return &Chart{Scatter: stats.Scatter3D(sel.rows, nil)}
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// gpu

func gpuBar(d *Dashboard, sel *selection) *Chart {
	s := stats.GroupedMedian(sel.rows, stats.SeriesOptions{
		NonNegative:  true,
		TopK:         5,
		AdaptiveUnit: true,
	})
	return &Chart{Bar: &s}
}

// "GPU = 1" for single-GPU jobs, "GPU > 1" for the rest.
func gpuSeries(r *db.JobRecord) string {
	switch {
	case strings.HasPrefix(r.JobType, "GPU = 1"):
		return "GPU = 1"
	case strings.HasPrefix(r.JobType, "GPU"):
		return "GPU > 1"
	default:
		return r.JobType
	}
}

func gpuDaily(d *Dashboard, sel *selection) *Chart {
	return &Chart{Lines: stats.DailyMedian(sel.rows, gpuSeries)}
}

func plainDaily(d *Dashboard, sel *selection) *Chart {
	return &Chart{Lines: stats.DailyMedian(sel.rows, nil)}
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// mpi

func mpiBar(d *Dashboard, sel *selection) *Chart {
	s := stats.GroupedMedian(sel.rows, stats.SeriesOptions{
		TrimPrefix:   "MPI job ",
		NonNegative:  true,
		TopK:         6,
		AdaptiveUnit: true,
	})
	return &Chart{Bar: &s}
}

func mpiBoxByCores(d *Dashboard, sel *selection) *Chart {
	rows := sel.rows
	box := stats.BoxChart{Unit: "hour", Groups: []stats.BoxGroup{}}
	if len(rows) > 0 {
		lo, hi := rows[0].Slots, rows[0].Slots
		for _, r := range rows {
			lo = min(lo, r.Slots)
			hi = max(hi, r.Slots)
		}
		groups := buckets.NewEqualWidth(lo, hi, mpiCoreGroups)
		sampled := stats.SampleKeepingOutliers(rows, nil, mpiBoxPoints, stats.DefaultSeed)
		box = stats.BoxGroups(sampled, stats.BoxOptions{
			X:      func(r *db.JobRecord) string { return groups.Assign(r.Slots) },
			Color:  yearLabel,
			XOrder: buckets.RangeStart,
			Scale:  3600,
			Unit:   "hour",
		})
	}
	return &Chart{Box: &box}
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// omp

func ompBar(d *Dashboard, sel *selection) *Chart {
	s := stats.GroupedMedian(sel.rows, stats.SeriesOptions{
		Key:         stats.KeyCPUBucket,
		Buckets:     d.engine.Table(),
		NonNegative: true,
		RoundRows:   true,
		Order:       stats.OrderByBuckets,
	})
	return &Chart{Bar: &s}
}

func ompBoxByMonth(d *Dashboard, sel *selection) *Chart {
	tbl := d.engine.Table()
	bucketOrder := func(label string) int {
		if o := tbl.Order(label); o >= 0 {
			return o
		}
		return len(tbl.Labels())
	}
	sampled := stats.SamplePerYear(sel.rows, sel.years(), ompBoxPoints, stats.DefaultSeed)
	box := stats.BoxGroups(sampled, stats.BoxOptions{
		X:          func(r *db.JobRecord) string { return r.Month.String() },
		Color:      yearLabel,
		Facet:      func(r *db.JobRecord) string { return tbl.Assign(r.Slots) },
		XOrder:     monthOrder,
		FacetOrder: bucketOrder,
		Scale:      3600,
		Unit:       "hour",
	})
	return &Chart{Box: &box}
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// onep

func onepBar(d *Dashboard, sel *selection) *Chart {
	s := stats.GroupedMedian(sel.rows, stats.SeriesOptions{
		TrimPrefix:   "1-p ",
		TopK:         6,
		AdaptiveUnit: true,
	})
	return &Chart{Bar: &s}
}
