package stats

import (
	"cmp"
	"math"
	"slices"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
)

// Mean waiting time in hours per (year, month, job type), for the 3-D scatter chart.

type ScatterPoint struct {
	Year      int     `json:"year"`
	Month     Month   `json:"month"`
	JobType   string  `json:"job_type"`
	MeanHours float64 `json:"mean_hours"`
	Count     int     `json:"count"`
}

// jobTypeOf may normalize the job type; nil means use it as is.

func Scatter3D(rows []*db.JobRecord, jobTypeOf func(*db.JobRecord) string) []ScatterPoint {
	type key struct {
		year    int
		month   Month
		jobType string
	}
	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[key]*acc)
	for _, r := range rows {
		k := key{year: r.Year, month: r.Month, jobType: r.JobType}
		if jobTypeOf != nil {
			k.jobType = jobTypeOf(r)
		}
		a := sums[k]
		if a == nil {
			a = new(acc)
			sums[k] = a
		}
		a.sum += r.WaitSec / 3600
		a.n++
	}
	points := make([]ScatterPoint, 0, len(sums))
	for k, a := range sums {
		points = append(points, ScatterPoint{
			Year:      k.year,
			Month:     k.month,
			JobType:   k.jobType,
			MeanHours: a.sum / float64(a.n),
			Count:     a.n,
		})
	}
	slices.SortFunc(points, func(a, b ScatterPoint) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Month, b.Month); c != 0 {
			return c
		}
		return cmp.Compare(a.JobType, b.JobType)
	})
	return points
}

// The range of a waiting-time slider over rows, in the largest unit that the maximum reaches.  Both
// bounds are whole numbers of the unit; the minimum is floored at zero.

type Range struct {
	Low  int      `json:"low"`
	High int      `json:"high"`
	Unit WaitUnit `json:"-"`
	Name string   `json:"unit"`
}

func ScaleRange(rows []*db.JobRecord) Range {
	if len(rows) == 0 {
		return Range{Unit: UnitSeconds, Name: UnitSeconds.String()}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		lo = min(lo, r.WaitSec)
		hi = max(hi, r.WaitSec)
	}
	lo = max(lo, 0)
	unit := UnitSeconds
	switch {
	case hi >= 3600:
		unit = UnitHours
	case hi >= 60:
		unit = UnitMinutes
	}
	d := unit.Seconds()
	return Range{
		Low:  int(math.Floor(lo / d)),
		High: int(math.Floor(hi/d)) + 1,
		Unit: unit,
		Name: unit.String(),
	}
}
