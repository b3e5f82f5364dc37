package stats

import (
	"cmp"
	"math"
	"slices"

	"github.com/Nathan-JzSu/qwt/db"
)

// Tukey box statistics.  Whiskers end at the most extreme values inside the 1.5*IQR fences; values
// outside the fences are outliers.

type BoxStats struct {
	N          int       `json:"n"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	WhiskerLo  float64   `json:"whisker_lo"`
	WhiskerHi  float64   `json:"whisker_hi"`
	Outliers   []float64 `json:"outliers"`
}

func Fences(xs []float64) (float64, float64) {
	q1 := Quantile(xs, 0.25)
	q3 := Quantile(xs, 0.75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

func Box(xs []float64) BoxStats {
	if len(xs) == 0 {
		return BoxStats{Outliers: []float64{}}
	}
	ys := slices.Clone(xs)
	slices.Sort(ys)
	b := BoxStats{
		N:        len(ys),
		Q1:       sortedQuantile(ys, 0.25),
		Median:   sortedQuantile(ys, 0.5),
		Q3:       sortedQuantile(ys, 0.75),
		Outliers: []float64{},
	}
	iqr := b.Q3 - b.Q1
	b.LowerFence = b.Q1 - 1.5*iqr
	b.UpperFence = b.Q3 + 1.5*iqr
	b.WhiskerLo, b.WhiskerHi = math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		if y < b.LowerFence || y > b.UpperFence {
			b.Outliers = append(b.Outliers, y)
		} else {
			b.WhiskerLo = min(b.WhiskerLo, y)
			b.WhiskerHi = max(b.WhiskerHi, y)
		}
	}
	return b
}

// One box of a grouped box chart.  Color and Facet are "" when the chart does not use them.

type BoxGroup struct {
	X     string   `json:"x"`
	Color string   `json:"color,omitempty"`
	Facet string   `json:"facet,omitempty"`
	Stats BoxStats `json:"stats"`
}

type BoxChart struct {
	Unit   string     `json:"unit"`
	Groups []BoxGroup `json:"groups"`
}

type BoxOptions struct {
	X     func(*db.JobRecord) string
	Color func(*db.JobRecord) string
	Facet func(*db.JobRecord) string

	// Ordering of the X (and Facet) labels; lexicographic if nil
	XOrder     func(string) int
	FacetOrder func(string) int

	// Seconds per display unit: 60 for minutes, 3600 for hours
	Scale float64
	Unit  string
}

func BoxGroups(rows []*db.JobRecord, opts BoxOptions) BoxChart {
	type key struct{ x, color, facet string }
	values := make(map[key][]float64)
	for _, r := range rows {
		k := key{x: opts.X(r)}
		if opts.Color != nil {
			k.color = opts.Color(r)
		}
		if opts.Facet != nil {
			k.facet = opts.Facet(r)
		}
		values[k] = append(values[k], r.WaitSec/opts.Scale)
	}
	chart := BoxChart{Unit: opts.Unit, Groups: make([]BoxGroup, 0, len(values))}
	for k, vs := range values {
		chart.Groups = append(chart.Groups, BoxGroup{X: k.x, Color: k.color, Facet: k.facet, Stats: Box(vs)})
	}
	order := func(f func(string) int, a, b string) int {
		if f != nil {
			if c := cmp.Compare(f(a), f(b)); c != 0 {
				return c
			}
		}
		return cmp.Compare(a, b)
	}
	slices.SortFunc(chart.Groups, func(a, b BoxGroup) int {
		if c := order(opts.FacetOrder, a.Facet, b.Facet); c != 0 {
			return c
		}
		if c := order(opts.XOrder, a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Color, b.Color)
	})
	return chart
}
