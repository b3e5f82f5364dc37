// Aggregation over filtered job subsets: summary statistics, grouped medians with top-k collapse,
// daily lines, box statistics, 3-D scatter means and deterministic down-sampling.
//
// Everything here is a pure function of its arguments.  Waiting times are seconds in the records
// and minutes in the results unless a result says otherwise.

package stats

import (
	"math"
	"slices"
	"strconv"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
)

// All stats are in minutes and are nil when Count is zero.

type Summary struct {
	Count  int      `json:"count"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
}

// Display strings, each stat with its own unit.
type SummaryText struct {
	Count  string `json:"count"`
	Min    string `json:"min"`
	Max    string `json:"max"`
	Mean   string `json:"mean"`
	Median string `json:"median"`
}

func Summarize(rows []*db.JobRecord) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	xs := minutes(rows)
	lo, hi, sum := math.Inf(1), math.Inf(-1), 0.0
	for _, x := range xs {
		lo = min(lo, x)
		hi = max(hi, x)
		sum += x
	}
	// Negative waits are degenerate data; they are never shown as a negative minimum.
	lo = max(lo, 0)
	mean := sum / float64(len(xs))
	median := Median(xs)
	return Summary{
		Count:  len(xs),
		Min:    &lo,
		Max:    &hi,
		Mean:   &mean,
		Median: &median,
	}
}

func (s Summary) Text() SummaryText {
	return SummaryText{
		Count:  strconv.Itoa(s.Count),
		Min:    FormatWait(s.Min),
		Max:    FormatWait(s.Max),
		Mean:   FormatWait(s.Mean),
		Median: FormatWait(s.Median),
	}
}

func minutes(rows []*db.JobRecord) []float64 {
	xs := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.WaitMinutes()
	}
	return xs
}

// The median of xs, averaging the two middle values for even lengths.  NaN for empty input.  xs is
// not modified.

func Median(xs []float64) float64 {
	return Quantile(xs, 0.5)
}

// Quantile with linear interpolation between closest ranks.  NaN for empty input.

func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	ys := slices.Clone(xs)
	slices.Sort(ys)
	return sortedQuantile(ys, q)
}

func sortedQuantile(ys []float64, q float64) float64 {
	pos := q * float64(len(ys)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return ys[lo]
	}
	frac := pos - float64(lo)
	return ys[lo] + (ys[hi]-ys[lo])*frac
}

// Round half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
