package stats

import (
	"math/rand/v2"
	"slices"

	"github.com/Nathan-JzSu/qwt/db"
)

// The seed used by every chart, so that the same query always draws the same points.
const DefaultSeed = 42

// Sample n rows without replacement, keeping their relative order.  If there are at most n rows
// they are all returned.

func Sample(rows []*db.JobRecord, n int, seed uint64) []*db.JobRecord {
	if len(rows) <= n {
		return rows
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	ixs := rng.Perm(len(rows))[:n]
	slices.Sort(ixs)
	result := make([]*db.JobRecord, n)
	for i, ix := range ixs {
		result[i] = rows[ix]
	}
	return result
}

// Split a budget of total points evenly across years and sample each year separately.  Years are
// processed in the order given; rows in other years are dropped.  With no years, all years present
// in rows are used in ascending order.

func SamplePerYear(rows []*db.JobRecord, years []int, total int, seed uint64) []*db.JobRecord {
	byYear := make(map[int][]*db.JobRecord)
	for _, r := range rows {
		byYear[r.Year] = append(byYear[r.Year], r)
	}
	if len(years) == 0 {
		for y := range byYear {
			years = append(years, y)
		}
		slices.Sort(years)
	}
	if len(years) == 0 {
		return []*db.JobRecord{}
	}
	perYear := total / len(years)
	result := make([]*db.JobRecord, 0, min(total, len(rows)))
	for _, y := range years {
		result = append(result, Sample(byYear[y], perYear, seed)...)
	}
	return result
}

// Like SamplePerYear, but rows outside the 1.5*IQR fences of the whole set are always kept, after
// the sampled rows.

func SampleKeepingOutliers(rows []*db.JobRecord, years []int, total int, seed uint64) []*db.JobRecord {
	if len(rows) == 0 {
		return []*db.JobRecord{}
	}
	lo, hi := Fences(minutes(rows))
	var inside, outside []*db.JobRecord
	for _, r := range rows {
		if m := r.WaitMinutes(); m < lo || m > hi {
			outside = append(outside, r)
		} else {
			inside = append(inside, r)
		}
	}
	return append(SamplePerYear(inside, years, total, seed), outside...)
}
