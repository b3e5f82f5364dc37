package query

import (
	"github.com/Nathan-JzSu/qwt/buckets"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
)

type Predicate func(r *db.JobRecord) bool

func setOf[K comparable](xs []K) map[K]bool {
	m := make(map[K]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

// Compile the criteria into a conjunction of predicates.  The bucket table is only consulted if
// CPUBuckets is not empty; bucket labels the table does not know contribute no slot values.

func Compile(c *Criteria, tbl *buckets.Table) []Predicate {
	var preds []Predicate
	if len(c.Years) > 0 {
		years := setOf(c.Years)
		preds = append(preds, func(r *db.JobRecord) bool { return years[r.Year] })
	}
	if len(c.Months) > 0 {
		months := setOf(c.Months)
		preds = append(preds, func(r *db.JobRecord) bool { return months[r.Month] })
	}
	if len(c.Days) > 0 {
		days := setOf(c.Days)
		preds = append(preds, func(r *db.JobRecord) bool { return days[r.Day] })
	}
	if jt := c.JobTypes; len(jt.Values) > 0 {
		if jt.Mode == MatchExact {
			types := setOf(jt.Values)
			preds = append(preds, func(r *db.JobRecord) bool { return types[r.JobType] })
		} else {
			preds = append(preds, func(r *db.JobRecord) bool {
				return matchesJobType(r.JobType, jt.Mode, jt.Values)
			})
		}
	} else if jt.EmptyMatchesNone {
		preds = append(preds, func(*db.JobRecord) bool { return false })
	}
	if len(c.CPUBuckets) > 0 {
		var slots map[int]bool
		if tbl != nil {
			for _, l := range c.CPUBuckets {
				if !tbl.Has(l) {
					Log.Debugf("Unknown bucket %s", l)
				}
			}
			slots = setOf(tbl.Expand(c.CPUBuckets))
		}
		if len(slots) == 0 {
			Log.Debugf("No slot values for buckets %v", c.CPUBuckets)
		}
		preds = append(preds, func(r *db.JobRecord) bool { return slots[r.Slots] })
	}
	if c.Wait != nil {
		lo, hi := c.Wait.Seconds()
		preds = append(preds, func(r *db.JobRecord) bool { return r.WaitSec >= lo && r.WaitSec <= hi })
	}
	if c.Queue.Mode != QueueAll {
		q := c.Queue
		preds = append(preds, func(r *db.JobRecord) bool { return matchesQueue(r, q) })
	}
	return preds
}

func Filter(rows []*db.JobRecord, c *Criteria, tbl *buckets.Table) []*db.JobRecord {
	return Apply(rows, Compile(c, tbl))
}

func Apply(rows []*db.JobRecord, preds []Predicate) []*db.JobRecord {
	result := make([]*db.JobRecord, 0)
outer:
	for _, r := range rows {
		for _, p := range preds {
			if !p(r) {
				continue outer
			}
		}
		result = append(result, r)
	}
	return result
}
