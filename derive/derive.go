package derive

import (
	"slices"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
)

type Options struct {
	// Only jobs submitted in this year take part; 0 means all years
	Year int

	// Queue classes, may be nil
	Queues QueueInfo

	Verbose bool
}

type userClass struct {
	user  string
	class db.JobClass
}

// Compute first-job waiting times.  The input is not modified.  Records come out in the order of
// their jobs' end times.

func Derive(jobs []*Job, opts Options) []*db.JobRecord {
	candidates := make([]*Job, 0, len(jobs))
	skipped := 0
	for _, j := range jobs {
		if !j.usable() {
			skipped++
			continue
		}
		if opts.Year != 0 && j.Submit.UTC().Year() != opts.Year {
			continue
		}
		candidates = append(candidates, j)
	}
	slices.SortStableFunc(candidates, func(a, b *Job) int {
		return a.End.Compare(b.End)
	})

	latestEnd := make(map[userClass]int64)
	records := make([]*db.JobRecord, 0)
	negative := 0
	for _, j := range candidates {
		key := userClass{j.User, j.Class()}
		submit, start, end := j.Submit.Unix(), j.Start.Unix(), j.End.Unix()
		// Absent means zero, and no job is submitted at the epoch.
		if submit > latestEnd[key] {
			if wait := start - submit; wait >= 0 {
				t := j.Submit.UTC()
				classUser, classOwn := opts.Queues.Classes(j.Queue)
				records = append(records, &db.JobRecord{
					JobNumber: j.ID,
					JobType:   j.Label(),
					ClassUser: classUser,
					ClassOwn:  classOwn,
					Year:      t.Year(),
					Month:     Month(t.Month()),
					Day:       t.Day(),
					Slots:     j.slots(),
					WaitSec:   float64(wait),
				})
			} else {
				negative++
			}
		}
		latestEnd[key] = max(latestEnd[key], end)
	}

	if opts.Verbose {
		Log.Infof("%d jobs, %d unusable, %d first jobs, %d with negative wait dropped",
			len(jobs), skipped, len(records), negative)
	}
	return records
}
