// The filter engine.  A Criteria record names the constraints of one query; every non-empty field
// is a predicate, and a row passes when it satisfies all of them.  An empty field never shrinks the
// result, with the single exception of JobTypeMatch.EmptyMatchesNone.
//
// Criteria are compiled once per query into a list of predicates over *db.JobRecord, then applied
// to a row slice.  Filtering never mutates its input and preserves row order.

package query

import (
	"errors"
	"fmt"
	"strings"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
)

var ErrMalformed = errors.New("Malformed query input")

type MatchMode int

const (
	// Set membership on the raw job type
	MatchExact MatchMode = iota

	// Any value is a substring of the job type
	MatchContains
)

type JobTypeMatch struct {
	Mode   MatchMode
	Values []string

	// With no Values, select nothing instead of everything.
	EmptyMatchesNone bool
}

type QueueMode int

const (
	QueueAll QueueMode = iota
	QueueShared
	QueueBuyin
)

func (q QueueMode) String() string {
	switch q {
	case QueueShared:
		return "shared"
	case QueueBuyin:
		return "buyin"
	default:
		return "all"
	}
}

func ParseQueueMode(s string) (QueueMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return QueueAll, nil
	case "shared":
		return QueueShared, nil
	case "buyin", "buy-in":
		return QueueBuyin, nil
	}
	return QueueAll, fmt.Errorf("%w: unknown queue %q", ErrMalformed, s)
}

// Which class columns the queue selection tests.

type QueueRule int

const (
	// class_user equals the mode
	QueueRuleUser QueueRule = iota

	// class_own equals the mode
	QueueRuleOwner

	// shared: class_user is shared; buyin: both class_user and class_own are buyin
	QueueRuleBoth
)

type QueueFilter struct {
	Mode QueueMode
	Rule QueueRule
}

// Inclusive bounds, in Unit.  Use math.Inf for an open end.

type WaitRange struct {
	Low, High float64
	Unit      WaitUnit
}

func (w *WaitRange) Seconds() (float64, float64) {
	return w.Unit.ToSeconds(w.Low), w.Unit.ToSeconds(w.High)
}

type Criteria struct {
	Years      []int
	Months     []Month
	Days       []int
	JobTypes   JobTypeMatch
	CPUBuckets []string
	Wait       *WaitRange
	Queue      QueueFilter
}

// The canonical text of the criteria, usable as a cache key.  Sets are printed in the order given,
// which is the order the caller canonicalized them in.

func (c *Criteria) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "y=%v;m=%v;d=%v;jt=%d/%t/%q;cpu=%q;q=%d/%d",
		c.Years, c.Months, c.Days, c.JobTypes.Mode, c.JobTypes.EmptyMatchesNone, c.JobTypes.Values,
		c.CPUBuckets, c.Queue.Mode, c.Queue.Rule)
	if c.Wait != nil {
		lo, hi := c.Wait.Seconds()
		fmt.Fprintf(&b, ";w=%g..%g", lo, hi)
	}
	return b.String()
}

func matchesQueue(r *db.JobRecord, q QueueFilter) bool {
	if q.Mode == QueueAll {
		return true
	}
	mode := q.Mode.String()
	switch q.Rule {
	case QueueRuleOwner:
		return r.ClassOwn == mode
	case QueueRuleBoth:
		if q.Mode == QueueShared {
			return r.ClassUser == mode
		}
		return r.ClassOwn == mode && r.ClassUser == mode
	default:
		return r.ClassUser == mode
	}
}

func matchesJobType(jobType string, mode MatchMode, values []string) bool {
	for _, v := range values {
		switch mode {
		case MatchContains:
			if strings.Contains(jobType, v) {
				return true
			}
		default:
			if jobType == v {
				return true
			}
		}
	}
	return false
}

// The normalized job type: the class label if the job type belongs to a class, otherwise the job
// type itself.

func ClassLabel(jobType string) string {
	if c, ok := db.ClassOf(jobType); ok {
		return c.Label()
	}
	return jobType
}
