// The job-wait dataset: one row per first job, with its queue waiting time.
//
// Rows are loaded once (from CSV, a CBOR snapshot, PostgreSQL or SQLite) into an immutable Store
// and are never modified afterwards.  All consumers share the same *JobRecord values.

package db

import (
	"errors"
	"fmt"
	"strings"

	. "github.com/Nathan-JzSu/qwt/common"
)

// Field tags serve both JSON and CBOR (the CBOR encoder falls back to the json tag).

type JobRecord struct {
	JobNumber uint64  `json:"job_number"`
	JobType   string  `json:"job_type"`
	ClassUser string  `json:"class_user,omitempty"`
	ClassOwn  string  `json:"class_own,omitempty"`
	Year      int     `json:"year"`
	Month     Month   `json:"month"`
	Day       int     `json:"day,omitempty"` // 0 if unknown
	Slots     int     `json:"slots"`
	WaitSec   float64 `json:"first_job_waiting_time"`
}

func (r *JobRecord) HasDay() bool {
	return r.Day > 0
}

func (r *JobRecord) WaitMinutes() float64 {
	return r.WaitSec / 60
}

// The four job classes.  A job type belongs to a class by prefix; job types that match no prefix
// belong to no class.

type JobClass int

const (
	ClassGPU JobClass = iota
	ClassMPI
	ClassOMP
	ClassOneP
	numClasses
)

var classPrefixes = [numClasses]string{"GPU", "MPI", "omp", "1-p"}

// The homepage shows normalized class names.
var classLabels = [numClasses]string{"GPU", "MPI", "OMP", "1-P"}

func AllClasses() []JobClass {
	return []JobClass{ClassGPU, ClassMPI, ClassOMP, ClassOneP}
}

func (c JobClass) Prefix() string {
	return classPrefixes[c]
}

func (c JobClass) Label() string {
	return classLabels[c]
}

func (c JobClass) String() string {
	return classPrefixes[c]
}

func ClassOf(jobType string) (JobClass, bool) {
	for _, c := range AllClasses() {
		p := c.Prefix()
		if len(jobType) >= len(p) && strings.EqualFold(jobType[:len(p)], p) {
			return c, true
		}
	}
	return 0, false
}

func ParseClass(s string) (JobClass, error) {
	for _, c := range AllClasses() {
		if strings.EqualFold(s, c.Prefix()) || strings.EqualFold(s, c.Label()) {
			return c, nil
		}
	}
	switch strings.ToLower(s) {
	case "onep", "1p":
		return ClassOneP, nil
	}
	return 0, fmt.Errorf("Unknown job class %q", s)
}

// A raw row as it comes out of a loader.  nil means NULL or absent.

type rawRecord struct {
	JobNumber *int64   `db:"job_number"`
	JobType   *string  `db:"job_type"`
	ClassUser *string  `db:"class_user"`
	ClassOwn  *string  `db:"class_own"`
	Year      *int64   `db:"year"`
	Month     *string  `db:"month"`
	Day       *int64   `db:"day"`
	Slots     *int64   `db:"slots"`
	WaitSec   *float64 `db:"first_job_waiting_time"`
}

var (
	errMissingField = errors.New("Missing required field")
)

// Rows missing a required field are rejected; a missing day is allowed.

func (r *rawRecord) clean() (*JobRecord, error) {
	if r.JobType == nil || *r.JobType == "" || r.Year == nil || r.Month == nil || r.Slots == nil ||
		r.WaitSec == nil {
		return nil, errMissingField
	}
	month, err := parseMonthField(*r.Month)
	if err != nil {
		return nil, err
	}
	if *r.Year < 1000 || *r.Year > 9999 {
		return nil, fmt.Errorf("Year out of range: %d", *r.Year)
	}
	if *r.Slots < 1 {
		return nil, fmt.Errorf("Slots out of range: %d", *r.Slots)
	}
	rec := &JobRecord{
		JobType: *r.JobType,
		Year:    int(*r.Year),
		Month:   month,
		Slots:   int(*r.Slots),
		WaitSec: *r.WaitSec,
	}
	if r.JobNumber != nil && *r.JobNumber > 0 {
		rec.JobNumber = uint64(*r.JobNumber)
	}
	if r.ClassUser != nil {
		rec.ClassUser = *r.ClassUser
	}
	if r.ClassOwn != nil {
		rec.ClassOwn = *r.ClassOwn
	}
	if r.Day != nil && *r.Day >= 1 && *r.Day <= 31 {
		rec.Day = int(*r.Day)
	}
	return rec, nil
}

// Months are stored as labels ("Jan") by the derivation but databases sometimes carry numbers.

func parseMonthField(s string) (Month, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && Month(n).Valid() && fmt.Sprint(n) == s {
		return Month(n), nil
	}
	return ParseMonth(s)
}
