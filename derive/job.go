// Derivation of the job-wait dataset from raw Slurm accounting data.
//
// Jobs are processed in order of end time.  For every (user, class) pair we track the latest end
// time seen so far; a job submitted after that time had nothing else of its kind running or
// queued for its user, and its queue wait (start - submit) is the "first job waiting time".

package derive

import (
	"bytes"
	"strconv"
	"time"

	"github.com/Nathan-JzSu/qwt/db"
)

// One raw job, as much of it as the derivation needs.  Times are UTC.

type Job struct {
	ID     uint64
	Step   string // "" for the job itself
	User   string
	Queue  string
	Submit time.Time
	Start  time.Time
	End    time.Time
	CPUs   int
	Nodes  int
	GPUs   int
}

// Job steps are accounted for by their job, and jobs that have not finished have no end time to
// order by.

func (j *Job) usable() bool {
	return j.Step == "" && !j.Submit.IsZero() && !j.Start.IsZero() && !j.End.IsZero()
}

func (j *Job) Class() db.JobClass {
	switch {
	case j.GPUs > 0:
		return db.ClassGPU
	case j.CPUs <= 1 && j.Nodes <= 1:
		return db.ClassOneP
	case j.Nodes > 1:
		return db.ClassMPI
	default:
		return db.ClassOMP
	}
}

func (j *Job) Label() string {
	switch j.Class() {
	case db.ClassGPU:
		if j.GPUs == 1 {
			return "GPU = 1 " + j.Queue
		}
		return "GPU > 1 " + j.Queue
	case db.ClassMPI:
		return "MPI job " + j.Queue
	case db.ClassOneP:
		return "1-p " + j.Queue
	default:
		return "omp " + j.Queue
	}
}

func (j *Job) slots() int {
	return max(j.CPUs, 1)
}

var (
	comma   = []byte{','}
	gresGpu = []byte("gres/gpu")
)

// The number of GPUs in an AllocTRES string, eg "billing=20,cpu=20,gres/gpu:rtx30=1,gres/gpu=1,
// mem=50G,node=1".  The model-less total wins; otherwise the per-model counts are summed.

func ParseGPUs(allocTRES string) int {
	val := []byte(allocTRES)
	total, models := -1, 0
	for len(val) > 0 {
		before, after, _ := bytes.Cut(val, comma)
		val = after
		if !bytes.HasPrefix(before, gresGpu) || len(before) < len(gresGpu)+2 {
			continue
		}
		_, count, found := bytes.Cut(before, []byte{'='})
		if !found {
			continue
		}
		n, err := strconv.Atoi(string(count))
		if err != nil {
			continue
		}
		switch before[len(gresGpu)] {
		case '=':
			total = n
		case ':':
			models += n
		}
	}
	if total >= 0 {
		return total
	}
	return models
}
