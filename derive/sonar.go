package derive

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/NordicHPC/sonar/util/formats/newfmt"

	. "github.com/Nathan-JzSu/qwt/common"
)

// Read Sonar "jobs" envelopes.  Error envelopes are soft errors.

func ReadSonarJobs(input io.Reader, verbose bool) (jobs []*Job, softErrors int, err error) {
	jobs = make([]*Job, 0)
	err = newfmt.ConsumeJSONJobs(input, false, func(r *newfmt.JobsEnvelope) {
		if r.Errors != nil || r.Data == nil {
			softErrors++
			return
		}
		jobs = appendJobs(jobs, r)
	})
	if verbose {
		Log.Infof("Read %d jobs, %d error envelopes", len(jobs), softErrors)
	}
	return
}

func ReadSonarJobsFile(fn string, verbose bool) ([]*Job, int, error) {
	input, err := os.Open(fn)
	if err != nil {
		return nil, 0, err
	}
	defer input.Close()
	jobs, soft, err := ReadSonarJobs(input, verbose)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", fn, err)
	}
	return jobs, soft, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func appendJobs(jobs []*Job, r *newfmt.JobsEnvelope) []*Job {
	for i := range r.Data.Attributes.SlurmJobs {
		job := &r.Data.Attributes.SlurmJobs[i]
		gpus := 0
		if job.Sacct != nil {
			gpus = ParseGPUs(string(job.Sacct.AllocTRES))
		}
		jobs = append(jobs, &Job{
			ID:     uint64(job.JobID),
			Step:   job.JobStep,
			User:   job.UserName,
			Queue:  job.Partition,
			Submit: parseTime(string(job.SubmitTime)),
			Start:  parseTime(string(job.Start)),
			End:    parseTime(string(job.End)),
			CPUs:   int(job.ReqCPUS),
			Nodes:  int(job.ReqNodes),
			GPUs:   gpus,
		})
	}
	return jobs
}
