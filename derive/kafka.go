package derive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NordicHPC/sonar/util/formats/newfmt"
	"github.com/twmb/franz-go/pkg/kgo"

	. "github.com/Nathan-JzSu/qwt/common"
)

const (
	DefaultConsumerGroup = "qwt-derive"

	// The topic counts as drained when a poll sees nothing for this long
	DefaultIdleTimeout = 10 * time.Second
)

type KafkaSource struct {
	Broker  string
	Cluster string
	Group   string
	Idle    time.Duration
	Verbose bool
}

func (ks *KafkaSource) Topic() string {
	return ks.Cluster + "." + string(newfmt.DataTagJobs)
}

// Consume the cluster's jobs topic until it is drained, committing offsets as we go.  A record that
// does not decode is a soft error, as is an error envelope.

func (ks *KafkaSource) ReadJobs(ctx context.Context) (jobs []*Job, softErrors int, err error) {
	group := ks.Group
	if group == "" {
		group = DefaultConsumerGroup
	}
	idle := ks.Idle
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(ks.Broker),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(ks.Topic()),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: Failed to create client: %w", ks.Cluster, err)
	}
	defer cl.Close()

	jobs = make([]*Job, 0)
	for {
		pollCtx, cancel := context.WithTimeout(ctx, idle)
		fetches := cl.PollFetches(pollCtx)
		cancel()
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if fetches.IsClientClosed() {
			break
		}
		for _, fe := range fetches.Errors() {
			if errors.Is(fe.Err, context.DeadlineExceeded) {
				continue
			}
			// Non-retriable errors are returned from polls so that we can notice them.
			Log.Warningf("%s: Failed to fetch data from %s: %v", ks.Cluster, fe.Topic, fe.Err)
		}
		if fetches.NumRecords() == 0 {
			break
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			more, derr := decodeJobsRecord(jobs, record.Value)
			if derr != nil {
				softErrors++
				if ks.Verbose {
					Log.Infof("%s: Dropping record at offset %d: %v", ks.Cluster, record.Offset, derr)
				}
				continue
			}
			jobs = more
		}
		if err := cl.CommitUncommittedOffsets(ctx); err != nil {
			Log.Warningf("%s: Commit records failed: %v", ks.Cluster, err)
		}
	}
	if ks.Verbose {
		Log.Infof("%s: Read %d jobs from %s, %d soft errors", ks.Cluster, len(jobs), ks.Topic(), softErrors)
	}
	return jobs, softErrors, nil
}

var errJobsEnvelope = errors.New("Error envelope")

func decodeJobsRecord(jobs []*Job, value []byte) ([]*Job, error) {
	info := new(newfmt.JobsEnvelope)
	if err := json.Unmarshal(value, info); err != nil {
		return jobs, err
	}
	if info.Data == nil {
		return jobs, errJobsEnvelope
	}
	return appendJobs(jobs, info), nil
}
