// `qwt derive` - compute the job-wait dataset from raw Slurm accounting data.

package derive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	. "github.com/Nathan-JzSu/qwt/cmd"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/derive"
)

type DeriveCommand struct {
	DevArgs
	VerboseArgs
	ConfigFileArgs

	JobFiles     []string
	KafkaBroker  string
	Cluster      string
	Group        string
	Idle         time.Duration
	QueueInfo    string
	Year         int
	OutputFile   string
	OutputSqlite string
	Table        string
}

var _ PrimitiveCommand = (*DeriveCommand)(nil)
var _ SetRestArgumentsAPI = (*DeriveCommand)(nil)

func (dc *DeriveCommand) Add(fs *CLI) {
	dc.DevArgs.Add(fs)
	dc.VerboseArgs.Add(fs)
	dc.ConfigFileArgs.Add(fs)
	fs.Group("data-source")
	fs.Var(NewRepeatableStringNoCommas(&dc.JobFiles), "jobs-file",
		"Read Sonar jobs JSON from this `filename` (repeatable, or give files as arguments)")
	fs.StringVar(&dc.QueueInfo, "queue-info", "",
		"Read queue classes from this CSV `filename` with queuename,class_user,class_own")
	fs.Group("kafka-source")
	fs.StringVar(&dc.KafkaBroker, "kafka-broker", "",
		"Consume Sonar jobs data from the Kafka broker at this `host:port`")
	fs.StringVar(&dc.Cluster, "cluster", "",
		"Consume the jobs topic of this `cluster` (required with -kafka-broker)")
	fs.StringVar(&dc.Group, "consumer-group", derive.DefaultConsumerGroup,
		"Kafka consumer `group`")
	fs.DurationVar(&dc.Idle, "idle", derive.DefaultIdleTimeout,
		"The topic is drained when a poll has seen nothing for this `duration`")
	fs.Group("operation-selection")
	fs.IntVar(&dc.Year, "year", 0, "Only consider jobs submitted in this `year` [default: all]")
	fs.Group("printing")
	fs.StringVar(&dc.OutputFile, "output", "",
		"Write the dataset CSV to this `filename` [default: stdout]")
	fs.StringVar(&dc.OutputSqlite, "output-sqlite", "",
		"Write the dataset to a table in this SQLite `filename` instead of CSV")
	fs.StringVar(&dc.Table, "table", db.DefaultTable, "The SQLite `table` to write")
}

func (dc *DeriveCommand) SetRestArguments(args []string) {
	dc.JobFiles = append(dc.JobFiles, args...)
}

func (dc *DeriveCommand) Validate() error {
	e1 := dc.ConfigFileArgs.Validate()
	if len(dc.JobFiles) == 0 {
		ApplyDefault(&dc.KafkaBroker, DataSourceKafkaBroker)
		ApplyDefault(&dc.Cluster, DataSourceCluster)
	}
	ApplyDefault(&dc.QueueInfo, DataSourceQueueInfo)

	var e2 error
	switch {
	case len(dc.JobFiles) > 0 && dc.KafkaBroker != "":
		e2 = errors.New("Jobs files and -kafka-broker are mutually exclusive")
	case len(dc.JobFiles) == 0 && dc.KafkaBroker == "":
		e2 = errors.New("Either jobs files or -kafka-broker are required")
	case dc.KafkaBroker != "" && dc.Cluster == "":
		e2 = errors.New("-kafka-broker requires -cluster")
	}
	var e3 error
	if dc.Year != 0 && (dc.Year < 1000 || dc.Year > 9999) {
		e3 = fmt.Errorf("Bad year %d", dc.Year)
	}
	if dc.OutputFile != "" && dc.OutputSqlite != "" {
		e3 = errors.Join(e3, errors.New("-output and -output-sqlite are mutually exclusive"))
	}
	for i := range dc.JobFiles {
		dc.JobFiles[i] = path.Clean(dc.JobFiles[i])
	}
	return errors.Join(e1, e2, e3, dc.DevArgs.Validate(), dc.VerboseArgs.Validate())
}

func (dc *DeriveCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Compute first-job waiting times from Slurm accounting data and write the
dataset the other commands read.

Jobs are ordered by end time.  A job is a first job if it was submitted after every
earlier job of the same user and class (GPU, MPI, omp, 1-p) had ended; its waiting
time is start - submit.  Input is Sonar jobs JSON, from files or from the cluster's
jobs topic on a Kafka broker.
`)
}

func (dc *DeriveCommand) readJobs(ctx context.Context) ([]*derive.Job, error) {
	if dc.KafkaBroker != "" {
		ks := &derive.KafkaSource{
			Broker:  dc.KafkaBroker,
			Cluster: dc.Cluster,
			Group:   dc.Group,
			Idle:    dc.Idle,
			Verbose: dc.Verbose,
		}
		jobs, soft, err := ks.ReadJobs(ctx)
		if soft > 0 {
			Log.Warningf("Dropped %d bad records from %s", soft, ks.Topic())
		}
		return jobs, err
	}
	jobs := make([]*derive.Job, 0)
	for _, fn := range dc.JobFiles {
		more, soft, err := derive.ReadSonarJobsFile(fn, dc.Verbose)
		if err != nil {
			return nil, err
		}
		if soft > 0 {
			Log.Warningf("Dropped %d error envelopes from %s", soft, fn)
		}
		jobs = append(jobs, more...)
	}
	return jobs, nil
}

func (dc *DeriveCommand) Perform(ctx context.Context, _ io.Reader, stdout, _ io.Writer) error {
	var queues derive.QueueInfo
	if dc.QueueInfo != "" {
		var err error
		queues, err = derive.ReadQueueInfoFile(dc.QueueInfo)
		if err != nil {
			return err
		}
	}
	jobs, err := dc.readJobs(ctx)
	if err != nil {
		return err
	}
	records := derive.Derive(jobs, derive.Options{
		Year:    dc.Year,
		Queues:  queues,
		Verbose: dc.Verbose,
	})

	if dc.OutputSqlite != "" {
		return db.WriteSqlite(ctx, dc.OutputSqlite, dc.Table, records)
	}
	if dc.OutputFile == "" {
		return db.WriteCSV(stdout, records)
	}
	output, err := os.Create(dc.OutputFile)
	if err != nil {
		return err
	}
	err = db.WriteCSV(output, records)
	if cerr := output.Close(); err == nil {
		err = cerr
	}
	return err
}
