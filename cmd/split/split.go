// `qwt split` - split the dataset into one file per job class.

package split

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	. "github.com/Nathan-JzSu/qwt/cmd"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
)

type SplitCommand struct {
	DevArgs
	VerboseArgs
	ConfigFileArgs
	SourceArgs

	OutputDir string
	Classes   []string
	Csv       bool

	classes []db.JobClass
}

var _ DatasetCommand = (*SplitCommand)(nil)

func (sc *SplitCommand) Add(fs *CLI) {
	sc.DevArgs.Add(fs)
	sc.VerboseArgs.Add(fs)
	sc.ConfigFileArgs.Add(fs)
	sc.SourceArgs.Add(fs)
	fs.Group("operation-selection")
	fs.Var(NewRepeatableString(&sc.Classes), "class",
		"Write only this job `class`: GPU, MPI, OMP, OneP (repeatable) [default: all]")
	fs.Group("printing")
	fs.StringVar(&sc.OutputDir, "output-dir", "",
		"Write the files into this `directory` (required)")
	fs.BoolVar(&sc.Csv, "csv", false, "Also write a CSV file per class")
}

func (sc *SplitCommand) Validate() error {
	e1 := sc.ConfigFileArgs.Validate()
	var e2 error
	if sc.OutputDir == "" {
		e2 = errors.New("-output-dir is required")
	} else {
		sc.OutputDir = path.Clean(sc.OutputDir)
	}
	sc.classes = nil
	for _, s := range sc.Classes {
		c, err := db.ParseClass(s)
		if err != nil {
			e2 = errors.Join(e2, err)
			continue
		}
		sc.classes = append(sc.classes, c)
	}
	if len(sc.Classes) == 0 {
		sc.classes = db.AllClasses()
	}
	return errors.Join(
		e1,
		e2,
		sc.DevArgs.Validate(),
		sc.VerboseArgs.Validate(),
		sc.SourceArgs.Validate(),
	)
}

func (sc *SplitCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Split the dataset into one CBOR snapshot per job class, named GPU.cbor,
MPI.cbor, OMP.cbor and OneP.cbor, and optionally matching CSV files.  Snapshots load
faster than CSV and can be read back with -snapshot.
`)
}

// The file name stem for a class.
func FileStem(c db.JobClass) string {
	if c == db.ClassOneP {
		return "OneP"
	}
	return c.Label()
}

func (sc *SplitCommand) Perform(_ context.Context, store *db.Store, stdout, _ io.Writer) error {
	if err := os.MkdirAll(sc.OutputDir, 0o755); err != nil {
		return err
	}
	for _, c := range sc.classes {
		records := store.Class(c)
		stem := path.Join(sc.OutputDir, FileStem(c))
		if err := db.WriteSnapshotFile(stem+".cbor", records); err != nil {
			return err
		}
		if sc.Csv {
			if err := writeCSVFile(stem+".csv", records); err != nil {
				return err
			}
		}
		if sc.Verbose {
			Log.Infof("Wrote %d %s records to %s", len(records), c.Label(), stem)
		}
	}
	return nil
}

func writeCSVFile(fn string, records []*db.JobRecord) error {
	output, err := os.Create(fn)
	if err != nil {
		return err
	}
	err = db.WriteCSV(output, records)
	if cerr := output.Close(); err == nil {
		err = cerr
	}
	return err
}
