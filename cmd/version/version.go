package version

import (
	"context"
	"fmt"
	"io"

	. "github.com/Nathan-JzSu/qwt/cmd"
)

// v0.1.0 - summaries, charts and the daemon
// v0.2.0 - derive from Kafka, per-class snapshots

const QwtVersion = "0.2.0"

type VersionCommand struct {
	DevArgs
	VerboseArgs
}

var _ PrimitiveCommand = (*VersionCommand)(nil)

func (vc *VersionCommand) Add(fs *CLI) {
	vc.DevArgs.Add(fs)
	vc.VerboseArgs.Add(fs)
}

func (vc *VersionCommand) Validate() error {
	return nil
}

func (vc *VersionCommand) Summary(out io.Writer) {
	fmt.Fprintln(out, "Display the version number.")
}

func (_ *VersionCommand) Perform(_ context.Context, _ io.Reader, stdout, _ io.Writer) error {
	fmt.Fprintf(stdout, "qwt version(%s)\n", QwtVersion)
	return nil
}
