// `qwt` -- Analyze queue waiting times of first jobs on an HPC cluster
//
// Run `qwt help` for brief help, and `qwt <command> -h` for the options of a command.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	. "github.com/Nathan-JzSu/qwt/cmd"
	"github.com/Nathan-JzSu/qwt/cmd/buckets"
	"github.com/Nathan-JzSu/qwt/cmd/chart"
	"github.com/Nathan-JzSu/qwt/cmd/derive"
	"github.com/Nathan-JzSu/qwt/cmd/info"
	"github.com/Nathan-JzSu/qwt/cmd/split"
	"github.com/Nathan-JzSu/qwt/cmd/summary"
	"github.com/Nathan-JzSu/qwt/cmd/version"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/daemon"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/table"
)

func main() {
	err := qwt()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func qwt() error {
	anyCmd, _ := commandLine()

	if anyCmd.CpuProfileFile() != "" {
		f, err := os.Create(anyCmd.CpuProfileFile())
		if err != nil {
			return fmt.Errorf("Failed to create profile\n%w", err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	// The daemon handles its own signals.
	ctx := context.Background()
	if _, isDaemon := anyCmd.(*daemon.DaemonCommand); !isDaemon {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	}

	switch cmd := anyCmd.(type) {
	case PrimitiveCommand:
		return cmd.Perform(ctx, os.Stdin, os.Stdout, os.Stderr)
	case DatasetCommand:
		src := cmd.SourceFlags().Source(cmd.VerboseFlag())
		store, err := db.Open(ctx, src)
		if err != nil {
			return fmt.Errorf("Failed to read %s: %w", src.Describe(), err)
		}
		if cmd.VerboseFlag() {
			Log.Infof("%d records from %s", store.Len(), src.Describe())
		}
		return cmd.Perform(ctx, store, os.Stdout, os.Stderr)
	default:
		return errors.New("NYI command")
	}
}

func commandLine() (Command, string) {
	out := CLIOutput()

	if len(os.Args) < 2 {
		fmt.Fprintf(out, "Required operation missing, try `qwt help`\n")
		os.Exit(2)
	}

	var cmd Command
	var verb = os.Args[1]
	switch verb {
	case "help", "-h":
		fmt.Fprintf(out, "Usage: %s command [options] [argument ...]\n", os.Args[0])
		fmt.Fprintf(out, "Commands:\n")
		fmt.Fprintf(out, "  buckets  - print the CPU bucket table or assign core counts to buckets\n")
		fmt.Fprintf(out, "  chart    - print the data of a dashboard chart\n")
		fmt.Fprintf(out, "  daemon   - serve dashboard queries over HTTP\n")
		fmt.Fprintf(out, "  derive   - compute first-job waiting times from Slurm accounting data\n")
		fmt.Fprintf(out, "  info     - print basic waiting time statistics per job class for a month\n")
		fmt.Fprintf(out, "  split    - write per-class snapshots of the dataset\n")
		fmt.Fprintf(out, "  summary  - print waiting time summary statistics of a dashboard page\n")
		fmt.Fprintf(out, "  version  - print information about the program\n")
		fmt.Fprintf(out, "  help     - print this message\n")
		fmt.Fprintf(out, "Each command accepts -h to further explain options.\n")
		os.Exit(0)
	case "buckets":
		cmd = new(buckets.BucketsCommand)
	case "chart":
		cmd = new(chart.ChartCommand)
	case "daemon":
		cmd = new(daemon.DaemonCommand)
	case "derive":
		cmd = new(derive.DeriveCommand)
	case "info":
		cmd = new(info.InfoCommand)
	case "split":
		cmd = new(split.SplitCommand)
	case "summary":
		cmd = new(summary.SummaryCommand)
	case "version":
		cmd = new(version.VersionCommand)
	default:
		fmt.Fprintf(out, "Required operation missing, try `qwt help`\n")
		os.Exit(2)
	}

	fs := NewCLI(verb, cmd, os.Args[0], true)
	cmd.Add(fs)
	fs.Parse(os.Args[2:])

	rest := fs.Args()
	if len(rest) > 0 {
		if raCmd, ok := cmd.(SetRestArgumentsAPI); ok {
			raCmd.SetRestArguments(rest)
		} else {
			fmt.Fprintf(out, "Rest arguments not accepted by `%s`.\n", verb)
			os.Exit(2)
		}
	}

	if fhCmd, ok := cmd.(FormatHelpAPI); ok {
		if h := fhCmd.MaybeFormatHelp(); h != nil {
			table.PrintFormatHelp(out, h)
			os.Exit(0)
		}
	}

	err := cmd.Validate()
	if err != nil {
		fmt.Fprintf(out, "Bad arguments, try -h\n%v\n", err.Error())
		os.Exit(2)
	}

	return cmd, verb
}
