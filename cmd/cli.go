package cmd

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// CLI is a flag.FlagSet whose options are tagged with the logical group they belong to, so that
// help can present the options of a group together.

type CLI struct {
	*flag.FlagSet
	currentGroup   string
	groupForOption map[string]string // option -> group name
}

// MT: Constant after initialization; immutable.  The order in which groups are printed; every
// group must be here.
var groupOrder = []string{
	"application-control",
	"operation-selection",
	"daemon-configuration",
	"query-input",
	"printing",
	"data-source",
	"kafka-source",
	"development",
}

func CLIOutput() io.Writer {
	return flag.CommandLine.Output()
}

func NewCLI(verb string, command Command, name string, exitOnError bool) *CLI {
	fsFlag := flag.ContinueOnError
	if exitOnError {
		fsFlag = flag.ExitOnError
	}
	cli := &CLI{
		FlagSet:        flag.NewFlagSet(name, fsFlag),
		groupForOption: make(map[string]string),
	}
	cli.FlagSet.Usage = func() {
		out := cli.FlagSet.Output()
		restargs := ""
		if _, ok := command.(SetRestArgumentsAPI); ok {
			restargs = " [argument ...]"
		}
		fmt.Fprintf(out, "Usage: %s %s [options]%s\n\n", name, verb, restargs)
		command.Summary(out)
		cli.printGroups(out)
	}
	return cli
}

func (cli *CLI) Group(name string) {
	if !slices.Contains(groupOrder, name) {
		panic(fmt.Sprintf("Unknown group %s", name))
	}
	cli.currentGroup = name
}

func (cli *CLI) BoolVar(v *bool, name string, def bool, usage string) {
	cli.tag(name)
	cli.FlagSet.BoolVar(v, name, def, usage)
}

func (cli *CLI) IntVar(v *int, name string, def int, usage string) {
	cli.tag(name)
	cli.FlagSet.IntVar(v, name, def, usage)
}

func (cli *CLI) DurationVar(v *time.Duration, name string, def time.Duration, usage string) {
	cli.tag(name)
	cli.FlagSet.DurationVar(v, name, def, usage)
}

func (cli *CLI) StringVar(v *string, name string, def string, usage string) {
	cli.tag(name)
	cli.FlagSet.StringVar(v, name, def, usage)
}

func (cli *CLI) Var(value flag.Value, name string, usage string) {
	cli.tag(name)
	cli.FlagSet.Var(value, name, usage)
}

func (cli *CLI) tag(option string) {
	if cli.currentGroup == "" {
		panic(fmt.Sprintf("No option group set when registering option %s", option))
	}
	if g := cli.groupForOption[option]; g != "" {
		panic(fmt.Sprintf("Multiple groups for option %s: %s and %s", option, g, cli.currentGroup))
	}
	cli.groupForOption[option] = cli.currentGroup
}

// Print the options group by group, each group sorted by option name, in the layout of
// flag.PrintDefaults.

func (cli *CLI) printGroups(out io.Writer) {
	byGroup := make(map[string][]*flag.Flag)
	cli.FlagSet.VisitAll(func(f *flag.Flag) {
		g := cli.groupForOption[f.Name]
		if g == "" {
			panic(fmt.Sprintf("No group for option %s", f.Name))
		}
		byGroup[g] = append(byGroup[g], f)
	})
	for _, g := range groupOrder {
		if len(byGroup[g]) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s options:\n\n", g)
		for _, f := range byGroup[g] {
			printOption(out, f)
		}
	}
}

func printOption(out io.Writer, f *flag.Flag) {
	var b strings.Builder
	b.WriteString("  -")
	b.WriteString(f.Name)
	argname, usage := flag.UnquoteUsage(f)
	if argname != "" {
		b.WriteByte(' ')
		b.WriteString(argname)
	}
	// Short boolean options get their usage on the same line
	if b.Len() <= 4 {
		b.WriteByte('\t')
	} else {
		b.WriteString("\n    \t")
	}
	b.WriteString(strings.ReplaceAll(usage, "\n", "\n    \t"))
	switch f.DefValue {
	case "", "0", "false", "[]":
	default:
		fmt.Fprintf(&b, " (default %v)", f.DefValue)
	}
	fmt.Fprintln(out, b.String())
}
