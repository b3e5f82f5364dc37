package cmd

import (
	"context"
	"io"

	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/table"
)

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Interfaces that the various commands can implement to respond to various situations.

type FormatHelpAPI interface {
	// If the command accepts a -fmt argument and the value of that argument is "help", return a
	// non-nil object here with formatter help.
	MaybeFormatHelp() *table.FormatHelp
}

type SetRestArgumentsAPI interface {
	// Install any left-over arguments into the arguments object
	SetRestArguments(args []string)
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Any command of any type must be able to define and validate command line args, and handle some
// developer arguments.

type Command interface {
	// Return the name of the cpu profile file, if requested
	CpuProfileFile() string

	// Documentation, with formatting and line breaks
	Summary(out io.Writer)

	// Add all arguments including shared arguments
	Add(fs *CLI)

	// Validate all arguments including shared arguments
	Validate() error

	// The -v flag
	VerboseFlag() bool
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// A command that handles its own logic completely, without a loaded dataset.

type PrimitiveCommand interface {
	Command

	Perform(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// A command that runs against the dataset named by its SourceArgs.  The store has been loaded
// before Perform is called.

type DatasetCommand interface {
	Command

	SourceFlags() *SourceArgs

	Perform(ctx context.Context, store *db.Store, stdout, stderr io.Writer) error
}
