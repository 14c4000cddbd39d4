// Package prog provides the entry point of jay. It parses the command-line
// flags, sets up logging and runs the appropriate subprogram.
package prog

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rsify/jay/pkg/logutil"
)

// LogEnv names the environment variable that sets the debug log file when
// -log is not given.
const LogEnv = "JAY_LOG"

// Flags keeps command-line flags.
type Flags struct {
	Log string

	Help, Version bool

	NoRc bool
	RC   string

	LSP bool

	CPUProfile string
}

func newFlagSet(f *Flags) *flag.FlagSet {
	fs := flag.NewFlagSet("jay", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.Log, "log", "", "a file to write debug log to; defaults to $"+LogEnv)

	fs.BoolVar(&f.Help, "help", false, "show usage help and quit")
	fs.BoolVar(&f.Version, "version", false, "show version and quit")

	fs.BoolVar(&f.NoRc, "norc", false, "run jay without reading the configuration file")
	fs.StringVar(&f.RC, "rc", "", "path to the configuration file")

	fs.BoolVar(&f.LSP, "lsp", false, "run the language server instead of the prompt")

	fs.StringVar(&f.CPUProfile, "cpuprofile", "", "write a CPU profile to the file")

	return fs
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: jay [flags]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags and runs the first applicable subprogram. It
// returns the exit status of the program.
func Run(fds [3]*os.File, args []string, p Program) int {
	f := &Flags{}
	fs := newFlagSet(f)
	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// Parse returns ErrHelp when -h was requested; only -help is
			// defined.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if f.Log == "" {
		f.Log = os.Getenv(LogEnv)
	}
	if f.Log != "" {
		err = logutil.SetOutputFile(f.Log)
		if err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	if f.Help {
		usage(fds[1], fs)
		return 0
	}

	err = p.Run(fds, f, fs.Args())
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(fds[2], msg)
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
		return 2
	case exitError:
		return err.exit
	}
	if err == ErrNotSuitable {
		return 2
	}
	return 1
}

// Composite returns a Program that tries each of the given programs,
// terminating at the first one that doesn't return ErrNotSuitable.
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) Run(fds [3]*os.File, f *Flags, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, f, args)
		if err != ErrNotSuitable {
			return err
		}
	}
	return ErrNotSuitable
}

// ErrNotSuitable may be returned by Program.Run to signify that this Program
// should not be run. It is useful when a Program is used in Composite.
var ErrNotSuitable = errors.New("internal error: no suitable subprogram")

// BadUsage returns an error that causes Run to print the message and the
// usage information, and exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns an error that causes Run to exit with the given code without
// printing any message. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }

// Program represents a subprogram.
type Program interface {
	// Run runs the subprogram.
	Run(fds [3]*os.File, f *Flags, args []string) error
}
