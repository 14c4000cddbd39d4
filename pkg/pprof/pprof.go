// Package pprof adds CPU profiling to jay.
package pprof

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rsify/jay/pkg/prog"
)

// Wrap returns a Program that runs p, writing a CPU profile of the run to the
// file given with -cpuprofile. Failing to profile is only a warning.
func Wrap(p prog.Program) prog.Program { return program{p} }

type program struct{ next prog.Program }

func (p program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if f.CPUProfile != "" {
		if stop, err := startCPUProfile(f.CPUProfile); err != nil {
			fmt.Fprintln(fds[2], "warning: cannot create CPU profile:", err)
		} else {
			defer stop()
		}
	}
	return p.next.Run(fds, f, args)
}

func startCPUProfile(path string) (func(), error) {
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(out); err != nil {
		out.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		out.Close()
	}, nil
}
