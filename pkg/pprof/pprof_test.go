package pprof_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rsify/jay/pkg/pprof"
	"github.com/rsify/jay/pkg/prog"
	"github.com/rsify/jay/pkg/prog/progtest"
)

var (
	Test    = progtest.Test
	ThatJay = progtest.ThatJay
)

func TestWrap(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "cpuprof")
	var ran int
	p := pprof.Wrap(programFunc(func() error { ran++; return nil }))

	Test(t, p,
		ThatJay().DoesNothing(),
		ThatJay("-cpuprofile", profile).DoesNothing(),
		ThatJay("-cpuprofile", "/a/bad/path").
			WritesStderrContaining("warning: cannot create CPU profile:"),
	)

	if ran != 3 {
		t.Errorf("wrapped program ran %d times, want 3", ran)
	}
	if _, err := os.Stat(profile); err != nil {
		t.Errorf("CPU profile file does not exist: %v", err)
	}
}

func TestWrap_PassesError(t *testing.T) {
	Test(t, pprof.Wrap(programFunc(func() error { return prog.Exit(3) })),
		ThatJay().ExitsWith(3))
}

type programFunc func() error

func (f programFunc) Run([3]*os.File, *prog.Flags, []string) error { return f() }
