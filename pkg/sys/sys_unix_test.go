//go:build unix

package sys

import (
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/rsify/jay/pkg/must"
	"github.com/rsify/jay/pkg/testutil"
)

func TestWaitForRead(t *testing.T) {
	r0, w0 := must.Pipe()
	r1, w1 := must.Pipe()
	defer closeAll(r0, w0, r1, w1)

	w0.WriteString("x")
	ready, err := WaitForRead(-1, r0, r1)
	if err != nil {
		t.Fatal(err)
	}
	if !ready[0] || ready[1] {
		t.Errorf("got ready %v, want [true false]", ready)
	}

	r0.Read(make([]byte, 1))
	ready, err = WaitForRead(time.Millisecond, r0, r1)
	if err != nil {
		t.Fatal(err)
	}
	if ready[0] || ready[1] {
		t.Errorf("got ready %v after timeout, want [false false]", ready)
	}
}

func TestNotifySignals(t *testing.T) {
	sigCh := NotifySignals(unix.SIGUSR1)
	if err := unix.Kill(unix.Getpid(), unix.SIGUSR1); err != nil {
		t.Skip("cannot send SIGUSR1 to myself:", err)
	}
	if sig := <-sigCh; sig != unix.SIGUSR1 {
		t.Errorf("got signal %v, want SIGUSR1", sig)
	}
	StopSignals(sigCh)
	if _, ok := <-sigCh; ok {
		t.Errorf("channel still open after StopSignals")
	}
}

func TestWinSizeAndIsATTY(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("cannot open pty:", err)
	}
	defer closeAll(ptmx, tty)

	if err := pty.Setsize(ptmx, &pty.Winsize{Rows: 30, Cols: 100}); err != nil {
		t.Fatal(err)
	}
	if row, col := WinSize(tty); row != 30 || col != 100 {
		t.Errorf("WinSize -> (%d, %d), want (30, 100)", row, col)
	}
	if !IsATTY(tty.Fd()) {
		t.Errorf("IsATTY(pty) -> false")
	}

	r, w := must.Pipe()
	defer closeAll(r, w)
	if IsATTY(r.Fd()) {
		t.Errorf("IsATTY(pipe) -> true")
	}
}

func TestWinSize_Fallback(t *testing.T) {
	r, w := must.Pipe()
	defer closeAll(r, w)

	testutil.Unsetenv(t, "LINES")
	testutil.Unsetenv(t, "COLUMNS")
	if row, col := WinSize(r); row != DefaultRows || col != DefaultCols {
		t.Errorf("WinSize(pipe) -> (%d, %d), want (%d, %d)", row, col, DefaultRows, DefaultCols)
	}

	testutil.Setenv(t, "LINES", "40")
	testutil.Setenv(t, "COLUMNS", "x")
	if row, col := WinSize(r); row != 40 || col != DefaultCols {
		t.Errorf("WinSize(pipe) with $LINES=40 -> (%d, %d), want (40, %d)", row, col, DefaultCols)
	}
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		f.Close()
	}
}
