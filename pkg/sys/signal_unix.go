//go:build unix

package sys

import (
	"os"

	"golang.org/x/sys/unix"
)

// Signals the prompt reacts to while it is active.
var (
	SIGWINCH os.Signal = unix.SIGWINCH
	SIGCONT  os.Signal = unix.SIGCONT
)

// Suspend stops the current process with SIGTSTP, as the shell's job control
// would on ^Z. It returns once the process has been continued.
func Suspend() error {
	return unix.Kill(unix.Getpid(), unix.SIGTSTP)
}
