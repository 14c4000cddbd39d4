// Package sys provides the system utilities the prompt needs from a Unix
// terminal.
package sys

import (
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
)

const sigsChanBufferSize = 256

// NotifySignals returns a channel on which the given signals get delivered.
// Delivery stops after StopSignals is called with the channel.
func NotifySignals(sigs ...os.Signal) chan os.Signal {
	sigCh := make(chan os.Signal, sigsChanBufferSize)
	signal.Notify(sigCh, sigs...)
	return sigCh
}

// StopSignals stops the delivery of signals to a channel returned by
// NotifySignals, and closes it.
func StopSignals(sigCh chan os.Signal) {
	signal.Stop(sigCh)
	close(sigCh)
}

// WinSize queries the size of the terminal referenced by the given file. When
// the file is not a terminal, $LINES and $COLUMNS are used, then 24x80.
func WinSize(file *os.File) (row, col int) { return winSize(file) }

// IsATTY determines whether the given file is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
