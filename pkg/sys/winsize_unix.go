//go:build unix

package sys

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Size used when neither the terminal nor the environment knows better.
const (
	DefaultRows = 24
	DefaultCols = 80
)

func winSize(file *os.File) (row, col int) {
	ws, err := unix.IoctlGetWinsize(int(file.Fd()), unix.TIOCGWINSZ)
	if err == nil {
		row, col = int(ws.Row), int(ws.Col)
	}
	// Serial consoles and pipes report no size.
	if row <= 0 {
		row = envSize("LINES", DefaultRows)
	}
	if col <= 0 {
		col = envSize("COLUMNS", DefaultCols)
	}
	return row, col
}

func envSize(name string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil && n > 0 {
		return n
	}
	return fallback
}
