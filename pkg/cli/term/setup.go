package term

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Setup puts the terminal referred to by in into raw mode. It returns a
// function that restores the previous mode.
func Setup(in *os.File) (func() error, error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("cannot enter raw mode: %w", err)
	}
	logger.Println("entered raw mode")
	return func() error {
		logger.Println("leaving raw mode")
		return term.Restore(fd, state)
	}, nil
}
