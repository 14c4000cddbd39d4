// Package storedefs defines the history store API, so that users of the API
// need not depend on bbolt.
package storedefs

import "errors"

// ErrNoMatchingCmd is returned when a NextCmd or PrevCmd query finds nothing.
var ErrNoMatchingCmd = errors.New("no matching command line")

// Store keeps lines entered at the prompt, oldest first. Each line gets a
// sequence number one higher than the line before it; numbers of lines
// dropped to respect a size limit are not reused.
type Store interface {
	// NextCmdSeq returns the sequence number the next added line will get.
	NextCmdSeq() (int, error)
	// AddCmd adds a line and returns its sequence number.
	AddCmd(text string) (int, error)
	// Cmds returns all the lines kept.
	Cmds() ([]Cmd, error)
	// NextCmd finds the first line with the given prefix whose sequence number
	// is at least from.
	NextCmd(from int, prefix string) (Cmd, error)
	// PrevCmd finds the last line with the given prefix whose sequence number
	// is less than upto.
	PrevCmd(upto int, prefix string) (Cmd, error)
}

// Cmd is a line in the history.
type Cmd struct {
	Text string
	Seq  int
}
