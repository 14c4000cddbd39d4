// Package term decodes key events from a terminal and draws the prompt frame
// on it.
package term

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/rsify/jay/pkg/logutil"
)

var logger = logutil.GetLogger("[cli/term] ")

// Event is a terminal event.
type Event interface{ isEvent() }

// KeyEvent is a key press, along with the raw bytes it was decoded from.
type KeyEvent struct {
	Key
	Seq string
}

// NonfatalErrorEvent represents an error that can be gradually recovered.
type NonfatalErrorEvent struct{ Err error }

// FatalErrorEvent represents an error that affects the Reader's ability to
// continue reading events.
type FatalErrorEvent struct{ Err error }

func (KeyEvent) isEvent()           {}
func (NonfatalErrorEvent) isEvent() {}
func (FatalErrorEvent) isEvent()    {}

// Keypress returns the description of the key handed to keypress handlers.
func (ev KeyEvent) Keypress() Keypress { return ev.Key.Keypress(ev.Seq) }

// Reader reads events from the terminal.
type Reader interface {
	// ReadEvent reads a single event from the terminal.
	ReadEvent() (Event, error)
	// Close releases resources associated with the Reader. Any outstanding
	// ReadEvent call will be aborted, returning ErrStopped.
	Close()
}

// ErrStopped is returned by Reader when Close is called during a ReadEvent
// call.
var ErrStopped = errors.New("stopped")

var errTimeout = errors.New("timed out")

type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

// NewReader creates a new Reader on the given terminal file.
func NewReader(f *os.File) (Reader, error) {
	return newReader(f)
}

// IsReadErrorRecoverable returns whether an error returned by Reader is
// recoverable.
func IsReadErrorRecoverable(err error) bool {
	if _, ok := err.(seqError); ok {
		return true
	}
	return err == ErrStopped || err == errTimeout
}

type byteReaderWithTimeout interface {
	// ReadByteWithTimeout reads a single byte with a timeout. A negative
	// timeout means no timeout.
	ReadByteWithTimeout(timeout time.Duration) (byte, error)
}

// Reads a rune encoded in UTF-8. Each byte is read with the given timeout.
func readRune(rd byteReaderWithTimeout, timeout time.Duration) (rune, error) {
	leader, err := rd.ReadByteWithTimeout(timeout)
	if err != nil {
		return utf8.RuneError, err
	}
	var r rune
	pending := 0
	switch {
	case leader>>7 == 0:
		r = rune(leader)
	case leader>>5 == 0x6:
		r = rune(leader & 0x1f)
		pending = 1
	case leader>>4 == 0xe:
		r = rune(leader & 0xf)
		pending = 2
	case leader>>3 == 0x1e:
		r = rune(leader & 0x7)
		pending = 3
	default:
		return utf8.RuneError, nil
	}
	for i := 0; i < pending; i++ {
		b, err := rd.ReadByteWithTimeout(timeout)
		if err != nil {
			return utf8.RuneError, err
		}
		r = r<<6 + rune(b&0x3f)
	}
	return r, nil
}
