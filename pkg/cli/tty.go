package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/rsify/jay/pkg/cli/term"
	"github.com/rsify/jay/pkg/sys"
)

// TTY is the type the terminal dependency of the editor needs to satisfy.
type TTY interface {
	// Setup sets up the terminal for the prompt, putting it into raw mode.
	//
	// This method returns a restore function that undoes the setup, and any
	// error during setup. It only returns fatal errors that make the terminal
	// unsuitable for later operations.
	//
	// This method should be called before any other method is called.
	Setup() (restore func(), err error)
	// SetRawInput turns raw mode off or back on between Setup and the call to
	// the restore function.
	SetRawInput(raw bool) error
	// Suspend stops the process until it is continued by job control.
	Suspend() error

	// ReadEvent reads a terminal event.
	ReadEvent() (term.Event, error)
	// CloseReader releases resources allocated for reading terminal events.
	// An outstanding ReadEvent returns term.ErrStopped.
	CloseReader()

	// NotifySignals start relaying the signals that affect the prompt (window
	// size changes and job control resumption) and returns a channel on which
	// they are delivered.
	NotifySignals() <-chan os.Signal
	// StopSignals stops the relaying of signals. After this function returns,
	// the channel returned by NotifySignals will no longer deliver signals.
	StopSignals()

	// Size returns the height and width of the terminal.
	Size() (h, w int)

	// UpdateFrame redraws the prompt area. See term.Writer.
	UpdateFrame(f *term.Frame, final bool) error
	// ResetFrame forgets the frame drawn last.
	ResetFrame()
	// ClearScreen clears the terminal screen.
	ClearScreen()
}

type aTTY struct {
	in, out *os.File
	w       term.Writer
	sigCh   chan os.Signal

	rMutex sync.Mutex
	r      term.Reader

	rawMutex sync.Mutex
	restore  func() error
}

// NewTTY returns a new TTY from input and output terminal files.
func NewTTY(in, out *os.File) TTY {
	return &aTTY{in: in, out: out, w: term.NewWriter(out)}
}

func (t *aTTY) Setup() (func(), error) {
	if err := t.SetRawInput(true); err != nil {
		return nil, err
	}
	r, err := term.NewReader(t.in)
	if err != nil {
		t.SetRawInput(false)
		return nil, err
	}
	t.rMutex.Lock()
	t.r = r
	t.rMutex.Unlock()
	return func() {
		if err := t.SetRawInput(false); err != nil {
			fmt.Fprintln(t.out, "failed to restore terminal properties:", err)
		}
	}, nil
}

func (t *aTTY) SetRawInput(raw bool) error {
	t.rawMutex.Lock()
	defer t.rawMutex.Unlock()
	if raw && t.restore == nil {
		restore, err := term.Setup(t.in)
		if err != nil {
			return err
		}
		t.restore = restore
	} else if !raw && t.restore != nil {
		err := t.restore()
		t.restore = nil
		return err
	}
	return nil
}

func (t *aTTY) Suspend() error {
	return sys.Suspend()
}

func (t *aTTY) Size() (h, w int) {
	return sys.WinSize(t.out)
}

func (t *aTTY) ReadEvent() (term.Event, error) {
	t.rMutex.Lock()
	r := t.r
	t.rMutex.Unlock()
	if r == nil {
		return nil, term.ErrStopped
	}
	return r.ReadEvent()
}

func (t *aTTY) CloseReader() {
	t.rMutex.Lock()
	r := t.r
	t.r = nil
	t.rMutex.Unlock()
	if r != nil {
		r.Close()
	}
}

func (t *aTTY) UpdateFrame(f *term.Frame, final bool) error {
	_, width := t.Size()
	return t.w.UpdateFrame(f, width, final)
}

func (t *aTTY) ResetFrame() {
	t.w.ResetFrame()
}

func (t *aTTY) ClearScreen() {
	t.w.ClearScreen()
}

func (t *aTTY) NotifySignals() <-chan os.Signal {
	t.sigCh = sys.NotifySignals(sys.SIGWINCH, sys.SIGCONT)
	return t.sigCh
}

func (t *aTTY) StopSignals() {
	sys.StopSignals(t.sigCh)
	t.sigCh = nil
}
