// Package clitest provides utilities for testing the prompt without a
// terminal.
package clitest

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/rsify/jay/pkg/cli"
	"github.com/rsify/jay/pkg/cli/term"
	"github.com/rsify/jay/pkg/testutil"
)

const (
	// Maximum number of frames FakeTTY expect to see.
	fakeTTYFrames = 4096
	// Maximum number of events FakeTTY produces in one session.
	fakeTTYEvents = 4096
	// Maximum number of signals FakeTTY produces in one session.
	fakeTTYSignals = 4096
)

// Initial size of fake TTY.
const (
	FakeTTYHeight = 20
	FakeTTYWidth  = 50
)

// Frame is a frame drawn on the fake terminal.
type Frame struct {
	Line   string
	Cursor int
	Rows   []string
	Final  bool
}

// An implementation of the cli.TTY interface that is useful in tests.
type fakeTTY struct {
	mutex sync.Mutex

	setup func() (func(), error)
	// Events queued for the sessions to come, one batch per call to Setup.
	queued [][]term.Event
	// Channel ReadEvent reads from.
	eventCh chan term.Event
	// Closed by CloseReader, recreated by Setup.
	stopCh chan struct{}
	// Channel that NotifySignals returns, recreated by each call.
	sigCh chan os.Signal

	frameCh chan Frame
	frames  []Frame

	raw       []bool
	resets    int
	cleared   int
	suspended int

	height, width int
}

// NewFakeTTY creates a new FakeTTY and a handle for controlling it. The initial
// size of the terminal is FakeTTYHeight and FakeTTYWidth.
func NewFakeTTY() (cli.TTY, TTYCtrl) {
	tty := &fakeTTY{
		eventCh: make(chan term.Event, fakeTTYEvents),
		stopCh:  make(chan struct{}),
		frameCh: make(chan Frame, fakeTTYFrames),
		height:  FakeTTYHeight, width: FakeTTYWidth,
	}
	return tty, TTYCtrl{tty}
}

// Setup starts a new session. The next batch of queued events is appended to
// the events to read. It then delegates to the setup function specified using the
// SetSetup method of TTYCtrl, or returns a nop function and a nil error.
func (t *fakeTTY) Setup() (func(), error) {
	t.mutex.Lock()
	t.stopCh = make(chan struct{})
	if len(t.queued) > 0 {
		for _, event := range t.queued[0] {
			t.eventCh <- event
		}
		t.queued = t.queued[1:]
	}
	setup := t.setup
	t.mutex.Unlock()

	if setup == nil {
		return func() {}, nil
	}
	return setup()
}

func (t *fakeTTY) SetRawInput(raw bool) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.raw = append(t.raw, raw)
	return nil
}

func (t *fakeTTY) Suspend() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.suspended++
	return nil
}

// Returns the next injected event, or term.ErrStopped after CloseReader.
func (t *fakeTTY) ReadEvent() (term.Event, error) {
	t.mutex.Lock()
	eventCh, stopCh := t.eventCh, t.stopCh
	t.mutex.Unlock()
	select {
	case <-stopCh:
		return nil, term.ErrStopped
	default:
	}
	select {
	case event := <-eventCh:
		return event, nil
	case <-stopCh:
		return nil, term.ErrStopped
	}
}

func (t *fakeTTY) CloseReader() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	select {
	case <-t.stopCh:
	default:
		close(t.stopCh)
	}
}

func (t *fakeTTY) NotifySignals() <-chan os.Signal {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.sigCh = make(chan os.Signal, fakeTTYSignals)
	return t.sigCh
}

func (t *fakeTTY) StopSignals() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.sigCh != nil {
		close(t.sigCh)
		t.sigCh = nil
	}
}

// Returns the size specified by using the SetSize method of TTYCtrl.
func (t *fakeTTY) Size() (h, w int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.height, t.width
}

// Records the frame.
func (t *fakeTTY) UpdateFrame(f *term.Frame, final bool) error {
	frame := Frame{Line: f.Line, Cursor: f.Cursor, Rows: f.Rows, Final: final}
	t.mutex.Lock()
	t.frames = append(t.frames, frame)
	t.mutex.Unlock()
	t.frameCh <- frame
	return nil
}

func (t *fakeTTY) ResetFrame() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.resets++
}

func (t *fakeTTY) ClearScreen() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.cleared++
}

// TTYCtrl is an interface for controlling a fake terminal.
type TTYCtrl struct{ *fakeTTY }

// GetTTYCtrl takes a TTY and returns a TTYCtrl and true, if the TTY is a fake
// terminal. Otherwise it returns an invalid TTYCtrl and false.
func GetTTYCtrl(t cli.TTY) (TTYCtrl, bool) {
	fake, ok := t.(*fakeTTY)
	return TTYCtrl{fake}, ok
}

// SetSetup sets the return values of the Setup method of the fake terminal.
func (t TTYCtrl) SetSetup(restore func(), err error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.setup = func() (func(), error) {
		return restore, err
	}
}

// SetSize sets the size of the fake terminal.
func (t TTYCtrl) SetSize(h, w int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.height, t.width = h, w
}

// Inject injects events into the current session.
func (t TTYCtrl) Inject(events ...term.Event) {
	t.mutex.Lock()
	eventCh := t.eventCh
	t.mutex.Unlock()
	for _, event := range events {
		eventCh <- event
	}
}

// Queue queues events for a session that has not started yet. Each call
// queues one batch, delivered by the next call to Setup that has not
// received a batch.
func (t TTYCtrl) Queue(events ...term.Event) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.queued = append(t.queued, events)
}

// InjectSignal injects signals into the current session. Signals injected
// when no session is listening are dropped.
func (t TTYCtrl) InjectSignal(sigs ...os.Signal) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.sigCh == nil {
		return
	}
	for _, sig := range sigs {
		t.sigCh <- sig
	}
}

// RawInput returns the arguments of all calls to SetRawInput.
func (t TTYCtrl) RawInput() []bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]bool(nil), t.raw...)
}

// Suspended returns the number of times Suspend has been called.
func (t TTYCtrl) Suspended() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.suspended
}

// FrameResets returns the number of times ResetFrame has been called.
func (t TTYCtrl) FrameResets() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.resets
}

// ScreenCleared returns the number of times ClearScreen has been called.
func (t TTYCtrl) ScreenCleared() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.cleared
}

// Frames returns all frames drawn so far.
func (t TTYCtrl) Frames() []Frame {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return append([]Frame(nil), t.frames...)
}

// LastFrame returns the frame drawn last, or nil.
func (t TTYCtrl) LastFrame() *Frame {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.frames) == 0 {
		return nil
	}
	f := t.frames[len(t.frames)-1]
	return &f
}

// TestFrame verifies that the given frame will be drawn within a second, and
// aborts the test if it isn't. Frames drawn before are consumed.
func (t TTYCtrl) TestFrame(tt *testing.T, want Frame) {
	tt.Helper()
	timeout := time.After(testutil.Scaled(time.Second))
	for {
		select {
		case f := <-t.frameCh:
			if cmp.Equal(f, want) {
				return
			}
		case <-timeout:
			tt.Errorf("wanted frame not drawn: %#v", want)
			if last := t.LastFrame(); last != nil {
				tt.Logf("last frame: %#v", *last)
			}
			tt.FailNow()
		}
	}
}

// TestLine is like TestFrame, but only checks the line and cursor of
// non-final frames.
func (t TTYCtrl) TestLine(tt *testing.T, line string, cursor int) {
	tt.Helper()
	timeout := time.After(testutil.Scaled(time.Second))
	for {
		select {
		case f := <-t.frameCh:
			if !f.Final && f.Line == line && f.Cursor == cursor {
				return
			}
		case <-timeout:
			tt.Errorf("wanted line %q with cursor %d not drawn", line, cursor)
			if last := t.LastFrame(); last != nil {
				tt.Logf("last frame: %#v", *last)
			}
			tt.FailNow()
		}
	}
}
