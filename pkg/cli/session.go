package cli

import (
	"context"
	"os"
	"sync"

	"github.com/rsify/jay/pkg/cli/codebuf"
	"github.com/rsify/jay/pkg/cli/term"
	"github.com/rsify/jay/pkg/complete"
	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/plugger"
	"github.com/rsify/jay/pkg/scroll"
	"github.com/rsify/jay/pkg/sys"
)

// Session is one prompt session, from the start of Editor.ReadLine to the
// outcome it returns.
//
// The methods of Session must only be called from keypress and render
// handlers, which all run on the goroutine of the session.
type Session struct {
	ed  *Editor
	ctx context.Context
	lp  *loop

	buf codebuf.Buffer

	// Completion state.
	items     []complete.Candidate
	completee string
	queried   bool
	queryLine string
	queryDot  int
	menu      *scroll.Window

	stopping  bool
	suspended bool
	lastFrame *term.Frame
}

func newSession(ctx context.Context, ed *Editor) *Session {
	s := &Session{ed: ed, ctx: ctx, lp: newLoop()}
	s.lp.HandleCb(s.handle)
	s.lp.RedrawCb(s.redraw)
	return s
}

// Buffer returns the line being edited.
func (s *Session) Buffer() codebuf.Buffer { return s.buf }

// MutateBuffer calls f with a pointer to the line being edited.
func (s *Session) MutateBuffer(f func(*codebuf.Buffer)) { f(&s.buf) }

// Resolve ends the session with the given kind of outcome, carrying the
// current content of the buffer. Only the first call takes effect. The final
// frame is drawn before ReadLine returns.
func (s *Session) Resolve(kind OutcomeKind) {
	s.lp.Return(Outcome{Kind: kind, Line: s.buf.Content}, nil)
}

// Stopping returns whether the frame being rendered is the final one. Render
// handlers use it to leave out transient decorations.
func (s *Session) Stopping() bool { return s.stopping }

// ClearScreen clears the terminal. The prompt is redrawn at the top.
func (s *Session) ClearScreen() {
	s.ed.tty.ClearScreen()
}

// Suspend draws the current frame as final, leaves raw mode and stops the
// process. When the process is continued, raw mode is restored and the prompt
// is drawn again.
func (s *Session) Suspend() error {
	tty := s.ed.tty
	frame, err := s.render()
	if err != nil {
		return err
	}
	if err := tty.UpdateFrame(frame, true); err != nil {
		return err
	}
	tty.ResetFrame()
	if err := tty.SetRawInput(false); err != nil {
		return err
	}
	s.suspended = true
	return tty.Suspend()
}

// Redraw requests the prompt to be drawn again after the current event.
func (s *Session) Redraw() { s.lp.Redraw(false) }

func (s *Session) run() (Outcome, error) {
	tty := s.ed.tty
	restore, err := tty.Setup()
	if err != nil {
		return Outcome{}, err
	}
	defer restore()

	var wg sync.WaitGroup
	defer wg.Wait()

	sigCh := tty.NotifySignals()
	defer tty.StopSignals()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for sig := range sigCh {
			s.lp.Input(sig)
		}
	}()

	defer tty.CloseReader()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			event, err := tty.ReadEvent()
			if err == nil {
				s.lp.Input(event)
			} else if err == term.ErrStopped {
				return
			} else if term.IsReadErrorRecoverable(err) {
				s.lp.Input(term.NonfatalErrorEvent{Err: err})
			} else {
				s.lp.Input(term.FatalErrorEvent{Err: err})
				return
			}
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.ctx.Done():
			s.lp.Return(Outcome{}, s.ctx.Err())
		case <-done:
		}
	}()

	return s.lp.Run()
}

func (s *Session) handle(ev event) {
	switch ev := ev.(type) {
	case term.KeyEvent:
		s.handleKey(ev.Keypress())
	case term.NonfatalErrorEvent:
		logger.Println("nonfatal error reading terminal:", ev.Err)
	case term.FatalErrorEvent:
		s.lp.Return(Outcome{}, ev.Err)
	case os.Signal:
		s.handleSignal(ev)
	}
}

func (s *Session) handleSignal(sig os.Signal) {
	logger.Println("signal", sig)
	switch sig {
	case sys.SIGCONT:
		if err := s.ed.tty.SetRawInput(true); err != nil {
			s.lp.Return(Outcome{}, err)
			return
		}
		s.ed.tty.ResetFrame()
		s.suspended = false
	case sys.SIGWINCH:
		// The redraw after every event picks up the new size.
	}
}

func (s *Session) handleKey(kp term.Keypress) {
	defer logutil.Timer(logger, "keypress "+kp.String())()
	// Escape and Tab drive the completion menu and never reach KeypressEvent
	// handlers.
	if kp.Name == "escape" {
		s.clearCompletions()
		return
	}
	if kp.Name == "tab" && !kp.Ctrl && !kp.Meta {
		s.cycleCompletion(kp.Shift)
		return
	}
	if _, err := plugger.Dispatch(s.ctx, s.ed.bus, KeypressEvent, kp); err != nil {
		s.lp.Return(Outcome{}, err)
		return
	}
	if s.lp.HasReturned() {
		return
	}
	s.menu = nil
	s.updateCompletions()
}
