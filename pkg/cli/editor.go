// Package cli implements the interactive prompt: raw keystroke capture, line
// editing, the completion menu and the drawing of the prompt line, with
// plugins hooking in through an event bus.
package cli

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/rsify/jay/pkg/complete"
	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/plugger"
	"github.com/rsify/jay/pkg/sys"
)

var logger = logutil.GetLogger("[cli] ")

// Errors returned by NewEditor and Editor.ReadLine.
var (
	ErrNotTerminal   = errors.New("standard input is not a terminal")
	ErrActiveSession = errors.New("another prompt session is active")
)

// DefaultMenuHeight is the number of completion candidates shown at once when
// EditorSpec.MenuHeight is not set.
const DefaultMenuHeight = 5

// EditorSpec specifies the configuration of an Editor.
type EditorSpec struct {
	// The terminal. If nil, the editor uses stdin and stdout, which must be a
	// terminal.
	TTY TTY
	// The bus to dispatch events on. If nil, a new bus is created.
	Bus *plugger.Bus
	// Source of completion candidates. If nil, there is no completion.
	Completer complete.Provider
	// Maximum number of rows of the completion menu.
	MenuHeight int
	// Styles of the parts of the prompt drawn by the editor. If nil,
	// DefaultStyles() is used.
	Styles *Styles
}

// Styles are the styles of the parts of the prompt the editor draws itself.
type Styles struct {
	Ghost        lipgloss.Style
	Menu         lipgloss.Style
	MenuSelected lipgloss.Style
	Scrollbar    lipgloss.Style
}

// DefaultStyles returns the default Styles.
func DefaultStyles() *Styles {
	return &Styles{
		Ghost:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Menu:         lipgloss.NewStyle().Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0")),
		MenuSelected: lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("0")),
		Scrollbar:    lipgloss.NewStyle().Background(lipgloss.Color("8")),
	}
}

// Editor reads lines from the terminal, one prompt session at a time.
type Editor struct {
	tty        TTY
	bus        *plugger.Bus
	completer  complete.Provider
	menuHeight int
	styles     *Styles

	mutex  sync.Mutex
	active *Session
}

// NewEditor creates an Editor from the given spec. It fails with
// ErrNotTerminal when no TTY is given and stdin is not a terminal.
func NewEditor(spec EditorSpec) (*Editor, error) {
	if spec.TTY == nil {
		if !sys.IsATTY(os.Stdin.Fd()) {
			return nil, ErrNotTerminal
		}
		spec.TTY = NewTTY(os.Stdin, os.Stdout)
	}
	if spec.Bus == nil {
		spec.Bus = NewBus()
	}
	if spec.MenuHeight <= 0 {
		spec.MenuHeight = DefaultMenuHeight
	}
	if spec.Styles == nil {
		spec.Styles = DefaultStyles()
	}
	return &Editor{
		tty:        spec.TTY,
		bus:        spec.Bus,
		completer:  spec.Completer,
		menuHeight: spec.MenuHeight,
		styles:     spec.Styles,
	}, nil
}

// Bus returns the bus the editor dispatches events on.
func (ed *Editor) Bus() *plugger.Bus { return ed.bus }

// TTY returns the terminal of the editor.
func (ed *Editor) TTY() TTY { return ed.tty }

// Session returns the active prompt session, or nil if there is none.
// Keypress and render handlers use it to act on the line being edited.
func (ed *Editor) Session() *Session {
	ed.mutex.Lock()
	defer ed.mutex.Unlock()
	return ed.active
}

// ReadLine runs one prompt session and returns how it ended. The terminal is
// in raw mode for the duration of the call. Only one call may be active at a
// time; a concurrent call fails with ErrActiveSession.
//
// An error returned by a keypress or render handler ends the session and is
// returned as is.
func (ed *Editor) ReadLine(ctx context.Context) (Outcome, error) {
	ed.mutex.Lock()
	if ed.active != nil {
		ed.mutex.Unlock()
		return Outcome{}, ErrActiveSession
	}
	s := newSession(ctx, ed)
	ed.active = s
	ed.mutex.Unlock()

	defer func() {
		ed.mutex.Lock()
		ed.active = nil
		ed.mutex.Unlock()
	}()
	return s.run()
}
