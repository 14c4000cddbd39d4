package plugins

import (
	"strings"
	"unicode"

	"github.com/rsify/jay/pkg/cli"
	"github.com/rsify/jay/pkg/cli/codebuf"
	"github.com/rsify/jay/pkg/cli/histutil"
	"github.com/rsify/jay/pkg/cli/term"
)

// Ctrl binds Ctrl-D to exit, Ctrl-C to abandon the line, Ctrl-L to clear the
// screen and Ctrl-Z to suspend.
func Ctrl(h *Host) {
	onKey(h, func(s *cli.Session, kp term.Keypress) (bool, error) {
		if !kp.Ctrl || kp.Meta {
			return false, nil
		}
		switch kp.Name {
		case "d":
			s.Resolve(cli.Exit)
		case "c":
			s.Resolve(cli.Abort)
		case "l":
			s.ClearScreen()
		case "z":
			return true, s.Suspend()
		default:
			return false, nil
		}
		return true, nil
	})
}

var pairs = map[rune]rune{
	'\'': '\'',
	'"':  '"',
	'`':  '`',
	'(':  ')',
	'{':  '}',
	'[':  ']',
}

func isCloser(r rune) bool {
	for _, closer := range pairs {
		if r == closer {
			return true
		}
	}
	return false
}

// Pairs inserts the closing character along with an opening one, types over a
// closing character right after the dot, and deletes both characters of an
// empty pair on backspace.
func Pairs(h *Host) {
	onKey(h, func(s *cli.Session, kp term.Keypress) (bool, error) {
		if kp.Ctrl || kp.Meta {
			return false, nil
		}
		handled := false
		s.MutateBuffer(func(buf *codebuf.Buffer) {
			if kp.Name == "backspace" {
				before, ok1 := buf.RuneBefore()
				after, ok2 := buf.RuneAfter()
				if ok1 && ok2 && pairs[before] == after && pairs[before] != 0 {
					buf.DeleteForward()
					buf.DeleteBackward()
					handled = true
				}
				return
			}
			r, ok := singleRune(kp.Sequence)
			if !ok {
				return
			}
			if after, ok := buf.RuneAfter(); ok && isCloser(r) && after == r {
				buf.MoveRight()
				handled = true
			} else if closer, ok := pairs[r]; ok {
				buf.InsertAtDot(string(r) + string(closer))
				buf.MoveLeft()
				handled = true
			}
		})
		return handled, nil
	})
}

func singleRune(s string) (rune, bool) {
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, false
	}
	return rs[0], true
}

// HistoryWalk binds Up and Down to walk the history entries starting with the
// text typed before the walk started. Walking down past the newest entry
// restores that text. Any other key ends the walk.
func HistoryWalk(h *Host) {
	var (
		session  *cli.Session
		walker   histutil.Walker
		original string
	)
	onKey(h, func(s *cli.Session, kp term.Keypress) (bool, error) {
		if s != session {
			session, walker = s, nil
		}
		if kp.Ctrl || kp.Meta || kp.Shift || (kp.Name != "up" && kp.Name != "down") {
			walker = nil
			return false, nil
		}
		if kp.Name == "up" {
			if walker == nil {
				original = s.Buffer().Content
				walker = histutil.NewWalker(h.History, original)
			}
			if err := walker.Prev(); err != nil {
				logger.Println("history walk:", err)
				return true, nil
			}
			setLine(s, walker.CurrentCmd())
			return true, nil
		}
		if walker == nil {
			return false, nil
		}
		if err := walker.Next(); err != nil {
			setLine(s, original)
			walker = nil
			return true, nil
		}
		setLine(s, walker.CurrentCmd())
		return true, nil
	})
}

func setLine(s *cli.Session, line string) {
	s.MutateBuffer(func(buf *codebuf.Buffer) {
		*buf = codebuf.Buffer{Content: line, Dot: len(line)}
	})
}

// Return binds Enter to submit the line.
func Return(h *Host) {
	onKey(h, func(s *cli.Session, kp term.Keypress) (bool, error) {
		if kp.Name != "return" || kp.Ctrl || kp.Meta {
			return false, nil
		}
		s.Resolve(cli.Line)
		return true, nil
	})
}

// ReadlineInput applies every key that reaches it to the line as a line
// editor would: printable keys are inserted, and the usual movement and
// deletion keys edit. The chain always stops here.
func ReadlineInput(h *Host) {
	onKey(h, func(s *cli.Session, kp term.Keypress) (bool, error) {
		s.MutateBuffer(func(buf *codebuf.Buffer) { applyKey(buf, kp) })
		return true, nil
	})
}

func applyKey(buf *codebuf.Buffer, kp term.Keypress) {
	switch {
	case kp.Ctrl:
		switch kp.Name {
		case "a":
			buf.MoveHome()
		case "e":
			buf.MoveEnd()
		case "b":
			buf.MoveLeft()
		case "f":
			buf.MoveRight()
		case "h":
			buf.DeleteBackward()
		case "u":
			buf.KillLineLeft()
		case "k":
			buf.KillLineRight()
		case "w":
			buf.KillWordLeft()
		case "left":
			buf.MoveWordLeft()
		case "right":
			buf.MoveWordRight()
		}
	case kp.Meta:
		switch kp.Name {
		case "b", "left":
			buf.MoveWordLeft()
		case "f", "right":
			buf.MoveWordRight()
		case "backspace":
			buf.KillWordLeft()
		}
	default:
		switch kp.Name {
		case "backspace":
			buf.DeleteBackward()
		case "delete":
			buf.DeleteForward()
		case "left":
			buf.MoveLeft()
		case "right":
			buf.MoveRight()
		case "home":
			buf.MoveHome()
		case "end":
			buf.MoveEnd()
		default:
			if isPrintable(kp.Sequence) {
				buf.InsertAtDot(kp.Sequence)
			}
		}
	}
}

func isPrintable(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsPrint(r) }) == -1
}
