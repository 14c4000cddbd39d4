package cli

import (
	"strings"

	"github.com/rsify/jay/pkg/complete"
	"github.com/rsify/jay/pkg/scroll"
)

// Completion follows the line as it is edited. After every keypress that
// leaves a non-empty line, the provider is queried again if the line or the
// dot moved since the last query. The first candidate is shown as ghost text
// after the dot until Tab opens the menu, which then cycles through the
// candidates, replacing the inserted remainder each time.

func (s *Session) clearCompletions() {
	s.menu = nil
	s.items = nil
	s.completee = ""
	s.queried = false
}

func (s *Session) updateCompletions() {
	if s.buf.Content == "" {
		s.clearCompletions()
		return
	}
	if s.queried && s.queryLine == s.buf.Content && s.queryDot == s.buf.Dot {
		return
	}
	s.queried, s.queryLine, s.queryDot = true, s.buf.Content, s.buf.Dot
	s.items, s.completee = nil, ""
	if s.ed.completer == nil {
		return
	}
	result, err := s.ed.completer.Complete(s.ctx, s.buf.Content, s.buf.Dot)
	if err != nil {
		logger.Println("completion failed:", err)
		return
	}
	s.items = result.Flatten()
	s.completee = result.Completee
}

// selected returns the candidate selected in the menu, or nil.
func (s *Session) selected() *complete.Candidate {
	if s.menu == nil || s.menu.Selected < 0 || s.menu.Selected >= len(s.items) {
		return nil
	}
	return &s.items[s.menu.Selected]
}

// remainder returns the part of a candidate that is not typed yet.
func (s *Session) remainder(c *complete.Candidate) string {
	if c == nil {
		return ""
	}
	return strings.TrimPrefix(c.Text, s.completee)
}

func (s *Session) cycleCompletion(backward bool) {
	if len(s.items) == 0 {
		return
	}
	if s.menu == nil {
		w := scroll.New(len(s.items), s.ed.menuHeight)
		s.menu = &w
	}
	if prev := s.remainder(s.selected()); prev != "" {
		if !s.buf.DeleteBeforeDot(prev) {
			logger.Printf("inserted completion %q no longer before dot", prev)
		}
	}
	var next scroll.Window
	if backward {
		next = s.menu.Previous()
	} else {
		next = s.menu.Next()
	}
	s.menu = &next
	s.buf.InsertAtDot(s.remainder(s.selected()))
}

// Ghost returns the text shown after the dot as a hint, if any. Render
// handlers that fill the line up to the terminal width leave room for it.
func (s *Session) Ghost() string {
	if s.stopping || len(s.items) == 0 {
		return ""
	}
	if s.menu != nil && s.menu.Selected != -1 {
		return ""
	}
	if !strings.HasPrefix(s.items[0].Text, s.completee) {
		return ""
	}
	return s.items[0].Text[len(s.completee):]
}
