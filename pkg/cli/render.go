package cli

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/rsify/jay/pkg/cli/term"
	"github.com/rsify/jay/pkg/complete"
	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/plugger"
	"github.com/rsify/jay/pkg/scroll"
)

func (s *Session) redraw(flag redrawFlag) error {
	tty := s.ed.tty
	if flag&abortRedraw != 0 {
		// Leave the last successful frame on screen without running any
		// handler.
		if s.lastFrame != nil {
			f := *s.lastFrame
			f.Rows = nil
			return tty.UpdateFrame(&f, true)
		}
		return nil
	}
	final := flag&finalRedraw != 0
	if s.suspended && !final {
		return nil
	}
	if final {
		s.stopping = true
	}
	frame, err := s.render()
	if err != nil {
		return err
	}
	s.lastFrame = frame
	return tty.UpdateFrame(frame, final)
}

// render computes the frame for the current state. It runs the render
// handlers and then adds the completion hint and menu.
func (s *Session) render() (*term.Frame, error) {
	defer logutil.Timer(logger, "render")()
	r, err := plugger.Dispatch(s.ctx, s.ed.bus, RenderEvent,
		Render{Output: s.buf.Content, Cursor: s.buf.DotWidth()})
	if err != nil {
		return nil, err
	}
	line := r.Output
	if ghost := s.Ghost(); ghost != "" {
		line = insertAtColumn(line, r.Cursor, ansi.ResetStyle+s.ed.styles.Ghost.Render(ghost))
	}
	frame := &term.Frame{Line: line, Cursor: r.Cursor}
	if s.menu != nil && len(s.items) > 1 && !s.stopping {
		_, width := s.ed.tty.Size()
		col := r.Cursor - runewidth.StringWidth(s.remainder(s.selected()))
		frame.Rows = renderMenu(s.items, *s.menu, col, width, s.ed.styles)
	}
	return frame, nil
}

// insertAtColumn inserts ins into the styled string s at the given display
// column.
func insertAtColumn(s string, col int, ins string) string {
	return ansi.Truncate(s, col, "") + ins + ansi.TruncateLeft(s, col, "")
}

// renderMenu draws the visible rows of the completion menu. Each row shows the
// candidate text and kind in padded columns, followed by a scrollbar cell.
// The menu is aligned so that candidate texts start under the column col,
// shifted left as needed to fit in width columns.
func renderMenu(items []complete.Candidate, w scroll.Window, col, width int, st *Styles) []string {
	textWidth, kindWidth := 0, 0
	for _, item := range items {
		textWidth = max(textWidth, runewidth.StringWidth(item.Text))
		kindWidth = max(kindWidth, runewidth.StringWidth(item.Kind))
	}
	// Leading space, text, space, kind, space and the scrollbar cell.
	rowWidth := textWidth + kindWidth + 4

	offset := col - 1
	if width > 0 {
		offset = col%width - 1
		offset = min(offset, width-rowWidth)
	}
	offset = max(offset, 0)
	indent := strings.Repeat(" ", offset)

	bar := w.Scrollbar()
	rows := make([]string, 0, w.PageSize())
	for i := w.Start; i <= w.End && i < len(items); i++ {
		style := st.Menu
		if i == w.Selected {
			style = st.MenuSelected
		}
		text := " " + runewidth.FillRight(items[i].Text, textWidth) +
			" " + runewidth.FillRight(items[i].Kind, kindWidth) + " "
		barStyle := st.Menu
		if n := i - w.Start; w.Scrollable() && bar.Offset <= n && n < bar.Offset+bar.Size {
			barStyle = st.Scrollbar
		}
		row := indent + style.Render(text) + barStyle.Render(" ")
		if width > 0 {
			row = ansi.Truncate(row, width, "")
		}
		rows = append(rows, row)
	}
	return rows
}
