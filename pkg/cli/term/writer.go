package term

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/x/ansi"
)

// Frame is what the prompt area of the terminal should show.
type Frame struct {
	// The styled prompt line, without a trailing newline. It may wrap.
	Line string
	// Display column of the cursor, counted from the start of Line.
	Cursor int
	// Styled rows drawn below the line. Each row must fit in the terminal
	// width.
	Rows []string
}

// Pos is a row and column on the terminal, relative to the top left corner of
// the frame.
type Pos struct {
	Row, Col int
}

// CursorPos converts a display column offset into a position on a terminal
// with the given number of columns.
func CursorPos(offset, cols int) Pos {
	if cols <= 0 {
		return Pos{0, offset}
	}
	return Pos{offset / cols, offset % cols}
}

// Writer represents the output to a terminal.
type Writer interface {
	// UpdateFrame redraws the prompt area to show the given frame on a terminal
	// with the given width. If final is true, the cursor is left on a fresh
	// line below the frame, and the next update starts a new frame there.
	UpdateFrame(f *Frame, width int, final bool) error
	// ResetFrame forgets the frame drawn last, so that the next update starts
	// drawing at the current cursor position.
	ResetFrame()
	// ClearScreen clears the terminal screen and places the cursor at the top
	// left corner.
	ClearScreen()
}

// writer renders the prompt.
type writer struct {
	file io.Writer
	// Row of the cursor relative to the top of the frame drawn last.
	dotRow int
}

// NewWriter returns a Writer that writes VT100 sequences to the given io.Writer.
func NewWriter(f io.Writer) Writer {
	return &writer{file: f}
}

// deltaPos calculates the escape sequence needed to move the cursor from one
// position to another. It use relative movements to move to the destination
// line and absolute movement to move to the destination column.
func deltaPos(from, to Pos) []byte {
	buf := new(bytes.Buffer)
	if from.Row < to.Row {
		// move down
		fmt.Fprintf(buf, "\033[%dB", to.Row-from.Row)
	} else if from.Row > to.Row {
		// move up
		fmt.Fprintf(buf, "\033[%dA", from.Row-to.Row)
	}
	fmt.Fprint(buf, "\r")
	if to.Col > 0 {
		fmt.Fprintf(buf, "\033[%dC", to.Col)
	}
	return buf.Bytes()
}

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	eraseDown  = "\033[J"
)

// Rows taken up by s when written from the first column, minus one. A string
// that exactly fills the last row leaves the cursor on that row.
func lastRow(s string, cols int) int {
	w := ansi.StringWidth(s)
	if cols <= 0 || w == 0 {
		return 0
	}
	return (w - 1) / cols
}

// UpdateFrame updates the terminal display to show the frame.
func (w *writer) UpdateFrame(f *Frame, width int, final bool) error {
	// Store all the output write in a buffer, so that we only write to the
	// terminal once.
	output := new(bytes.Buffer)

	// Hide cursor at the beginning to minimize flickering.
	output.WriteString(hideCursor)

	// Rewind cursor to the top of the old frame and erase it.
	if w.dotRow > 0 {
		fmt.Fprintf(output, "\033[%dA", w.dotRow)
	}
	output.WriteString("\r" + eraseDown)

	// The trailing space makes sure the row holding the cursor exists when the
	// cursor sits at the end of a line that fills the last column.
	line := f.Line + " "
	output.WriteString(line)
	end := Pos{Row: lastRow(line, width)}
	for _, row := range f.Rows {
		output.WriteString("\r\n" + row)
		end.Row++
	}

	if final {
		// Leave the cursor on a fresh line below the frame.
		output.WriteString("\r\n")
		w.dotRow = 0
	} else {
		dot := CursorPos(f.Cursor, width)
		output.Write(deltaPos(end, dot))
		w.dotRow = dot.Row
	}

	output.WriteString(showCursor)

	logger.Printf("frame: %d rows, dot row %d, %d bytes", end.Row+1, w.dotRow, output.Len())
	_, err := w.file.Write(output.Bytes())
	return err
}

func (w *writer) ResetFrame() {
	w.dotRow = 0
}

func (w *writer) ClearScreen() {
	fmt.Fprint(w.file,
		"\033[H",  // move cursor to the top left corner
		"\033[2J", // clear entire buffer
	)
	w.dotRow = 0
}
