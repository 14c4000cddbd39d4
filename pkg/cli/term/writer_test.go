package term

import (
	"strings"
	"testing"
)

func TestWriter(t *testing.T) {
	sb := &strings.Builder{}
	testOutput := func(want string) {
		t.Helper()
		if sb.String() != want {
			t.Errorf("got %q, want %q", sb.String(), want)
		}
		sb.Reset()
	}

	w := NewWriter(sb)

	w.UpdateFrame(&Frame{Line: "> ab", Cursor: 4}, 80, false)
	testOutput(hideCursor + "\r\033[J" + "> ab " + "\r\033[4C" + showCursor)

	// Cursor in the middle of the line.
	w.UpdateFrame(&Frame{Line: "> ab", Cursor: 3}, 80, false)
	testOutput(hideCursor + "\r\033[J" + "> ab " + "\r\033[3C" + showCursor)

	// Line wraps; the trailing space lands on the third row, where the cursor
	// goes.
	w.UpdateFrame(&Frame{Line: "> abcdef", Cursor: 8}, 4, false)
	testOutput(hideCursor + "\r\033[J" + "> abcdef " + "\r" + showCursor)

	// Rewinds two rows before redrawing, and moves up to the cursor.
	w.UpdateFrame(&Frame{Line: "> abcdef", Cursor: 5}, 4, false)
	testOutput(hideCursor + "\033[2A\r\033[J" + "> abcdef " + "\033[1A\r\033[1C" + showCursor)

	// Rows below the line.
	w.UpdateFrame(&Frame{Line: "> a", Cursor: 3, Rows: []string{"x", "y"}}, 80, false)
	testOutput(hideCursor + "\033[1A\r\033[J" + "> a " + "\r\nx\r\ny" + "\033[2A\r\033[3C" + showCursor)

	// Final frame leaves the cursor on a new line.
	w.UpdateFrame(&Frame{Line: "> a", Cursor: 3}, 80, true)
	testOutput(hideCursor + "\r\033[J" + "> a " + "\r\n" + showCursor)

	// The next frame starts from scratch.
	w.UpdateFrame(&Frame{Line: "> ", Cursor: 2}, 80, false)
	testOutput(hideCursor + "\r\033[J" + "> " + " " + "\r\033[2C" + showCursor)
}

func TestWriter_StyledLineWidth(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	// 6 visible cells plus the trailing space fill exactly one 7-column row.
	w.UpdateFrame(&Frame{Line: "\033[1m> \033[0mabcd", Cursor: 6}, 7, false)
	want := hideCursor + "\r\033[J" + "\033[1m> \033[0mabcd " + "\r\033[6C" + showCursor
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}

func TestWriter_Idempotent(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	f := &Frame{Line: "> hello world", Cursor: 9, Rows: []string{"one", "two"}}
	w.UpdateFrame(f, 5, false)
	sb.Reset()
	w.UpdateFrame(f, 5, false)
	first := sb.String()
	sb.Reset()
	w.UpdateFrame(f, 5, false)
	if second := sb.String(); first != second {
		t.Errorf("redraw differs:\n%q\n%q", first, second)
	}
}

func TestWriter_ClearScreen(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	w.UpdateFrame(&Frame{Line: "> abcdef", Cursor: 8}, 4, false)
	w.ClearScreen()
	sb.Reset()
	w.UpdateFrame(&Frame{Line: "> ", Cursor: 2}, 4, false)
	if !strings.HasPrefix(sb.String(), hideCursor+"\r\033[J") {
		t.Errorf("frame after ClearScreen rewinds: %q", sb.String())
	}
}

func TestCursorPos(t *testing.T) {
	tests := []struct {
		offset, cols int
		want         Pos
	}{
		{0, 80, Pos{0, 0}},
		{79, 80, Pos{0, 79}},
		{80, 80, Pos{1, 0}},
		{165, 80, Pos{2, 5}},
		{7, 0, Pos{0, 7}},
	}
	for _, test := range tests {
		if got := CursorPos(test.offset, test.cols); got != test.want {
			t.Errorf("CursorPos(%d, %d) -> %v, want %v", test.offset, test.cols, got, test.want)
		}
	}
}
