package histutil

import (
	"github.com/rsify/jay/pkg/store/storedefs"
)

// Walker is used for walking through history entries with a given (possibly
// empty) prefix, skipping duplicates entries.
type Walker interface {
	// Prefix returns the prefix of the commands that the walker walks
	// through.
	Prefix() string
	// CurrentSeq returns the sequence number of the current entry, or -1
	// before the first call to Prev.
	CurrentSeq() int
	// CurrentCmd returns the content of the current entry.
	CurrentCmd() string
	// Prev walks to the previous matching history entry. It returns
	// ErrEndOfHistory when there is none.
	Prev() error
	// Next reverses Prev. It returns ErrEndOfHistory when walking past the
	// entry Prev started from.
	Next() error
}

type walker struct {
	cursor Cursor
	prefix string

	// Entries walked so far, newest first.
	stack []storedefs.Cmd
	// Number of entries of the stack that have been walked into. The current
	// entry is stack[top-1].
	top     int
	inStack map[string]bool
}

// NewWalker returns a Walker going backwards from the end of the store.
func NewWalker(s Store, prefix string) Walker {
	return &walker{cursor: s.Cursor(prefix), prefix: prefix, inStack: map[string]bool{}}
}

func (w *walker) Prefix() string { return w.prefix }

func (w *walker) CurrentSeq() int {
	if w.top == 0 {
		return -1
	}
	return w.stack[w.top-1].Seq
}

func (w *walker) CurrentCmd() string {
	if w.top == 0 {
		return ""
	}
	return w.stack[w.top-1].Text
}

func (w *walker) Prev() error {
	if w.top < len(w.stack) {
		w.top++
		return nil
	}
	for {
		w.cursor.Prev()
		cmd, err := w.cursor.Get()
		if err != nil {
			return err
		}
		if !w.inStack[cmd.Text] {
			w.inStack[cmd.Text] = true
			w.stack = append(w.stack, cmd)
			w.top++
			return nil
		}
	}
}

func (w *walker) Next() error {
	if w.top <= 1 {
		return ErrEndOfHistory
	}
	w.top--
	return nil
}
