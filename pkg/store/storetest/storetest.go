// Package storetest keeps a test suite against storedefs.Store.
package storetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rsify/jay/pkg/store/storedefs"
)

var (
	lines    = []string{"x = 1", "upper('a')", "upper(s)", "x * 2"}
	searches = []struct {
		next     bool
		seq      int
		prefix   string
		wantSeq  int
		wantText string
		wantErr  error
	}{
		{false, 5, "x", 4, "x * 2", nil},
		{false, 5, "upper", 3, "upper(s)", nil},
		{false, 4, "x", 1, "x = 1", nil},
		{false, 3, "y", 0, "", storedefs.ErrNoMatchingCmd},
		{false, 1, "", 0, "", storedefs.ErrNoMatchingCmd},
		{false, 0, "", 0, "", storedefs.ErrNoMatchingCmd},

		{true, 0, "x", 1, "x = 1", nil},
		{true, 1, "upper", 2, "upper('a')", nil},
		{true, 2, "x", 4, "x * 2", nil},
		{true, 4, "upper", 0, "", storedefs.ErrNoMatchingCmd},
		{true, 5, "", 0, "", storedefs.ErrNoMatchingCmd},
	}
)

// TestCmd tests the history functionality of a Store. The store must be empty
// and keep at least 4 lines.
func TestCmd(t *testing.T, store storedefs.Store) {
	t.Helper()

	if seq, err := store.NextCmdSeq(); seq != 1 || err != nil {
		t.Errorf("NextCmdSeq() -> (%v, %v), want (1, nil)", seq, err)
	}
	if cmds, err := store.Cmds(); len(cmds) != 0 || err != nil {
		t.Errorf("Cmds() on empty store -> (%v, %v), want (nil, nil)", cmds, err)
	}

	for i, text := range lines {
		if seq, err := store.AddCmd(text); seq != i+1 || err != nil {
			t.Errorf("AddCmd(%q) -> (%v, %v), want (%v, nil)", text, seq, err, i+1)
		}
	}
	if seq, err := store.NextCmdSeq(); seq != len(lines)+1 || err != nil {
		t.Errorf("NextCmdSeq() -> (%v, %v), want (%v, nil)", seq, err, len(lines)+1)
	}

	wantCmds := make([]storedefs.Cmd, len(lines))
	for i, text := range lines {
		wantCmds[i] = storedefs.Cmd{Text: text, Seq: i + 1}
	}
	cmds, err := store.Cmds()
	if diff := cmp.Diff(wantCmds, cmds); diff != "" || err != nil {
		t.Errorf("Cmds() -> error %v, diff (-want +got):\n%s", err, diff)
	}

	for _, tc := range searches {
		f, name := store.PrevCmd, "PrevCmd"
		if tc.next {
			f, name = store.NextCmd, "NextCmd"
		}
		cmd, err := f(tc.seq, tc.prefix)
		want := storedefs.Cmd{Text: tc.wantText, Seq: tc.wantSeq}
		if cmd != want || err != tc.wantErr {
			t.Errorf("%s(%v, %q) -> (%v, %v), want (%v, %v)",
				name, tc.seq, tc.prefix, cmd, err, want, tc.wantErr)
		}
	}
}
