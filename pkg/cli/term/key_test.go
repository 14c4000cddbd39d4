package term

import "testing"

func TestKey_String(t *testing.T) {
	tests := []struct {
		k    Key
		want string
	}{
		{K('a'), "a"},
		{K(Enter), "Enter"},
		{K(Up, Ctrl), "Ctrl-Up"},
		{K(Tab, Shift), "Shift-Tab"},
		{K('x', Ctrl, Alt), "Ctrl-Alt-x"},
		{K(F12), "F12"},
	}
	for _, test := range tests {
		if got := test.k.String(); got != test.want {
			t.Errorf("%#v.String() -> %q, want %q", test.k, got, test.want)
		}
	}
}

func TestKey_Keypress(t *testing.T) {
	tests := []struct {
		k    Key
		seq  string
		want Keypress
	}{
		{K('a'), "a", Keypress{Sequence: "a", Name: "a"}},
		{K('A'), "A", Keypress{Sequence: "A", Name: "a", Shift: true}},
		{K('7'), "7", Keypress{Sequence: "7", Name: "7"}},
		{K('('), "(", Keypress{Sequence: "("}},
		{K(' '), " ", Keypress{Sequence: " ", Name: "space"}},
		{K(Enter), "\r", Keypress{Sequence: "\r", Name: "return"}},
		{K(Tab), "\t", Keypress{Sequence: "\t", Name: "tab"}},
		{K(Tab, Shift), "\033[Z", Keypress{Sequence: "\033[Z", Name: "tab", Shift: true}},
		{K(Backspace), "\x7f", Keypress{Sequence: "\x7f", Name: "backspace"}},
		{K('[', Ctrl), "\033", Keypress{Sequence: "\033", Name: "escape"}},
		{K('D', Ctrl), "\x04", Keypress{Sequence: "\x04", Name: "d", Ctrl: true}},
		{K('b', Alt), "\033b", Keypress{Sequence: "\033b", Name: "b", Meta: true}},
		{K(Up), "\033[A", Keypress{Sequence: "\033[A", Name: "up"}},
		{K(PageDown), "\033[6~", Keypress{Sequence: "\033[6~", Name: "pagedown"}},
		{K(F1), "\033OP", Keypress{Sequence: "\033OP", Name: "f1"}},
	}
	for _, test := range tests {
		if got := test.k.Keypress(test.seq); got != test.want {
			t.Errorf("%v.Keypress(%q) -> %+v, want %+v", test.k, test.seq, got, test.want)
		}
	}
}

func TestKeypress_String(t *testing.T) {
	if got := K('C', Ctrl).Keypress("\x03").String(); got != "ctrl+c" {
		t.Errorf("got %q", got)
	}
	if got := K('(').Keypress("(").String(); got != `"("` {
		t.Errorf("got %q", got)
	}
}
