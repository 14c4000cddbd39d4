package term

import (
	"fmt"
	"strings"
)

// Key represents a single keyboard input, typically assembled from an escape
// sequence.
type Key struct {
	Rune rune
	Mod  Mod
}

// K constructs a new Key.
func K(r rune, mods ...Mod) Key {
	var mod Mod
	for _, m := range mods {
		mod |= m
	}
	return Key{r, mod}
}

// Mod represents a modifier key.
type Mod byte

// Values for Mod.
const (
	// Shift is the shift modifier. It is only applied to special keys (e.g.
	// Shift-F1). For instance 'A' and '@' which are typically entered with the
	// shift key pressed, are not considered to be shift-modified.
	Shift Mod = 1 << iota
	// Alt is the alt modifier, traditionally known as the meta modifier.
	Alt
	Ctrl
)

// Special negative runes to represent function keys, used in the Rune field of
// the Key struct.
const (
	F1 rune = -iota - 1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12

	Up
	Down
	Right
	Left

	Home
	Insert
	Delete
	End
	PageUp
	PageDown

	// Some function key names are just aliases for their ASCII representation

	Tab       = '\t'
	Enter     = '\n'
	Backspace = 0x7f
)

var functionKeyNames = [...]string{
	"(Invalid)",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"Up", "Down", "Right", "Left",
	"Home", "Insert", "Delete", "End", "PageUp", "PageDown",
}

var keyNames = map[rune]string{
	Tab: "Tab", Enter: "Enter", Backspace: "Backspace",
}

func (k Key) String() (s string) {
	if k.Mod&Ctrl != 0 {
		s += "Ctrl-"
	}
	if k.Mod&Alt != 0 {
		s += "Alt-"
	}
	if k.Mod&Shift != 0 {
		s += "Shift-"
	}
	if k.Rune > 0 {
		if name, ok := keyNames[k.Rune]; ok {
			s += name
		} else {
			s += string(k.Rune)
		}
	} else {
		i := int(-k.Rune)
		if i >= len(functionKeyNames) {
			s += fmt.Sprintf("(bad function key %d)", i)
		} else {
			s += functionKeyNames[i]
		}
	}
	return
}

// Keypress is the description of a key handed to keypress handlers. Name is
// the lower-case name of the key ("a", "return", "tab", "up", "f1"), or empty
// for punctuation. Shift is set for upper-case letters as well as for
// shift-modified special keys.
type Keypress struct {
	Sequence string
	Name     string
	Ctrl     bool
	Meta     bool
	Shift    bool
}

func (kp Keypress) String() string {
	var sb strings.Builder
	if kp.Ctrl {
		sb.WriteString("ctrl+")
	}
	if kp.Meta {
		sb.WriteString("meta+")
	}
	if kp.Shift {
		sb.WriteString("shift+")
	}
	if kp.Name != "" {
		sb.WriteString(kp.Name)
	} else {
		fmt.Fprintf(&sb, "%q", kp.Sequence)
	}
	return sb.String()
}

// Keypress converts a key to a Keypress carrying the raw sequence seq.
func (k Key) Keypress(seq string) Keypress {
	kp := Keypress{
		Sequence: seq,
		Ctrl:     k.Mod&Ctrl != 0,
		Meta:     k.Mod&Alt != 0,
		Shift:    k.Mod&Shift != 0,
	}
	switch r := k.Rune; {
	case r < 0:
		if i := int(-r); i < len(functionKeyNames) {
			kp.Name = strings.ToLower(functionKeyNames[i])
		}
	case r == Enter:
		kp.Name = "return"
	case r == Tab:
		kp.Name = "tab"
	case r == Backspace:
		kp.Name = "backspace"
	case r == ' ':
		kp.Name = "space"
	case r == '[' && kp.Ctrl:
		kp.Name, kp.Ctrl = "escape", false
	case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
		kp.Name = string(r)
	case 'A' <= r && r <= 'Z':
		kp.Name = string(r - 'A' + 'a')
		// Ctrl-modified letters are reported in upper case.
		if !kp.Ctrl {
			kp.Shift = true
		}
	}
	return kp
}
