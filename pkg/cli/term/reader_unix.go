//go:build unix

package term

import (
	"os"
	"time"
)

// reader reads terminal escape sequences and decodes them into events.
type reader struct {
	sr *stoppableReader
}

func newReader(f *os.File) (*reader, error) {
	sr, err := newStoppableReader(f)
	if err != nil {
		return nil, err
	}
	return &reader{sr}, nil
}

func (rd *reader) ReadEvent() (Event, error) {
	return readEvent(rd.sr)
}

func (rd *reader) Close() {
	rd.sr.Stop()
	rd.sr.Close()
}

// Used by readRune in readEvent to signal end of current sequence.
const runeEndOfSeq rune = -1

// Timeout for bytes in escape sequences. Modern terminal emulators send escape
// sequences very fast, so 10ms is more than sufficient. SSH connections on a
// slow link might be problematic though.
var keySeqTimeout = 10 * time.Millisecond

func readEvent(rd byteReaderWithTimeout) (event Event, err error) {
	var r rune
	r, err = readRune(rd, -1)
	if err != nil {
		return
	}

	currentSeq := string(r)
	// Attempts to read a rune within a timeout of keySeqTimeout. It returns
	// runeEndOfSeq if there is any error; the caller should terminate the
	// current sequence when it sees that value.
	readRune :=
		func() rune {
			r, e := readRune(rd, keySeqTimeout)
			if e != nil {
				return runeEndOfSeq
			}
			currentSeq += string(r)
			return r
		}
	badSeq := func(msg string) {
		err = seqError{msg, currentSeq}
	}
	key := func(k Key) {
		event = KeyEvent{k, currentSeq}
	}

	switch r {
	case 0x1b: // ^[ Escape
		r2 := readRune()
		// rxvt and derivatives prepend another ESC to a CSI-style or G3-style
		// sequence to signal Alt.
		hasTwoLeadingESC := false
		if r2 == 0x1b {
			hasTwoLeadingESC = true
			r2 = readRune()
		}
		if r2 == runeEndOfSeq {
			// Nothing follows. Taken as a lone Escape.
			key(K('[', Ctrl))
			break
		}
		switch r2 {
		case '[':
			// A '[' follows. CSI style function key sequence.
			r = readRune()
			if r == runeEndOfSeq {
				key(K('[', Alt))
				return
			}

			nums := make([]int, 0, 2)
		CSISeq:
			for {
				switch {
				case r == ';':
					nums = append(nums, 0)
				case '0' <= r && r <= '9':
					if len(nums) == 0 {
						nums = append(nums, 0)
					}
					cur := len(nums) - 1
					nums[cur] = nums[cur]*10 + int(r-'0')
				case r == runeEndOfSeq:
					badSeq("incomplete CSI")
					return
				default: // Treat as a terminator.
					break CSISeq
				}

				r = readRune()
			}
			k := parseCSI(nums, r)
			if k == (Key{}) {
				badSeq("bad CSI")
			} else {
				if hasTwoLeadingESC {
					k.Mod |= Alt
				}
				key(k)
			}
		case 'O':
			// An 'O' follows. G3 style function key sequence: read one rune.
			r = readRune()
			if r == runeEndOfSeq {
				// Nothing follows after 'O'. Taken as Alt-O.
				key(K('O', Alt))
				return
			}
			k, ok := g3Seq[r]
			if ok {
				if hasTwoLeadingESC {
					k.Mod |= Alt
				}
				key(k)
			} else {
				badSeq("bad G3")
			}
		default:
			// Something other than '[' or 'O' follows. Taken as an
			// Alt-modified key, possibly also modified by Ctrl.
			k := ctrlModify(r2)
			k.Mod |= Alt
			key(k)
		}
	default:
		key(ctrlModify(r))
	}
	return
}

// Determines whether a rune corresponds to a Ctrl-modified key and returns the
// Key the rune represents.
func ctrlModify(r rune) Key {
	switch r {
	case 0x0:
		return K('`', Ctrl) // ^@
	case 0x1e:
		return K('6', Ctrl) // ^^
	case 0x1f:
		return K('/', Ctrl) // ^_
	case '\r':
		// Raw mode turns off ICRNL, so Enter arrives as ^M.
		return K(Enter)
	case Tab, Enter, Backspace: // ^I ^J ^?
		// Ambiguous Ctrl keys; prefer the non-Ctrl form as they are more likely.
		return K(r)
	default:
		if 0x1 <= r && r <= 0x1d {
			return K(r+0x40, Ctrl)
		}
	}
	return K(r)
}

// G3-style key sequences: \eO followed by exactly one character. For instance,
// \eOP is F1.
var g3Seq = map[rune]Key{
	// xterm, tmux
	'A': K(Up), 'B': K(Down), 'C': K(Right), 'D': K(Left),
	'H': K(Home), 'F': K(End), 'M': K(Insert),
	// urxvt
	'a': K(Up, Ctrl), 'b': K(Down, Ctrl),
	'c': K(Right, Ctrl), 'd': K(Left, Ctrl),
	// xterm, urxvt, tmux
	'P': K(F1), 'Q': K(F2), 'R': K(F3), 'S': K(F4),
}

// CSI-style key sequences identified by the last rune. For instance, \e[A is
// Up. When modified, two numerical arguments are added, the first always being
// 1 and the second identifying the modifier. For instance, \e[1;5A is Ctrl-Up.
var csiSeqByLast = map[rune]Key{
	// xterm, urxvt, tmux
	'A': K(Up), 'B': K(Down), 'C': K(Right), 'D': K(Left),
	// urxvt
	'a': K(Up, Shift), 'b': K(Down, Shift),
	'c': K(Right, Shift), 'd': K(Left, Shift),
	// xterm (Terminal.app only sends those in alternate screen)
	'H': K(Home), 'F': K(End),
	// xterm, urxvt, tmux
	'Z': K(Tab, Shift),
}

// CSI-style key sequences ending with '~' with by one or two numerical
// arguments. The first argument identifies the key, and the optional second
// argument identifies the modifier. For instance, \e[3~ is Delete, and \e[3;5~
// is Ctrl-Delete.
//
// urxvt encodes the modifier by changing the last rune instead: '$' for Shift,
// '^' for Ctrl, and '@' for Ctrl+Shift.
var csiSeqTilde = map[int]rune{
	// tmux (NOTE: urxvt uses the pair for Find/Select)
	1: Home, 4: End,
	// xterm (Terminal.app sends ^M for Fn+Enter), urxvt, tmux
	2: Insert,
	// xterm, urxvt, tmux
	3: Delete,
	// xterm (Terminal.app only sends those in alternate screen), urxvt, tmux
	5: PageUp, 6: PageDown,
	// urxvt
	7: Home, 8: End,
	// urxvt
	11: F1, 12: F2, 13: F3, 14: F4,
	// xterm, urxvt, tmux
	15: F5, 17: F6, 18: F7, 19: F8,
	20: F9, 21: F10, 23: F11, 24: F12,
}

// CSI-style key sequences ending with '~', with the first argument always 27,
// the second argument identifying the modifier, and the third argument
// identifying the key. For instance, \e[27;5;9~ is Ctrl-Tab.
var csiSeqTilde27 = map[int]rune{
	9: '\t', 13: '\n',
	33: '!', 35: '#', 39: '\'', 40: '(', 41: ')', 43: '+', 44: ',', 45: '-',
	46: '.',
	48: '0', 49: '1', 50: '2', 51: '3', 52: '4', 53: '5', 54: '6', 55: '7',
	56: '8', 57: '9',
	58: ':', 59: ';', 60: '<', 61: '=', 62: '>', 63: ';',
}

// parseCSI parses a CSI-style key sequence.
func parseCSI(nums []int, last rune) Key {
	if k, ok := csiSeqByLast[last]; ok {
		if len(nums) == 0 {
			// Unmodified: \e[A (Up)
			return k
		} else if len(nums) == 2 && nums[0] == 1 {
			// Modified: \e[1;5A (Ctrl-Up)
			return xtermModify(k, nums[1])
		} else {
			return Key{}
		}
	}

	switch last {
	case '~':
		if len(nums) == 1 || len(nums) == 2 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				k := K(r)
				if len(nums) == 1 {
					// Unmodified: \e[5~ (e.g. PageUp)
					return k
				}
				// Modified: \e[5;5~ (e.g. Ctrl-PageUp)
				return xtermModify(k, nums[1])
			}
		} else if len(nums) == 3 && nums[0] == 27 {
			if r, ok := csiSeqTilde27[nums[2]]; ok {
				return xtermModify(K(r), nums[1])
			}
		}
	case '$', '^', '@':
		if len(nums) == 1 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				var mod Mod
				switch last {
				case '$':
					mod = Shift
				case '^':
					mod = Ctrl
				case '@':
					mod = Shift | Ctrl
				}
				return K(r, mod)
			}
		}
	}

	return Key{}
}

func xtermModify(k Key, mod int) Key {
	if mod < 0 || mod > 16 {
		// Out of range
		return Key{}
	}
	if mod == 0 {
		return k
	}
	modFlags := mod - 1
	if modFlags&0x1 != 0 {
		k.Mod |= Shift
	}
	if modFlags&0x2 != 0 {
		k.Mod |= Alt
	}
	if modFlags&0x4 != 0 {
		k.Mod |= Ctrl
	}
	if modFlags&0x8 != 0 {
		// This should be Meta, but we conflate Meta and Alt.
		k.Mod |= Alt
	}
	return k
}
