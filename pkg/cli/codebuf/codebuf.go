// Package codebuf implements the line being edited at the prompt.
package codebuf

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Buffer is the content of the prompt line and the position of the cursor in
// it.
type Buffer struct {
	// Content of the buffer.
	Content string
	// Position of the dot (more commonly known as the cursor), as a byte index
	// into Content.
	Dot int
}

// InsertAtDot inserts text at the dot and moves the dot after it.
func (b *Buffer) InsertAtDot(text string) {
	b.Content = b.Content[:b.Dot] + text + b.Content[b.Dot:]
	b.Dot += len(text)
}

// Before returns the content before the dot.
func (b *Buffer) Before() string { return b.Content[:b.Dot] }

// After returns the content after the dot.
func (b *Buffer) After() string { return b.Content[b.Dot:] }

// RuneBefore returns the rune just before the dot, if any.
func (b *Buffer) RuneBefore() (rune, bool) {
	if b.Dot == 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(b.Content[:b.Dot])
	return r, true
}

// RuneAfter returns the rune just after the dot, if any.
func (b *Buffer) RuneAfter() (rune, bool) {
	if b.Dot == len(b.Content) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(b.Content[b.Dot:])
	return r, true
}

// DotWidth returns the display width of the content before the dot.
func (b *Buffer) DotWidth() int {
	return runewidth.StringWidth(b.Content[:b.Dot])
}

// MoveLeft moves the dot one rune to the left.
func (b *Buffer) MoveLeft() {
	_, w := utf8.DecodeLastRuneInString(b.Content[:b.Dot])
	b.Dot -= w
}

// MoveRight moves the dot one rune to the right.
func (b *Buffer) MoveRight() {
	_, w := utf8.DecodeRuneInString(b.Content[b.Dot:])
	b.Dot += w
}

// MoveHome moves the dot to the start of the line.
func (b *Buffer) MoveHome() { b.Dot = 0 }

// MoveEnd moves the dot to the end of the line.
func (b *Buffer) MoveEnd() { b.Dot = len(b.Content) }

// MoveWordLeft moves the dot to the start of the word before it.
func (b *Buffer) MoveWordLeft() { b.Dot = wordStartBefore(b.Content, b.Dot) }

// MoveWordRight moves the dot to the end of the word after it.
func (b *Buffer) MoveWordRight() { b.Dot = wordEndAfter(b.Content, b.Dot) }

// DeleteBackward deletes the rune before the dot. It returns false if there
// is nothing to delete.
func (b *Buffer) DeleteBackward() bool {
	if b.Dot == 0 {
		return false
	}
	_, w := utf8.DecodeLastRuneInString(b.Content[:b.Dot])
	b.Content = b.Content[:b.Dot-w] + b.Content[b.Dot:]
	b.Dot -= w
	return true
}

// DeleteForward deletes the rune after the dot. It returns false if there is
// nothing to delete.
func (b *Buffer) DeleteForward() bool {
	if b.Dot == len(b.Content) {
		return false
	}
	_, w := utf8.DecodeRuneInString(b.Content[b.Dot:])
	b.Content = b.Content[:b.Dot] + b.Content[b.Dot+w:]
	return true
}

// DeleteBeforeDot deletes s if the content before the dot ends with it. It
// returns whether anything was deleted.
func (b *Buffer) DeleteBeforeDot(s string) bool {
	if !strings.HasSuffix(b.Content[:b.Dot], s) {
		return false
	}
	b.Content = b.Content[:b.Dot-len(s)] + b.Content[b.Dot:]
	b.Dot -= len(s)
	return true
}

// KillLineLeft deletes everything before the dot.
func (b *Buffer) KillLineLeft() {
	b.Content = b.Content[b.Dot:]
	b.Dot = 0
}

// KillLineRight deletes everything after the dot.
func (b *Buffer) KillLineRight() {
	b.Content = b.Content[:b.Dot]
}

// KillWordLeft deletes the word before the dot, along with any whitespace
// between it and the dot.
func (b *Buffer) KillWordLeft() {
	start := wordStartBefore(b.Content, b.Dot)
	b.Content = b.Content[:start] + b.Content[b.Dot:]
	b.Dot = start
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func wordStartBefore(s string, dot int) int {
	i := dot
	for i > 0 {
		r, w := utf8.DecodeLastRuneInString(s[:i])
		if isWordRune(r) {
			break
		}
		i -= w
	}
	for i > 0 {
		r, w := utf8.DecodeLastRuneInString(s[:i])
		if !isWordRune(r) {
			break
		}
		i -= w
	}
	return i
}

func wordEndAfter(s string, dot int) int {
	i := dot
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if isWordRune(r) {
			break
		}
		i += w
	}
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if !isWordRune(r) {
			break
		}
		i += w
	}
	return i
}
