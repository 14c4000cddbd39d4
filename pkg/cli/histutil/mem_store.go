package histutil

import (
	"strings"

	"github.com/rsify/jay/pkg/store/storedefs"
)

// NewMemStore returns a Store keeping history in memory, starting with the
// given lines numbered from 0.
func NewMemStore(texts ...string) Store {
	s := &memStore{}
	for _, text := range texts {
		s.AddCmd(storedefs.Cmd{Text: text, Seq: -1})
	}
	return s
}

// NewLimitedMemStore returns an empty in-memory Store that drops the oldest
// lines to keep at most limit. It stands in for the database when that cannot
// be opened.
func NewLimitedMemStore(limit int) Store {
	return &memStore{limit: limit}
}

type memStore struct {
	cmds []storedefs.Cmd
	// Sequence number of the next line.
	next int
	// No limit when <= 0.
	limit int
}

func (s *memStore) AllCmds() ([]storedefs.Cmd, error) {
	return s.cmds, nil
}

// AddCmd numbers the line after the last one when cmd.Seq is negative.
func (s *memStore) AddCmd(cmd storedefs.Cmd) (int, error) {
	if cmd.Seq < 0 {
		cmd.Seq = s.next
	}
	s.next = max(s.next, cmd.Seq+1)
	s.cmds = append(s.cmds, cmd)
	if s.limit > 0 && len(s.cmds) > s.limit {
		s.cmds = s.cmds[len(s.cmds)-s.limit:]
	}
	return cmd.Seq, nil
}

// The cursor sees the lines present when it is created.
func (s *memStore) Cursor(prefix string) Cursor {
	return &memStoreCursor{s.cmds, prefix, len(s.cmds)}
}

type memStoreCursor struct {
	cmds   []storedefs.Cmd
	prefix string
	// len(cmds) and -1 are the two ends.
	index int
}

func (c *memStoreCursor) Prev() { c.move(-1) }
func (c *memStoreCursor) Next() { c.move(1) }

func (c *memStoreCursor) move(step int) {
	for {
		next := c.index + step
		if next < -1 || next > len(c.cmds) {
			return
		}
		c.index = next
		if next == -1 || next == len(c.cmds) ||
			strings.HasPrefix(c.cmds[next].Text, c.prefix) {
			return
		}
	}
}

func (c *memStoreCursor) Get() (storedefs.Cmd, error) {
	if c.index < 0 || c.index >= len(c.cmds) {
		return storedefs.Cmd{}, ErrEndOfHistory
	}
	return c.cmds[c.index], nil
}
