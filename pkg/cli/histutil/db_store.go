package histutil

import (
	"errors"

	"github.com/rsify/jay/pkg/store/storedefs"
)

// NewDBStore returns a Store backed by a database. The seq of added commands
// is ignored; the database numbers them. Each cursor sees the lines in the
// database at the time it is created.
func NewDBStore(db storedefs.Store) Store {
	return dbStore{db}
}

type dbStore struct {
	db storedefs.Store
}

func (s dbStore) AllCmds() ([]storedefs.Cmd, error) { return s.db.Cmds() }

func (s dbStore) AddCmd(cmd storedefs.Cmd) (int, error) {
	return s.db.AddCmd(cmd.Text)
}

func (s dbStore) Cursor(prefix string) Cursor {
	upper, err := s.db.NextCmdSeq()
	if err != nil {
		return &dbStoreCursor{err: err}
	}
	return &dbStoreCursor{db: s.db, prefix: prefix, upper: upper,
		cmd: storedefs.Cmd{Seq: upper}, err: ErrEndOfHistory}
}

// dbStoreCursor queries the database on every move. Its position is the seq
// of the current line, 0 before the oldest and upper after the newest.
type dbStoreCursor struct {
	db     storedefs.Store
	prefix string
	upper  int
	cmd    storedefs.Cmd
	err    error
}

func (c *dbStoreCursor) Prev() {
	if c.db == nil || c.cmd.Seq <= 0 {
		return
	}
	cmd, err := c.db.PrevCmd(c.cmd.Seq, c.prefix)
	c.apply(cmd, err, 0)
}

func (c *dbStoreCursor) Next() {
	if c.db == nil || c.cmd.Seq >= c.upper {
		return
	}
	cmd, err := c.db.NextCmd(c.cmd.Seq+1, c.prefix)
	if err == nil && cmd.Seq >= c.upper {
		// Added after the cursor was created.
		err = storedefs.ErrNoMatchingCmd
	}
	c.apply(cmd, err, c.upper)
}

// Moves to the result of a query, or to end when nothing was found. On other
// errors the cursor stays.
func (c *dbStoreCursor) apply(cmd storedefs.Cmd, err error, end int) {
	switch {
	case err == nil:
		c.cmd, c.err = cmd, nil
	case errors.Is(err, storedefs.ErrNoMatchingCmd):
		c.cmd, c.err = storedefs.Cmd{Seq: end}, ErrEndOfHistory
	default:
		c.err = err
	}
}

func (c *dbStoreCursor) Get() (storedefs.Cmd, error) {
	return c.cmd, c.err
}
