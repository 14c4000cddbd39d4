package store

import (
	"bytes"
	"encoding/binary"

	bolt "go.etcd.io/bbolt"

	. "github.com/rsify/jay/pkg/store/storedefs"
)

func init() {
	initDB["create the history bucket"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	}
}

func (s *dbStore) view(f func(*bolt.Bucket) error) error {
	return s.db.View(func(tx *bolt.Tx) error { return f(tx.Bucket([]byte(bucketCmd))) })
}

func (s *dbStore) update(f func(*bolt.Bucket) error) error {
	return s.db.Update(func(tx *bolt.Tx) error { return f(tx.Bucket([]byte(bucketCmd))) })
}

func (s *dbStore) NextCmdSeq() (int, error) {
	var seq int
	err := s.view(func(b *bolt.Bucket) error {
		seq = int(b.Sequence()) + 1
		return nil
	})
	return seq, err
}

// AddCmd adds a line. The oldest lines are dropped to keep at most the limit
// of the store.
func (s *dbStore) AddCmd(text string) (int, error) {
	var seq uint64
	err := s.update(func(b *bolt.Bucket) error {
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(encodeSeq(seq), []byte(text)); err != nil {
			return err
		}
		return trimOldest(b, seq, s.limit)
	})
	if err != nil {
		logger.Printf("add %q: %v", text, err)
	}
	return int(seq), err
}

// Lines are only ever removed from the front, so everything older than
// newest-limit can go.
func trimOldest(b *bolt.Bucket, newest uint64, limit int) error {
	c := b.Cursor()
	for k, _ := c.First(); k != nil && newest-decodeSeq(k) >= uint64(limit); k, _ = c.First() {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *dbStore) Cmds() ([]Cmd, error) {
	var cmds []Cmd
	err := s.view(func(b *bolt.Bucket) error {
		return b.ForEach(func(k, v []byte) error {
			cmds = append(cmds, Cmd{Text: string(v), Seq: int(decodeSeq(k))})
			return nil
		})
	})
	return cmds, err
}

func (s *dbStore) NextCmd(from int, prefix string) (Cmd, error) {
	var cmd Cmd
	err := s.view(func(b *bolt.Bucket) error {
		c := b.Cursor()
		k, v := c.Seek(encodeSeq(uint64(max(from, 0))))
		return findCmd(&cmd, k, v, c.Next, prefix)
	})
	return cmd, err
}

func (s *dbStore) PrevCmd(upto int, prefix string) (Cmd, error) {
	var cmd Cmd
	err := s.view(func(b *bolt.Bucket) error {
		if upto <= 0 {
			return ErrNoMatchingCmd
		}
		c := b.Cursor()
		var k, v []byte
		if k, _ = c.Seek(encodeSeq(uint64(upto))); k == nil {
			k, v = c.Last()
		} else {
			k, v = c.Prev()
		}
		return findCmd(&cmd, k, v, c.Prev, prefix)
	})
	return cmd, err
}

// Moves with step from k until a line with the prefix is found.
func findCmd(cmd *Cmd, k, v []byte, step func() ([]byte, []byte), prefix string) error {
	for ; k != nil; k, v = step() {
		if bytes.HasPrefix(v, []byte(prefix)) {
			*cmd = Cmd{Text: string(v), Seq: int(decodeSeq(k))}
			return nil
		}
	}
	return ErrNoMatchingCmd
}

// Keys are big endian so that bbolt's byte order is the order of lines.
func encodeSeq(seq uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, seq)
}

func decodeSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
