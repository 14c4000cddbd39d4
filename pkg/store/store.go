// Package store keeps the command history of the prompt in a bbolt database.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rsify/jay/pkg/logutil"
	"github.com/rsify/jay/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// DefaultLimit is the number of commands kept when no limit is given.
const DefaultLimit = 1000

const bucketCmd = "cmd"

// Functions that initialize the database, keyed by description.
var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is the permanent storage backend for the command history.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db    *bolt.DB
	limit int
}

// NewStore opens the database at the given path, creating it if it does not
// exist. The store keeps at most limit commands; a limit <= 0 means
// DefaultLimit.
func NewStore(dbname string, limit int) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return NewStoreFromDB(db, limit)
}

// NewStoreFromDB creates a new Store from a bbolt database. The database must
// be initialized by NewStoreFromDB or empty.
func NewStoreFromDB(db *bolt.DB, limit int) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	if limit <= 0 {
		limit = DefaultLimit
	}
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &dbStore{db, limit}, nil
}

// Close closes the database.
func (s *dbStore) Close() error {
	return s.db.Close()
}
