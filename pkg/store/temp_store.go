package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// MustTempStore returns a Store backed by a temporary file with the given
// limit, and a cleanup function that should be called when the Store is no
// longer used.
func MustTempStore(limit int) (DBStore, func()) {
	dir, err := os.MkdirTemp("", "jay.test")
	if err != nil {
		panic(fmt.Sprintf("Failed to create temp dir: %v", err))
	}
	st, err := NewStore(filepath.Join(dir, "history.db"), limit)
	if err != nil {
		panic(fmt.Sprintf("Failed to create Store instance: %v", err))
	}
	return st, func() {
		st.Close()
		if err := os.RemoveAll(dir); err != nil {
			fmt.Fprintln(os.Stderr, "failed to remove temp dir:", err)
		}
	}
}
