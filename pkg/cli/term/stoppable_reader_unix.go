//go:build unix

package term

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rsify/jay/pkg/sys"
)

// stoppableReader reads bytes from a terminal one at a time, with a timeout,
// and can be interrupted from another goroutine. It never reads ahead, so
// bytes typed after a line is submitted are left for the next session.
type stoppableReader struct {
	file *os.File
	// The read end is watched together with file; a byte written to the
	// write end stops a pending read.
	stopR, stopW *os.File

	// Held while a read is in progress.
	mutex sync.Mutex
	// Set by Stop and Close. Once set, every read returns ErrStopped.
	stopped atomic.Bool
}

func newStoppableReader(file *os.File) (*stoppableReader, error) {
	stopR, stopW, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &stoppableReader{file: file, stopR: stopR, stopW: stopW}, nil
}

// ReadByteWithTimeout returns the next byte, waiting for at most timeout. A
// negative timeout waits forever. It returns errTimeout when the wait times
// out and ErrStopped when Stop has been called, before or during the wait.
func (r *stoppableReader) ReadByteWithTimeout(timeout time.Duration) (byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	for {
		if r.stopped.Load() {
			return 0, ErrStopped
		}
		ready, err := sys.WaitForRead(timeout, r.file, r.stopR)
		if err == syscall.EINTR {
			continue
		} else if err != nil {
			return 0, err
		}
		switch {
		case ready[1]:
			var b [1]byte
			r.stopR.Read(b[:])
			return 0, ErrStopped
		case !ready[0]:
			return 0, errTimeout
		}
		var b [1]byte
		if n, err := r.file.Read(b[:]); err != nil {
			return 0, err
		} else if n == 0 {
			return 0, io.ErrNoProgress
		}
		return b[0], nil
	}
}

// Stop interrupts a pending ReadByteWithTimeout and waits for it to return.
// All later reads return ErrStopped.
func (r *stoppableReader) Stop() error {
	r.stopped.Store(true)
	_, err := r.stopW.Write([]byte{0})
	r.mutex.Lock()
	//lint:ignore SA2001 Locking only waits for the read to finish.
	r.mutex.Unlock()
	return err
}

// Close stops the reader and closes the stop pipe. The terminal file is left
// open.
func (r *stoppableReader) Close() {
	r.stopped.Store(true)
	r.stopR.Close()
	r.stopW.Close()
}
