package mmap

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned by reads on a closed file.
	ErrClosed = errors.New("mmap: file is closed")
	// ErrTooLarge is returned when a file does not fit the address space.
	ErrTooLarge = errors.New("mmap: file too large to map")
)

// File is a read-only mapping of a whole file.
type File struct {
	data   []byte
	closed atomic.Bool
	unmap  func() error
}

// Open maps the file at path. The mapping is advised for a sequential scan
// since packed indexes are decoded front to back. Empty files map to an
// empty File without touching the OS.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &File{}, nil
	}
	if int64(int(size)) != size {
		return nil, ErrTooLarge
	}

	data, unmap, err := mapFile(f, int(size))
	if err != nil {
		return nil, err
	}
	adviseSequential(data)
	return &File{data: data, unmap: unmap}, nil
}

// Len returns the mapped size in bytes.
func (m *File) Len() int { return len(m.data) }

// Bytes returns the mapped contents. The slice must not be used after Close.
func (m *File) Bytes() ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return m.data, nil
}

// ReadAt copies the mapped bytes at off into p with io.ReaderAt semantics.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file. Only the first call has an effect.
func (m *File) Close() error {
	if m.closed.Swap(true) || m.unmap == nil {
		return nil
	}
	return m.unmap()
}
