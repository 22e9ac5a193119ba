package keysource

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"

	fherrors "github.com/tamirms/fliphash/errors"
)

// File is a key corpus: a file of back-to-back fixed-size records, mapped
// read-only into memory. A trailing partial record is ignored.
//
// Thread Safety:
// - Streams of one File may be used concurrently
// - Close must only be called after all streams are done
type File struct {
	mmap    mmap.MMap
	data    []byte
	size    int
	records int

	closed atomic.Bool
}

// Open opens a key corpus of size-byte records.
// It memory-maps the file and closes the file descriptor.
func Open(path string, size int) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open key file: %w", err)
	}
	defer f.Close()
	return OpenFile(f, size)
}

// OpenFile memory-maps f as a key corpus of size-byte records.
// The caller is responsible for closing f; it may be closed as soon as
// OpenFile returns.
func OpenFile(f *os.File, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("key size %d: %w", size, fherrors.ErrKeyTooShort)
	}
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat key file: %w", err)
	}
	if stat.Size() < int64(size) {
		return nil, fherrors.ErrEmptyKeyFile
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap key file: %w", err)
	}
	adviseRead(mm)
	return &File{
		mmap:    mm,
		data:    []byte(mm),
		size:    size,
		records: len(mm) / size,
	}, nil
}

// KeySize implements Source.
func (f *File) KeySize() int { return f.size }

// Records returns the number of complete records in the file.
func (f *File) Records() int { return f.records }

// Stream implements Source. Worker w reads records w, w+workers, w+2*workers,
// ... so workers together read each record exactly once.
func (f *File) Stream(worker, workers int) Stream {
	if workers < 1 {
		workers = 1
	}
	return &fileStream{file: f, next: worker, stride: workers}
}

// Close unmaps the file. It is safe to call more than once.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	if err := f.mmap.Unmap(); err != nil {
		return fmt.Errorf("unmap key file: %w", err)
	}
	return nil
}

type fileStream struct {
	file   *File
	next   int
	stride int
}

func (s *fileStream) Next(dst []byte) error {
	f := s.file
	if f.closed.Load() {
		return fherrors.ErrKeySourceClosed
	}
	if s.next >= f.records {
		return fherrors.ErrKeySourceExhausted
	}
	off := s.next * f.size
	copy(dst, f.data[off:off+f.size])
	s.next += s.stride
	return nil
}

// IsExhausted reports whether err marks the end of a finite source.
func IsExhausted(err error) bool {
	return errors.Is(err, fherrors.ErrKeySourceExhausted)
}
