package fusiontypes

import (
	"fmt"
	"io"
	"os"
)

// Source supplies the content of a file to upload. Implementations
// must be side-effect free: probing the size and reading the content
// leave any externally owned read position where the caller had it.
type Source interface {
	// Size returns the total content length in bytes.
	Size() (int64, error)

	// ReadAll returns the entire content. It may be called after Size
	// and must observe the same bytes.
	ReadAll() ([]byte, error)
}

// FromBytes returns a Source backed by an in-memory buffer. The slice
// is not copied; the caller must not mutate it until the upload ends.
func FromBytes(data []byte) Source {
	return bytesSource(data)
}

// FromPath returns a Source backed by a file on the local filesystem.
func FromPath(path string) Source {
	return pathSource(path)
}

// FromReader returns a Source backed by an open seekable handle, such
// as an *os.File. The handle's read offset is saved and restored around
// every probe and read, so the caller's position is never disturbed.
// The caller retains ownership of the handle and must keep it open for
// the duration of the upload.
func FromReader(r io.ReadSeeker) Source {
	return &readerSource{r: r}
}

type bytesSource []byte

func (s bytesSource) Size() (int64, error) {
	return int64(len(s)), nil
}

func (s bytesSource) ReadAll() ([]byte, error) {
	return s, nil
}

type pathSource string

func (s pathSource) Size() (int64, error) {
	const errMessage = "failed to stat file: %w"

	info, err := os.Stat(string(s))
	if err != nil {
		return 0, fmt.Errorf(errMessage, err)
	}

	return info.Size(), nil
}

func (s pathSource) ReadAll() ([]byte, error) {
	const errMessage = "failed to read file: %w"

	data, err := os.ReadFile(string(s))
	if err != nil {
		return nil, fmt.Errorf(errMessage, err)
	}

	return data, nil
}

type readerSource struct {
	r io.ReadSeeker
}

func (s *readerSource) Size() (int64, error) {
	const errMessage = "failed to probe handle size: %w"

	pos, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf(errMessage, err)
	}

	size, err := s.r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf(errMessage, err)
	}

	if _, err := s.r.Seek(pos, io.SeekStart); err != nil {
		return 0, fmt.Errorf(errMessage, err)
	}

	return size, nil
}

func (s *readerSource) ReadAll() ([]byte, error) {
	const errMessage = "failed to read handle: %w"

	pos, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf(errMessage, err)
	}

	if _, err := s.r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf(errMessage, err)
	}

	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf(errMessage, err)
	}

	if _, err := s.r.Seek(pos, io.SeekStart); err != nil {
		return nil, fmt.Errorf(errMessage, err)
	}

	return data, nil
}
