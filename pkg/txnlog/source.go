package txnlog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Source is the only dependency of the decoders: it hands out exactly n bytes
// or fails with ErrTruncated.
type Source interface {
	ReadExact(n int) ([]byte, error)
}

// BytesSource reads from an in-memory byte slice, typically a mapped file.
// Returned slices alias the underlying buffer.
type BytesSource struct {
	buf []byte
	off int
}

func NewBytesSource(buf []byte) *BytesSource {
	return &BytesSource{buf: buf}
}

func (s *BytesSource) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read of %d bytes", ErrTruncated, n)
	}
	if remaining := len(s.buf) - s.off; n > remaining {
		return nil, fmt.Errorf("%w: need %d bytes, %d remaining", ErrTruncated, n, remaining)
	}
	b := s.buf[s.off : s.off+n : s.off+n]
	s.off += n
	return b, nil
}

// Remaining returns the number of unread bytes.
func (s *BytesSource) Remaining() int {
	return len(s.buf) - s.off
}

// ReaderSource reads from a stream such as stdin.
type ReaderSource struct {
	r   io.Reader
	buf bytes.Buffer
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// ReadExact copies through a growing buffer so a bogus length prefix costs
// only as much memory as the stream actually delivers.
func (s *ReaderSource) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read of %d bytes", ErrTruncated, n)
	}
	s.buf.Reset()
	got, err := io.CopyN(&s.buf, s.r, int64(n))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrTruncated, n, got)
		}
		return nil, err
	}
	out := make([]byte, n)
	copy(out, s.buf.Bytes())
	return out, nil
}
