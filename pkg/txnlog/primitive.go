package txnlog

import (
	"encoding/binary"
	"fmt"
)

// All integers on the wire are big-endian.

// bufferLimiter is implemented by sources that cap declared string and blob
// lengths.
type bufferLimiter interface {
	bufferLimit() int
}

func ReadInt32(src Source) (int32, error) {
	b, err := src.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func ReadUint32(src Source) (uint32, error) {
	b, err := src.ReadExact(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func ReadInt64(src Source) (int64, error) {
	b, err := src.ReadExact(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func ReadUint64(src Source) (uint64, error) {
	b, err := src.ReadExact(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadBool reads one byte. A zero byte decodes as true and any other value as
// false.
func ReadBool(src Source) (bool, error) {
	b, err := src.ReadExact(1)
	if err != nil {
		return false, err
	}
	return b[0] == 0, nil
}

// ReadBuffer reads an int32 length followed by exactly that many bytes.
// The result is a private copy.
func ReadBuffer(src Source) ([]byte, error) {
	n, err := ReadInt32(src)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: invalid length %d", ErrTruncated, n)
	}
	if lim, ok := src.(bufferLimiter); ok {
		if limit := lim.bufferLimit(); limit > 0 && int(n) > limit {
			return nil, fmt.Errorf("%w: %d exceeds max buffer size %d", ErrUnreasonableLength, n, limit)
		}
	}
	b, err := src.ReadExact(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadString reads a length-prefixed byte string. No charset validation is
// done here.
func ReadString(src Source) (string, error) {
	b, err := ReadBuffer(src)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
