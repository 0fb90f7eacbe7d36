package txnlog

import (
	"errors"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// File is a transaction log opened read-only and mapped into memory.
type File struct {
	fd       *os.File
	mmapData mmap.MMap
	size     int64
	*Decoder
}

// OpenFile maps the log at path and returns a File whose Decoder is
// positioned at the first byte. The caller must Close it.
func OpenFile(path string, opts ...DecoderOption) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("stat error: %w", err)
	}

	f := &File{fd: fd, size: info.Size()}
	// zero-length files cannot be mapped
	if f.size == 0 {
		f.Decoder = NewDecoder(NewBytesSource(nil), opts...)
		return f, nil
	}

	mmapData, err := mmap.Map(fd, mmap.RDONLY, 0)
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("mmap error: %w", err)
	}
	f.mmapData = mmapData
	f.Decoder = NewDecoder(NewBytesSource(mmapData), opts...)
	return f, nil
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return f.size
}

func (f *File) Name() string {
	return f.fd.Name()
}

// Close unmaps and closes the file. Records decoded from it stay valid since
// every decoded field is copied out of the mapping.
func (f *File) Close() error {
	var unmapErr error
	if f.mmapData != nil {
		if err := f.mmapData.Unmap(); err != nil {
			unmapErr = fmt.Errorf("unmap error: %w", err)
		}
		f.mmapData = nil
	}
	return errors.Join(unmapErr, f.fd.Close())
}
