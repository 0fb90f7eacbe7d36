package txnlog

import (
	"fmt"
)

// Record is one decoded transaction frame.
type Record struct {
	// Offset is the byte position of the frame within the file.
	Offset int64
	// Checksum is carried through as read. It is never verified.
	Checksum int64
	Length   int32
	Header   TxnHeader
	Payload  Payload
}

// Summary renders the payload part of the record.
func (r *Record) Summary() (string, error) {
	return r.Payload.Summary()
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxBufferSize rejects any string or blob whose declared length is
// larger than size bytes with ErrUnreasonableLength. Fixed-width fields are
// not affected. Zero disables the check.
func WithMaxBufferSize(size int) DecoderOption {
	return func(d *Decoder) {
		d.maxBuffer = size
	}
}

// Decoder walks a transaction log one record at a time. It is not safe for
// concurrent use; a record must be fully decoded before the next one starts
// because record boundaries are only known after decoding.
type Decoder struct {
	src       Source
	offset    int64
	maxBuffer int
}

func NewDecoder(src Source, opts ...DecoderOption) *Decoder {
	d := &Decoder{src: src}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReadExact implements Source and tracks the consumed byte count.
func (d *Decoder) ReadExact(n int) ([]byte, error) {
	b, err := d.src.ReadExact(n)
	if err != nil {
		return nil, err
	}
	d.offset += int64(n)
	return b, nil
}

func (d *Decoder) bufferLimit() int {
	return d.maxBuffer
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.offset
}

// ReadFileHeader decodes and validates the file header. It must be called
// once before the first Next.
//
// A bad magic always fails with ErrInvalidFileHeader. Version and dbid are
// still read when present so the returned header shows what the file holds;
// a file too short for them is not reported as truncated.
func (d *Decoder) ReadFileHeader() (FileHeader, error) {
	var h FileHeader
	var err error
	if h.Magic, err = ReadInt32(d); err != nil {
		return FileHeader{}, fmt.Errorf("read file header: %w", err)
	}
	h.Version, err = ReadInt32(d)
	if err == nil {
		h.DBID, err = ReadInt64(d)
	}
	if !h.IsValid() {
		return h, fmt.Errorf("%w: magic 0x%08x", ErrInvalidFileHeader, uint32(h.Magic))
	}
	if err != nil {
		return FileHeader{}, fmt.Errorf("read file header: %w", err)
	}
	return h, nil
}

// Next decodes the next record. It returns ErrEndOfStream when the frame
// length is zero. Any other error is fatal to the scan: the position of the
// underlying source is then unspecified.
func (d *Decoder) Next() (*Record, error) {
	start := d.offset

	checksum, err := ReadInt64(d)
	if err != nil {
		return nil, fmt.Errorf("record at offset %d: read checksum: %w", start, err)
	}
	length, err := ReadInt32(d)
	if err != nil {
		return nil, fmt.Errorf("record at offset %d: read length: %w", start, err)
	}
	if length == 0 {
		return nil, ErrEndOfStream
	}

	header, err := DecodeTxnHeader(d)
	if err != nil {
		return nil, fmt.Errorf("record at offset %d: read header: %w", start, err)
	}

	payload, err := DecodePayload(d, header.Type)
	if err != nil {
		return nil, fmt.Errorf("record at offset %d: decode %s payload: %w", start, header.Type, err)
	}

	// trailing delimiter, read but not checked
	if _, err := d.ReadExact(1); err != nil {
		return nil, fmt.Errorf("record at offset %d: read delimiter: %w", start, err)
	}

	return &Record{
		Offset:   start,
		Checksum: checksum,
		Length:   length,
		Header:   header,
		Payload:  payload,
	}, nil
}
