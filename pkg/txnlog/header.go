package txnlog

import (
	"encoding/binary"
	"fmt"
)

const (
	// "ZKLG" read as a big-endian int32.
	FileMagic = int32(0x5A4B4C47)
	// FileHeaderSize is magic(4) + version(4) + dbid(8).
	FileHeaderSize = 16
	// TxnHeaderSize is clientId(8) + cxid(4) + zxid(8) + time(8) + type(4).
	TxnHeaderSize = 32
)

// FileHeader is read once at the start of every log file.
type FileHeader struct {
	Magic   int32
	Version int32
	DBID    int64
}

func (h FileHeader) IsValid() bool {
	return h.Magic == FileMagic
}

// MagicString renders the magic as its four raw bytes.
func (h FileHeader) MagicString() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(h.Magic))
	return Printable(b[:])
}

func (h FileHeader) String() string {
	return fmt.Sprintf("magic 0x%08x (%s) version %d dbid %d", uint32(h.Magic), h.MagicString(), h.Version, h.DBID)
}

// TxnHeader precedes every payload.
type TxnHeader struct {
	ClientID uint64
	Cxid     uint32
	Zxid     uint64
	Time     int64
	Type     OpCode
}

// DecodeTxnHeader reads clientId, cxid, zxid, time and type in that order.
func DecodeTxnHeader(src Source) (TxnHeader, error) {
	var h TxnHeader
	var err error
	if h.ClientID, err = ReadUint64(src); err != nil {
		return TxnHeader{}, err
	}
	if h.Cxid, err = ReadUint32(src); err != nil {
		return TxnHeader{}, err
	}
	if h.Zxid, err = ReadUint64(src); err != nil {
		return TxnHeader{}, err
	}
	if h.Time, err = ReadInt64(src); err != nil {
		return TxnHeader{}, err
	}
	op, err := ReadInt32(src)
	if err != nil {
		return TxnHeader{}, err
	}
	h.Type = OpCode(op)
	return h, nil
}

func (h TxnHeader) String() string {
	return fmt.Sprintf("sessionid 0x%x zxid 0x%x cxid 0x%x %s", h.ClientID, h.Zxid, h.Cxid, h.Type)
}
