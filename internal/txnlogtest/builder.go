// Package txnlogtest builds transaction log bytes for tests.
package txnlogtest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"os"
	"path/filepath"
	"testing"

	"github.com/ankur-anand/zktxnlog/pkg/txnlog"
)

// Builder appends wire-format fragments in order.
type Builder struct {
	buf bytes.Buffer
}

func NewBuilder() *Builder {
	return &Builder{}
}

// FileHeader appends a file header with the given fields.
func (b *Builder) FileHeader(magic, version int32, dbid int64) *Builder {
	putInt32(&b.buf, magic)
	putInt32(&b.buf, version)
	putInt64(&b.buf, dbid)
	return b
}

// ValidHeader appends a file header with the log magic, version 2 and dbid 0.
func (b *Builder) ValidHeader() *Builder {
	return b.FileHeader(txnlog.FileMagic, 2, 0)
}

// Record appends a full frame. The checksum is Adler-32 over header+payload
// the way the service writes it.
func (b *Builder) Record(h txnlog.TxnHeader, p txnlog.Payload) *Builder {
	body := append(EncodeTxnHeader(h), EncodePayload(p)...)
	return b.Frame(int64(adler32.Checksum(body)), body, 'B')
}

// Frame appends checksum, len(body)+1, body and delimiter verbatim.
func (b *Builder) Frame(checksum int64, body []byte, delimiter byte) *Builder {
	putInt64(&b.buf, checksum)
	putInt32(&b.buf, int32(len(body)+1))
	b.buf.Write(body)
	b.buf.WriteByte(delimiter)
	return b
}

// EndOfStream appends a zero-length frame.
func (b *Builder) EndOfStream() *Builder {
	putInt64(&b.buf, 0)
	putInt32(&b.buf, 0)
	return b
}

func (b *Builder) Raw(p []byte) *Builder {
	b.buf.Write(p)
	return b
}

func (b *Builder) Bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// WriteFile stores the bytes in a fresh temp dir and returns the path.
func (b *Builder) WriteFile(tb testing.TB) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "log.1")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		tb.Fatalf("write log fixture: %v", err)
	}
	return path
}

func EncodeTxnHeader(h txnlog.TxnHeader) []byte {
	var buf bytes.Buffer
	putUint64(&buf, h.ClientID)
	putUint32(&buf, h.Cxid)
	putUint64(&buf, h.Zxid)
	putInt64(&buf, h.Time)
	putInt32(&buf, int32(h.Type))
	return buf.Bytes()
}

// EncodePayload mirrors the decoders, including the inverted bool byte.
func EncodePayload(p txnlog.Payload) []byte {
	var buf bytes.Buffer
	switch v := p.(type) {
	case *txnlog.CreateTxn:
		putString(&buf, v.Path)
		putBuffer(&buf, v.Data)
		putACLs(&buf, v.ACLs)
		putBool(&buf, v.Ephemeral)
	case *txnlog.DeleteTxn:
		putString(&buf, v.Path)
	case *txnlog.SetDataTxn:
		putString(&buf, v.Path)
		putBuffer(&buf, v.Data)
		putInt32(&buf, v.Version)
	case *txnlog.SetACLTxn:
		putString(&buf, v.Path)
		putACLs(&buf, v.ACLs)
		putInt32(&buf, v.Version)
	case *txnlog.SessionCreateTxn:
		putInt32(&buf, v.TimeoutMillis)
	case *txnlog.SessionCloseTxn:
	case *txnlog.ErrorTxn:
		putInt32(&buf, v.Code)
	case nil:
	default:
		panic(fmt.Sprintf("txnlogtest: unsupported payload %T", p))
	}
	return buf.Bytes()
}

func putInt32(buf *bytes.Buffer, v int32) {
	putUint32(buf, uint32(v))
}

func putUint32(buf *bytes.Buffer, v uint32) {
	buf.Write(binary.BigEndian.AppendUint32(nil, v))
}

func putInt64(buf *bytes.Buffer, v int64) {
	putUint64(buf, uint64(v))
}

func putUint64(buf *bytes.Buffer, v uint64) {
	buf.Write(binary.BigEndian.AppendUint64(nil, v))
}

func putBuffer(buf *bytes.Buffer, b []byte) {
	putInt32(buf, int32(len(b)))
	buf.Write(b)
}

func putString(buf *bytes.Buffer, s string) {
	putBuffer(buf, []byte(s))
}

// putBool writes 0 for true, matching ReadBool.
func putBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(0)
	} else {
		buf.WriteByte(1)
	}
}

func putACLs(buf *bytes.Buffer, acls []txnlog.ACL) {
	putInt32(buf, int32(len(acls)))
	for _, a := range acls {
		putInt32(buf, a.Perms)
		putString(buf, a.Scheme)
		putString(buf, a.ID)
	}
}
