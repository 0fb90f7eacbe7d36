package txnlog

import (
	"fmt"
	"strings"
)

// Payload is the opcode-selected body of a transaction. The set of
// implementations is closed: CreateTxn, DeleteTxn, SetDataTxn, SetACLTxn,
// SessionCreateTxn, SessionCloseTxn and ErrorTxn.
type Payload interface {
	OpCode() OpCode
	// Summary renders the payload for display. It fails only for an error
	// payload whose code is not registered.
	Summary() (string, error)

	sealed()
}

type CreateTxn struct {
	Path      string `json:"path"`
	Data      []byte `json:"data"`
	ACLs      []ACL  `json:"acls"`
	Ephemeral bool   `json:"ephemeral"`
}

type DeleteTxn struct {
	Path string `json:"path"`
}

type SetDataTxn struct {
	Path    string `json:"path"`
	Data    []byte `json:"data"`
	Version int32  `json:"version"`
}

type SetACLTxn struct {
	Path    string `json:"path"`
	ACLs    []ACL  `json:"acls"`
	Version int32  `json:"version"`
}

type SessionCreateTxn struct {
	TimeoutMillis int32 `json:"timeout_ms"`
}

type SessionCloseTxn struct{}

type ErrorTxn struct {
	Code int32 `json:"code"`
}

func (*CreateTxn) OpCode() OpCode        { return OpCreate }
func (*DeleteTxn) OpCode() OpCode        { return OpDelete }
func (*SetDataTxn) OpCode() OpCode       { return OpSetData }
func (*SetACLTxn) OpCode() OpCode        { return OpSetACL }
func (*SessionCreateTxn) OpCode() OpCode { return OpSessionCreate }
func (*SessionCloseTxn) OpCode() OpCode  { return OpSessionClose }
func (*ErrorTxn) OpCode() OpCode         { return OpError }

func (*CreateTxn) sealed()        {}
func (*DeleteTxn) sealed()        {}
func (*SetDataTxn) sealed()       {}
func (*SetACLTxn) sealed()        {}
func (*SessionCreateTxn) sealed() {}
func (*SessionCloseTxn) sealed()  {}
func (*ErrorTxn) sealed()         {}

func (p *CreateTxn) Summary() (string, error) {
	return fmt.Sprintf("Create path %s data '%s' acls %s ephemeral %d",
		p.Path, Printable(p.Data), formatACLs(p.ACLs), boolInt(p.Ephemeral)), nil
}

func (p *DeleteTxn) Summary() (string, error) {
	return "Delete path " + p.Path, nil
}

func (p *SetDataTxn) Summary() (string, error) {
	return fmt.Sprintf("SetData path %s data '%s' version %d", p.Path, Printable(p.Data), p.Version), nil
}

func (p *SetACLTxn) Summary() (string, error) {
	return fmt.Sprintf("SetAcl path %s acls %s version %d", p.Path, formatACLs(p.ACLs), p.Version), nil
}

func (p *SessionCreateTxn) Summary() (string, error) {
	return fmt.Sprintf("SessionCreate timeout %dms", p.TimeoutMillis), nil
}

func (p *SessionCloseTxn) Summary() (string, error) {
	return "SessionClose", nil
}

func (p *ErrorTxn) Summary() (string, error) {
	name, err := p.Name()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Error code %s (%d)", name, p.Code), nil
}

// Name resolves the error code through the error registry.
func (p *ErrorTxn) Name() (string, error) {
	return ResolveErrorCode(p.Code)
}

type payloadDecoder func(src Source) (Payload, error)

// payloadDecoderFor is the dispatch table. Registered opcodes that never
// appear in a transaction log have no entry.
func payloadDecoderFor(op OpCode) (payloadDecoder, bool) {
	switch op {
	case OpCreate:
		return decodeCreate, true
	case OpDelete:
		return decodeDelete, true
	case OpSetData:
		return decodeSetData, true
	case OpSetACL:
		return decodeSetACL, true
	case OpSessionCreate:
		return decodeSessionCreate, true
	case OpSessionClose:
		return decodeSessionClose, true
	case OpError:
		return decodeError, true
	}
	return nil, false
}

// DecodePayload decodes the payload selected by op. Opcodes without a
// payload decoder fail with *UnknownOpcodeError.
func DecodePayload(src Source, op OpCode) (Payload, error) {
	dec, ok := payloadDecoderFor(op)
	if !ok {
		return nil, &UnknownOpcodeError{Code: int32(op)}
	}
	return dec(src)
}

func decodeCreate(src Source) (Payload, error) {
	p := &CreateTxn{}
	var err error
	if p.Path, err = ReadString(src); err != nil {
		return nil, err
	}
	if p.Data, err = ReadBuffer(src); err != nil {
		return nil, err
	}
	if p.ACLs, err = DecodeACLList(src); err != nil {
		return nil, err
	}
	if p.Ephemeral, err = ReadBool(src); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeDelete(src Source) (Payload, error) {
	path, err := ReadString(src)
	if err != nil {
		return nil, err
	}
	return &DeleteTxn{Path: path}, nil
}

func decodeSetData(src Source) (Payload, error) {
	p := &SetDataTxn{}
	var err error
	if p.Path, err = ReadString(src); err != nil {
		return nil, err
	}
	if p.Data, err = ReadBuffer(src); err != nil {
		return nil, err
	}
	if p.Version, err = ReadInt32(src); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeSetACL(src Source) (Payload, error) {
	p := &SetACLTxn{}
	var err error
	if p.Path, err = ReadString(src); err != nil {
		return nil, err
	}
	if p.ACLs, err = DecodeACLList(src); err != nil {
		return nil, err
	}
	if p.Version, err = ReadInt32(src); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeSessionCreate(src Source) (Payload, error) {
	timeout, err := ReadInt32(src)
	if err != nil {
		return nil, err
	}
	return &SessionCreateTxn{TimeoutMillis: timeout}, nil
}

func decodeSessionClose(Source) (Payload, error) {
	return &SessionCloseTxn{}, nil
}

func decodeError(src Source) (Payload, error) {
	code, err := ReadInt32(src)
	if err != nil {
		return nil, err
	}
	return &ErrorTxn{Code: code}, nil
}

// Printable keeps printable ASCII and replaces every other byte with '.'.
func Printable(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
