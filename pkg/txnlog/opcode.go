package txnlog

import "strconv"

// OpCode selects the payload that follows a transaction header.
type OpCode int32

const (
	OpNotification  OpCode = 0
	OpCreate        OpCode = 1
	OpDelete        OpCode = 2
	OpExists        OpCode = 3
	OpGetData       OpCode = 4
	OpSetData       OpCode = 5
	OpGetACL        OpCode = 6
	OpSetACL        OpCode = 7
	OpGetChildren   OpCode = 8
	OpSync          OpCode = 9
	OpPing          OpCode = 11
	OpGetChildren2  OpCode = 12
	OpCheck         OpCode = 13
	OpMulti         OpCode = 14
	OpAuth          OpCode = 100
	OpSetWatches    OpCode = 101
	OpSASL          OpCode = 102
	OpSessionCreate OpCode = -10
	OpSessionClose  OpCode = -11
	OpError         OpCode = -1
)

// OpCodes returns every registered opcode.
func OpCodes() []OpCode {
	return []OpCode{
		OpNotification, OpCreate, OpDelete, OpExists, OpGetData, OpSetData,
		OpGetACL, OpSetACL, OpGetChildren, OpSync, OpPing, OpGetChildren2,
		OpCheck, OpMulti, OpAuth, OpSetWatches, OpSASL,
		OpSessionCreate, OpSessionClose, OpError,
	}
}

func opName(op OpCode) (string, bool) {
	switch op {
	case OpNotification:
		return "notification", true
	case OpCreate:
		return "create", true
	case OpDelete:
		return "delete", true
	case OpExists:
		return "exists", true
	case OpGetData:
		return "getdata", true
	case OpSetData:
		return "setdata", true
	case OpGetACL:
		return "getacl", true
	case OpSetACL:
		return "setacl", true
	case OpGetChildren:
		return "getchildren", true
	case OpSync:
		return "sync", true
	case OpPing:
		return "ping", true
	case OpGetChildren2:
		return "getchildren2", true
	case OpCheck:
		return "check", true
	case OpMulti:
		return "multi", true
	case OpAuth:
		return "auth", true
	case OpSetWatches:
		return "setwatches", true
	case OpSASL:
		return "sasl", true
	case OpSessionCreate:
		return "sessioncreate", true
	case OpSessionClose:
		return "sessionclose", true
	case OpError:
		return "error", true
	}
	return "", false
}

// ResolveOpcode maps a raw opcode to its symbolic name.
func ResolveOpcode(code int32) (string, error) {
	name, ok := opName(OpCode(code))
	if !ok {
		return "", &UnknownOpcodeError{Code: code}
	}
	return name, nil
}

func (op OpCode) String() string {
	if name, ok := opName(op); ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(op)) + ")"
}
