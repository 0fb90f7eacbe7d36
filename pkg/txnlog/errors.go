package txnlog

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfStream marks the zero-length frame that terminates a log.
	// It is the normal way a log ends and callers must not treat it as a failure.
	ErrEndOfStream = errors.New("txnlog: end of stream")

	// ErrTruncated is returned when fewer bytes are available than a field needs.
	ErrTruncated = errors.New("txnlog: truncated input")

	// ErrInvalidFileHeader is returned when the file does not start with the log magic.
	ErrInvalidFileHeader = errors.New("txnlog: not a valid transaction log")

	// ErrUnreasonableLength is returned when a declared length exceeds the
	// configured max buffer size. It matches ErrTruncated under errors.Is.
	ErrUnreasonableLength = fmt.Errorf("%w: unreasonable length", ErrTruncated)
)

// UnknownOpcodeError is returned when a record carries an opcode that has no
// payload decoder, either because the code is not registered at all or
// because the registered operation never appears in a transaction log.
type UnknownOpcodeError struct {
	Code int32
}

func (e *UnknownOpcodeError) Error() string {
	if name, ok := opName(OpCode(e.Code)); ok {
		return fmt.Sprintf("txnlog: no payload decoder for opcode %s (%d)", name, e.Code)
	}
	return fmt.Sprintf("txnlog: unknown opcode %d", e.Code)
}

// UnknownErrorCodeError is returned when an error payload carries a code that
// is not in the error registry.
type UnknownErrorCodeError struct {
	Code int32
}

func (e *UnknownErrorCodeError) Error() string {
	return fmt.Sprintf("txnlog: unknown error code %d", e.Code)
}

// IsEndOfStream reports whether err is the end-of-stream signal.
func IsEndOfStream(err error) bool {
	return errors.Is(err, ErrEndOfStream)
}

// ErrorKind classifies a decode result into a short label: "end_of_stream",
// "unreasonable_length", "truncated", "invalid_file_header", "unknown_opcode",
// "unknown_error_code" or "io" for anything else.
func ErrorKind(err error) string {
	var unknownOp *UnknownOpcodeError
	var unknownErr *UnknownErrorCodeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEndOfStream):
		return "end_of_stream"
	case errors.Is(err, ErrUnreasonableLength):
		return "unreasonable_length"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrInvalidFileHeader):
		return "invalid_file_header"
	case errors.As(err, &unknownOp):
		return "unknown_opcode"
	case errors.As(err, &unknownErr):
		return "unknown_error_code"
	default:
		return "io"
	}
}
