package txnlog

import "strconv"

// ErrCode is a failure category reported by the coordination service and
// recorded in error transactions.
type ErrCode int32

const (
	ErrCodeOK                      ErrCode = 0
	ErrCodeSystemError             ErrCode = -1
	ErrCodeRuntimeInconsistency    ErrCode = -2
	ErrCodeDataInconsistency       ErrCode = -3
	ErrCodeConnectionLoss          ErrCode = -4
	ErrCodeMarshallingError        ErrCode = -5
	ErrCodeUnimplemented           ErrCode = -6
	ErrCodeOperationTimeout        ErrCode = -7
	ErrCodeBadArguments            ErrCode = -8
	ErrCodeAPIError                ErrCode = -100
	ErrCodeNoNode                  ErrCode = -101
	ErrCodeNoAuth                  ErrCode = -102
	ErrCodeBadVersion              ErrCode = -103
	ErrCodeNoChildrenForEphemerals ErrCode = -108
	ErrCodeNodeExists              ErrCode = -110
	ErrCodeNotEmpty                ErrCode = -111
	ErrCodeSessionExpired          ErrCode = -112
	ErrCodeInvalidCallback         ErrCode = -113
	ErrCodeInvalidACL              ErrCode = -114
	ErrCodeAuthFailed              ErrCode = -115
	ErrCodeClosing                 ErrCode = -116
	ErrCodeNothing                 ErrCode = -117
	ErrCodeSessionMoved            ErrCode = -118
)

// ErrCodes returns every registered error code.
func ErrCodes() []ErrCode {
	return []ErrCode{
		ErrCodeOK, ErrCodeSystemError, ErrCodeRuntimeInconsistency,
		ErrCodeDataInconsistency, ErrCodeConnectionLoss, ErrCodeMarshallingError,
		ErrCodeUnimplemented, ErrCodeOperationTimeout, ErrCodeBadArguments,
		ErrCodeAPIError, ErrCodeNoNode, ErrCodeNoAuth, ErrCodeBadVersion,
		ErrCodeNoChildrenForEphemerals, ErrCodeNodeExists, ErrCodeNotEmpty,
		ErrCodeSessionExpired, ErrCodeInvalidCallback, ErrCodeInvalidACL,
		ErrCodeAuthFailed, ErrCodeClosing, ErrCodeNothing, ErrCodeSessionMoved,
	}
}

func errCodeName(code ErrCode) (string, bool) {
	switch code {
	case ErrCodeOK:
		return "ok", true
	case ErrCodeSystemError:
		return "systemerror", true
	case ErrCodeRuntimeInconsistency:
		return "runtimeinconsistency", true
	case ErrCodeDataInconsistency:
		return "datainconsistency", true
	case ErrCodeConnectionLoss:
		return "connectionloss", true
	case ErrCodeMarshallingError:
		return "marshallingerror", true
	case ErrCodeUnimplemented:
		return "unimplemented", true
	case ErrCodeOperationTimeout:
		return "operationtimeout", true
	case ErrCodeBadArguments:
		return "badarguments", true
	case ErrCodeAPIError:
		return "apierror", true
	case ErrCodeNoNode:
		return "nonode", true
	case ErrCodeNoAuth:
		return "noauth", true
	case ErrCodeBadVersion:
		return "badversion", true
	case ErrCodeNoChildrenForEphemerals:
		return "nochildrenforephemerals", true
	case ErrCodeNodeExists:
		return "nodeexists", true
	case ErrCodeNotEmpty:
		return "notempty", true
	case ErrCodeSessionExpired:
		return "sessionexpired", true
	case ErrCodeInvalidCallback:
		return "invalidcallback", true
	case ErrCodeInvalidACL:
		return "invalidacl", true
	case ErrCodeAuthFailed:
		return "authfailed", true
	case ErrCodeClosing:
		return "closing", true
	case ErrCodeNothing:
		return "nothing", true
	case ErrCodeSessionMoved:
		return "sessionmoved", true
	}
	return "", false
}

// ResolveErrorCode maps a raw error code to its symbolic name.
func ResolveErrorCode(code int32) (string, error) {
	name, ok := errCodeName(ErrCode(code))
	if !ok {
		return "", &UnknownErrorCodeError{Code: code}
	}
	return name, nil
}

func (c ErrCode) String() string {
	if name, ok := errCodeName(c); ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(c)) + ")"
}
