package data

import "fmt"

// Code identifies why the data layer rejected an operation.
type Code uint8

const (
	CodeNetworkOther Code = iota
	CodeNoSuchData
	CodeDataExists
	CodeInvalidVersion
	CodeInvalidContent
	CodeExceededSize
	CodeAccessDenied
)

var codeNames = [...]string{
	CodeNetworkOther:   "network error",
	CodeNoSuchData:     "requested data not found",
	CodeDataExists:     "data given already exists",
	CodeInvalidVersion: "invalid version",
	CodeInvalidContent: "invalid content",
	CodeExceededSize:   "size limit exceeded",
	CodeAccessDenied:   "access denied",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// Error is returned by the data layer, either locally while validating data
// or by a vault in response to a request.
type Error struct {
	Code Code
	Msg  string
}

// Errorf builds an Error with a formatted detail message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Msg
}

// Is matches another *Error with the same code, so callers can write
// errors.Is(err, &data.Error{Code: data.CodeNoSuchData}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
