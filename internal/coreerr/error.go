package coreerr

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Error is the failure returned by client operations. Values are immutable
// once built and may be shared between goroutines.
type Error struct {
	kind  Kind
	msg   string // KindUnexpected only
	cause error  // wrapping kinds only
}

// Signal errors. They are returned as-is and compare with errors.Is.
var (
	ErrAsymmetricDecipher      = &Error{kind: KindAsymmetricDecipher}
	ErrSymmetricDecipher       = &Error{kind: KindSymmetricDecipher}
	ErrReceivedUnexpectedData  = &Error{kind: KindReceivedUnexpectedData}
	ErrReceivedUnexpectedEvent = &Error{kind: KindReceivedUnexpectedEvent}
	ErrVersionCacheMiss        = &Error{kind: KindVersionCacheMiss}
	ErrRootDirectoryExists     = &Error{kind: KindRootDirectoryExists}
	ErrRandomDataGeneration    = &Error{kind: KindRandomDataGeneration}
	ErrOperationForbidden      = &Error{kind: KindOperationForbidden}
	ErrUnsupportedSaltSize     = &Error{kind: KindUnsupportedSaltSize}
	ErrUnsuccessfulPwHash      = &Error{kind: KindUnsuccessfulPwHash}
	ErrOperationAborted        = &Error{kind: KindOperationAborted}
	ErrRequestTimeout          = &Error{kind: KindRequestTimeout}
)

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Kind returns the failure category of e. A nil *Error reports
// KindUnexpected.
func (e *Error) Kind() Kind {
	if e == nil {
		return KindUnexpected
	}
	return e.kind
}

// Message returns the text given to Unexpected, or "" for any other kind.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// Error returns the single-line display rendering of e.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.kind >= numKinds {
		return "Unknown error " + e.kind.String()
	}

	switch kindShapes[e.kind] {
	case shapeMessage:
		if e.msg == "" {
			return "Unexpected error"
		}
		return kindText[e.kind] + newlines.Replace(e.msg)
	case shapeWrapping:
		return kindText[e.kind] + newlines.Replace(text(e.cause))
	}
	return kindText[e.kind]
}

// Debug returns the diagnostic rendering of e: the display text, the kind
// identifier, then the type and text of each error in the cause chain.
//
//	Io error: open x: permission denied - coreerr.IoError -> *fs.PathError("open x: permission denied") -> syscall.Errno("permission denied")
func (e *Error) Debug() string {
	if e == nil {
		return "<nil>"
	}

	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteString(" - coreerr.")
	b.WriteString(e.kind.String())

	if e.kind < numKinds {
		switch kindShapes[e.kind] {
		case shapeMessage:
			fmt.Fprintf(&b, "{%q}", e.msg)
		case shapeWrapping:
			for c := e.cause; c != nil; c = errors.Unwrap(c) {
				fmt.Fprintf(&b, " -> %T(%q)", c, c.Error())
			}
		}
	}
	return b.String()
}

// Format implements fmt.Formatter. %v and %s print the display rendering,
// %+v and %#v print Debug, %q prints the quoted display rendering.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') || s.Flag('#') {
			io.WriteString(s, e.Debug())
			return
		}
		io.WriteString(s, e.Error())
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		fmt.Fprintf(s, "%%!%c(*coreerr.Error=%s)", verb, e.Error())
	}
}

// Unwrap returns the subsystem error held by a wrapping kind, or nil.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is reports whether target is a signal error of the same kind, so that
// errors.Is(err, ErrRequestTimeout) holds for any timeout.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil || e == nil {
		return false
	}
	return t.kind == e.kind && t.cause == nil && t.msg == "" && !t.kind.Wraps()
}

func text(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
