package coreerr

import (
	"context"
	"errors"
	"fmt"

	"nathanbeddoewebdev/safecore/internal/chunkstore"
	"nathanbeddoewebdev/safecore/internal/codec"
	"nathanbeddoewebdev/safecore/internal/config"
	"nathanbeddoewebdev/safecore/internal/data"
	"nathanbeddoewebdev/safecore/internal/events"
	"nathanbeddoewebdev/safecore/internal/selfenc"
	"nathanbeddoewebdev/safecore/internal/transport"
)

// Every From function returns nil for a nil input.

// FromCodec wraps a serialisation failure.
func FromCodec(err *codec.Error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindEncodeDecode, cause: err}
}

// FromData wraps a data layer failure.
func FromData(err *data.Error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindData, cause: err}
}

// FromSelfEncryption wraps a self-encryption failure over the chunk store.
func FromSelfEncryption(err *selfenc.Error[*chunkstore.Error]) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindSelfEncryption, cause: err}
}

// FromTransport wraps a transport failure.
func FromTransport(err *transport.Error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindTransport, cause: err}
}

// FromIO wraps a failure reported by the OS or the io package.
func FromIO(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: KindIO, cause: err}
}

// parseKinds maps a config parse category to the kind it converts to. A
// failed read may succeed if retried, everything else needs the file fixed.
var parseKinds = [...]Kind{
	config.CategoryIO:     KindIO,
	config.CategorySyntax: KindConfig,
	config.CategoryData:   KindConfig,
	config.CategoryEOF:    KindConfig,
}

// FromParse converts a config parse failure. It is the only conversion that
// looks at the value it is given: the error's Category selects KindIO or
// KindConfig. Either way the *config.ParseError itself is the cause.
func FromParse(err *config.ParseError) *Error {
	if err == nil {
		return nil
	}
	kind := KindConfig
	if int(err.Classify()) < len(parseKinds) {
		kind = parseKinds[err.Classify()]
	}
	return &Error{kind: kind, cause: err}
}

// Unexpected reports a broken invariant in the client's own logic. It must
// not be used to re-wrap a typed subsystem error.
func Unexpected(msg string) *Error {
	return &Error{kind: KindUnexpected, msg: msg}
}

// Unexpectedf is Unexpected with a formatted message.
func Unexpectedf(format string, args ...any) *Error {
	return Unexpected(fmt.Sprintf(format, args...))
}

// FromSend converts a failed event send into KindUnexpected; the message
// embeds the send error's text.
func FromSend(err *events.SendError) *Error {
	if err == nil {
		return nil
	}
	return Unexpected("Couldn't send message to the channel: " + err.Error())
}

// FromRecv converts a receive on a closed event channel. The failed receive
// is the cancellation, so the result is always ErrOperationAborted.
func FromRecv(events.RecvError) *Error {
	return ErrOperationAborted
}

// FromContext converts the error of a finished context. An expired deadline
// becomes ErrRequestTimeout and a cancellation ErrOperationAborted. Any
// other error returns nil.
func FromContext(err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrRequestTimeout
	case errors.Is(err, context.Canceled):
		return ErrOperationAborted
	}
	return nil
}
