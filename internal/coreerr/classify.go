package coreerr

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"syscall"

	"nathanbeddoewebdev/safecore/internal/chunkstore"
	"nathanbeddoewebdev/safecore/internal/codec"
	"nathanbeddoewebdev/safecore/internal/config"
	"nathanbeddoewebdev/safecore/internal/data"
	"nathanbeddoewebdev/safecore/internal/events"
	"nathanbeddoewebdev/safecore/internal/selfenc"
	"nathanbeddoewebdev/safecore/internal/transport"
)

// ioSentinels are the io and fs package errors that count as I/O failures
// when they reach Classify on their own.
var ioSentinels = []error{
	io.EOF,
	io.ErrUnexpectedEOF,
	io.ErrShortWrite,
	io.ErrShortBuffer,
	io.ErrClosedPipe,
	io.ErrNoProgress,
	fs.ErrClosed,
	os.ErrDeadlineExceeded,
}

// Classify converts err using the conversion designated for its type. It
// walks the Unwrap chain from the outside in and the first recognised error
// decides. An error that already is an *Error is returned unchanged.
//
// Errors of unknown type report false; they are never turned into
// KindUnexpected.
func Classify(err error) (*Error, bool) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ce := convert(e); ce != nil {
			return ce, true
		}
	}
	return nil, false
}

// convert handles a single link of a chain without unwrapping it.
func convert(err error) *Error {
	switch e := err.(type) {
	case *Error:
		return e
	case *config.ParseError:
		return FromParse(e)
	case *codec.Error:
		return FromCodec(e)
	case *data.Error:
		return FromData(e)
	case *selfenc.Error[*chunkstore.Error]:
		return FromSelfEncryption(e)
	case *transport.Error:
		return FromTransport(e)
	case *events.SendError:
		return FromSend(e)
	case events.RecvError:
		return FromRecv(e)
	case *fs.PathError, *os.LinkError, *os.SyscallError, syscall.Errno:
		return FromIO(err)
	}

	if err == context.Canceled || err == context.DeadlineExceeded {
		return FromContext(err)
	}
	for _, s := range ioSentinels {
		if err == s {
			return FromIO(err)
		}
	}
	return nil
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) && ce != nil {
		return ce.kind, true
	}
	return 0, false
}

// IsKind reports whether err's chain holds an *Error of kind k.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}
