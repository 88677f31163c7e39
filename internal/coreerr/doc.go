// Package coreerr defines the single error type returned by every public
// client operation.
//
// An *Error belongs to exactly one Kind out of a closed set. Signal kinds
// carry no payload and are exposed as package-level values such as
// ErrOperationAborted. Wrapping kinds own exactly one error produced by a
// subsystem (codec, data, selfenc, transport, config or the OS) and return it
// unchanged from Unwrap, so errors.As reaches the original value.
//
// Each subsystem error type converts through one dedicated function
// (FromCodec, FromData, ...). The one exception is FromParse, which picks
// between KindIO and KindConfig from the parse error's Category. Classify
// applies the same rules to an arbitrary error chain.
//
// Two renderings are available. Error returns a short single-line sentence
// for end users. Debug appends the kind identifier and the type and text of
// every link in the cause chain. With fmt, %v and %s select the first and
// %+v selects the second.
//
// The package performs no I/O, does not log and does not retry.
package coreerr
