package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Error describes a failure to serialise or deserialise a message.
type Error struct {
	// Op names the step that failed, e.g. "decode tag" or "validate".
	Op string

	// Field is the field number being processed, or zero when the failure
	// is not tied to a single field.
	Field protowire.Number

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Field != 0 {
		return fmt.Sprintf("codec: %s (field %d): %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("codec: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
