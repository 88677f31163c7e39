// Package data defines the content-addressed data types stored on the
// network and the errors the data layer reports about them.
package data

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// NameSize is the length of a network address in bytes.
const NameSize = 32

// MaxImmutableSize is the largest value accepted as a single immutable chunk.
const MaxImmutableSize = 1 << 20

// Name is a 256-bit network address.
type Name [NameSize]byte

// NameOf returns the content address of value.
func NameOf(value []byte) Name {
	return sha3.Sum256(value)
}

// String returns the lowercase hex encoding of the name.
func (n Name) String() string {
	return hex.EncodeToString(n[:])
}

// ParseName decodes a hex-encoded name.
func ParseName(s string) (Name, error) {
	var n Name
	b, err := hex.DecodeString(s)
	if err != nil {
		return n, fmt.Errorf("data: invalid name %q: %w", s, err)
	}
	if len(b) != NameSize {
		return n, fmt.Errorf("data: invalid name length %d, want %d", len(b), NameSize)
	}
	copy(n[:], b)
	return n, nil
}

// NameFromBytes copies b into a Name. It reports an InvalidContent error
// when b has the wrong length.
func NameFromBytes(b []byte) (Name, error) {
	var n Name
	if len(b) != NameSize {
		return n, Errorf(CodeInvalidContent, "name must be %d bytes, got %d", NameSize, len(b))
	}
	copy(n[:], b)
	return n, nil
}

// ImmutableData is a value addressed by the hash of its content.
type ImmutableData struct {
	Value []byte
}

// Name returns the content address of the data.
func (d ImmutableData) Name() Name {
	return NameOf(d.Value)
}

// Validate checks that the data fits in a chunk and hashes to want.
func (d ImmutableData) Validate(want Name) error {
	if len(d.Value) > MaxImmutableSize {
		return Errorf(CodeExceededSize, "%d bytes exceeds limit of %d", len(d.Value), MaxImmutableSize)
	}
	if got := d.Name(); got != want {
		return Errorf(CodeInvalidContent, "content hashes to %s, expected %s", got, want)
	}
	return nil
}

// MutableData is a versioned value stored under a caller-chosen name.
// Versions start at zero and must increase by exactly one per update.
type MutableData struct {
	Name    Name
	Version uint64
	Value   []byte
}
