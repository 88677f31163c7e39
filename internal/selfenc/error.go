package selfenc

import "fmt"

// Code identifies the stage of self-encryption that failed.
type Code uint8

const (
	// CodeGeneric covers failures that fit no other code, such as a storage
	// error of an unexpected type.
	CodeGeneric Code = iota
	CodeEncryption
	CodeDecryption
	// CodeIntegrity means a chunk did not hash to the name recorded for it.
	CodeIntegrity
	// CodeDataMap means the data map is malformed or inconsistent.
	CodeDataMap
	// CodeStorage means the storage collaborator failed; the error is in
	// Error.Storage.
	CodeStorage
)

var codeNames = [...]string{
	CodeGeneric:    "generic error",
	CodeEncryption: "encryption failed",
	CodeDecryption: "decryption failed",
	CodeIntegrity:  "integrity check failed",
	CodeDataMap:    "invalid data map",
	CodeStorage:    "storage failure",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// Error is returned by Encryptor. S is the error type of the storage in use;
// when Code is CodeStorage the storage error is kept, typed, in Storage.
type Error[S error] struct {
	Code    Code
	Storage S
	Err     error
}

func (e *Error[S]) Error() string {
	if e.Code == CodeStorage {
		return fmt.Sprintf("selfenc: %s: %v", e.Code, e.Storage)
	}
	if e.Err == nil {
		return "selfenc: " + e.Code.String()
	}
	return fmt.Sprintf("selfenc: %s: %v", e.Code, e.Err)
}

// Unwrap returns the storage error for CodeStorage and Err otherwise.
func (e *Error[S]) Unwrap() error {
	if e.Code == CodeStorage {
		return e.Storage
	}
	return e.Err
}
