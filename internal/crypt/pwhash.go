package crypt

import (
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"

	"nathanbeddoewebdev/safecore/internal/coreerr"
)

// SaltSize is the only salt length HashPassword accepts.
const SaltSize = 16

// MaxPwHashMemory is the largest memory cost, in KiB, HashPassword will
// attempt.
const MaxPwHashMemory = 1 << 21

// PwHashParams are the argon2id cost parameters.
type PwHashParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultPwHashParams follows the argon2id recommendation for interactive use.
var DefaultPwHashParams = PwHashParams{Time: 1, Memory: 64 * 1024, Threads: 4}

// HashPassword derives a KeySize key from password with argon2id. A salt of
// the wrong length returns ErrUnsupportedSaltSize; parameters the hash
// cannot run with return ErrUnsuccessfulPwHash.
func HashPassword(password, salt []byte, p PwHashParams) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, coreerr.ErrUnsupportedSaltSize
	}
	if p.Time == 0 || p.Threads == 0 || p.Memory > MaxPwHashMemory || p.Memory < 8*uint32(p.Threads) {
		return nil, coreerr.ErrUnsuccessfulPwHash
	}
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, KeySize), nil
}

// AccountSalt returns the salt used to hash the password of the named
// account.
func AccountSalt(name string) []byte {
	sum := sha3.Sum256([]byte("safecore/account/" + name))
	return sum[:SaltSize]
}

// AccountKeys derives an account's key pair from its name and password.
func AccountKeys(name string, password []byte, p PwHashParams) (*KeyPair, error) {
	seed, err := HashPassword(password, AccountSalt(name), p)
	if err != nil {
		return nil, err
	}
	return KeyPairFromSeed(seed)
}
