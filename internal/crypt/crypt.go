// Package crypt wraps the primitives the client uses: anonymous public-key
// boxes, secret boxes, password hashing and randomness. Failures are
// returned as *coreerr.Error signal values.
package crypt

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/sha3"

	"nathanbeddoewebdev/safecore/internal/coreerr"
)

const (
	// KeySize is the size of every public, secret and symmetric key.
	KeySize = 32

	// NonceSize is the size of the nonce prefixed to a secret box.
	NonceSize = 24

	// SeedSize is the size of the seed a key pair is derived from.
	SeedSize = 32
)

// KeyPair is a curve25519 key pair used to seal data to an account.
type KeyPair struct {
	Public [KeySize]byte
	Secret [KeySize]byte
}

func reader(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}
	return r
}

// RandomBytes reads n random bytes from r, or from crypto/rand when r is nil.
func RandomBytes(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(reader(r), b); err != nil {
		return nil, coreerr.ErrRandomDataGeneration
	}
	return b, nil
}

// GenerateKey returns a random symmetric key.
func GenerateKey(r io.Reader) (*[KeySize]byte, error) {
	b, err := RandomBytes(r, KeySize)
	if err != nil {
		return nil, err
	}
	var key [KeySize]byte
	copy(key[:], b)
	return &key, nil
}

// GenerateKeyPair returns a random key pair.
func GenerateKeyPair(r io.Reader) (*KeyPair, error) {
	seed, err := RandomBytes(r, SeedSize)
	if err != nil {
		return nil, err
	}
	return KeyPairFromSeed(seed)
}

// KeyPairFromSeed derives a key pair deterministically from seed.
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, coreerr.Unexpectedf("key seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	pub, err := curve25519.X25519(seed, curve25519.Basepoint)
	if err != nil {
		return nil, coreerr.Unexpectedf("deriving public key: %v", err)
	}
	kp := &KeyPair{}
	copy(kp.Secret[:], seed)
	copy(kp.Public[:], pub)
	return kp, nil
}

// SealAnonymous encrypts msg so that only the holder of the secret key
// matching pub can read it.
func SealAnonymous(pub *[KeySize]byte, msg []byte, r io.Reader) ([]byte, error) {
	out, err := box.SealAnonymous(nil, msg, pub, reader(r))
	if err != nil {
		return nil, coreerr.ErrRandomDataGeneration
	}
	return out, nil
}

// OpenAnonymous decrypts a box produced by SealAnonymous.
func OpenAnonymous(kp *KeyPair, sealed []byte) ([]byte, error) {
	msg, ok := box.OpenAnonymous(nil, sealed, &kp.Public, &kp.Secret)
	if !ok {
		return nil, coreerr.ErrAsymmetricDecipher
	}
	return msg, nil
}

// Seal encrypts msg with key under a random nonce, which is prepended to the
// result.
func Seal(key *[KeySize]byte, msg []byte, r io.Reader) ([]byte, error) {
	b, err := RandomBytes(r, NonceSize)
	if err != nil {
		return nil, err
	}
	var nonce [NonceSize]byte
	copy(nonce[:], b)
	return secretbox.Seal(nonce[:], msg, &nonce, key), nil
}

// Open decrypts a box produced by Seal.
func Open(key *[KeySize]byte, sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize+secretbox.Overhead {
		return nil, coreerr.ErrSymmetricDecipher
	}
	var nonce [NonceSize]byte
	copy(nonce[:], sealed[:NonceSize])
	msg, ok := secretbox.Open(nil, sealed[NonceSize:], &nonce, key)
	if !ok {
		return nil, coreerr.ErrSymmetricDecipher
	}
	return msg, nil
}

// SubKey derives a symmetric key for one purpose from the account key pair.
func SubKey(kp *KeyPair, label string) *[KeySize]byte {
	h := sha3.New256()
	h.Write([]byte("safecore/subkey/" + label + "/"))
	h.Write(kp.Secret[:])
	var key [KeySize]byte
	copy(key[:], h.Sum(nil))
	return &key
}
