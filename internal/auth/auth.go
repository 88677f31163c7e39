// Package auth keeps account key seeds in the OS keychain.
package auth

import (
	"encoding/hex"
	"errors"
	"fmt"

	"nathanbeddoewebdev/safecore/internal/util"
)

const ServiceName = "safecore"

// currentKey is the keyring entry holding the name of the logged-in account.
const currentKey = "@current"

var ErrNotFound = errors.New("account seed not found")

type Store interface {
	SetSecret(account string, secret string) error
	GetSecret(account string) (string, error)
	DeleteSecret(account string) error
}

// DefaultStore returns the standard store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeAccount normalizes an account name for consistent key lookup.
func NormalizeAccount(account string) string {
	return util.NormalizeKey(account)
}

// SaveSeed stores the key seed for account and marks it as the current one.
func SaveSeed(s Store, account string, seed []byte) error {
	account = NormalizeAccount(account)
	if err := util.ValidateAccountName(account); err != nil {
		return err
	}
	if err := s.SetSecret(account, hex.EncodeToString(seed)); err != nil {
		return fmt.Errorf("auth: store seed: %w", err)
	}
	if err := s.SetSecret(currentKey, account); err != nil {
		return fmt.Errorf("auth: store current account: %w", err)
	}
	return nil
}

// LoadSeed returns the key seed saved for account.
func LoadSeed(s Store, account string) ([]byte, error) {
	secret, err := s.GetSecret(NormalizeAccount(account))
	if err != nil {
		return nil, err
	}
	seed, err := hex.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("auth: stored seed for %q is not hex: %w", account, err)
	}
	return seed, nil
}

// Current returns the account that last logged in.
func Current(s Store) (string, error) {
	return s.GetSecret(currentKey)
}

// Logout forgets account, and the current account marker if it points at it.
func Logout(s Store, account string) error {
	account = NormalizeAccount(account)
	if err := s.DeleteSecret(account); err != nil {
		return err
	}
	if cur, err := Current(s); err == nil && cur == account {
		if err := s.DeleteSecret(currentKey); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}
