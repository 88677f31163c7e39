package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetSecret(account string, secret string) error {
	return keyring.Set(k.serviceName, account, secret)
}

func (k *KeyringStore) GetSecret(account string) (string, error) {
	secret, err := keyring.Get(k.serviceName, account)
	if err == nil {
		return secret, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteSecret(account string) error {
	err := keyring.Delete(k.serviceName, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
