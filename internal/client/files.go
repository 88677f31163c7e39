package client

import (
	"context"
	"errors"

	"nathanbeddoewebdev/safecore/internal/chunkstore"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/crypt"
	"nathanbeddoewebdev/safecore/internal/selfenc"
)

// Encryptor self-encrypts files into the local chunk store.
type Encryptor = selfenc.Encryptor[*chunkstore.Error]

// NewEncryptor returns an Encryptor writing chunks to store.
func NewEncryptor(store *chunkstore.SQLiteStore, opts ...selfenc.Option) *Encryptor {
	return selfenc.New[*chunkstore.Error](store, opts...)
}

// StoreFile self-encrypts content and returns its data map sealed with key.
func (c *Client) StoreFile(ctx context.Context, enc *Encryptor, content []byte, key *[crypt.KeySize]byte) ([]byte, error) {
	if err := c.checkWritable(); err != nil {
		return nil, err
	}
	m, err := enc.Encrypt(ctx, content)
	if err != nil {
		return nil, selfEncryptionError(err)
	}
	c.log(ctx).WithField("chunks", len(m.Chunks)).Debug("file encrypted")
	return crypt.Seal(key, m.Encode(), nil)
}

// FetchFile opens a sealed data map and decrypts the file it describes.
func (c *Client) FetchFile(ctx context.Context, enc *Encryptor, sealedMap []byte, key *[crypt.KeySize]byte) ([]byte, error) {
	plain, err := crypt.Open(key, sealedMap)
	if err != nil {
		return nil, err
	}
	m, err := selfenc.DecodeDataMap(plain)
	if err != nil {
		return nil, toError(err)
	}
	content, err := enc.Decrypt(ctx, m)
	if err != nil {
		return nil, selfEncryptionError(err)
	}
	return content, nil
}

func selfEncryptionError(err error) error {
	var se *selfenc.Error[*chunkstore.Error]
	if errors.As(err, &se) {
		return coreerr.FromSelfEncryption(se)
	}
	return toError(err)
}
