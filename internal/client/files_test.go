package client

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"nathanbeddoewebdev/safecore/internal/chunkstore"
	"nathanbeddoewebdev/safecore/internal/coreerr"
	"nathanbeddoewebdev/safecore/internal/crypt"
	"nathanbeddoewebdev/safecore/internal/selfenc"
)

func newEncryptor(t *testing.T) *Encryptor {
	t.Helper()
	store, err := chunkstore.OpenAt(filepath.Join(t.TempDir(), "chunks.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewEncryptor(store)
}

func randomContent(n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(int64(n))).Read(b)
	return b
}

func TestFiles_RoundTrip(t *testing.T) {
	c := New(nil, nil)
	enc := newEncryptor(t)
	key := crypt.SubKey(testKeys(t, 1), "datamap")
	ctx := context.Background()

	for _, size := range []int{10, 3 * selfenc.MinChunkSize, 50 << 10} {
		content := randomContent(size)
		sealed, err := c.StoreFile(ctx, enc, content, key)
		if err != nil {
			t.Fatalf("StoreFile(%d) failed: %v", size, err)
		}
		got, err := c.FetchFile(ctx, enc, sealed, key)
		if err != nil {
			t.Fatalf("FetchFile(%d) failed: %v", size, err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("size %d: content mismatch", size)
		}
	}
}

func TestFiles_WrongKey(t *testing.T) {
	c := New(nil, nil)
	enc := newEncryptor(t)
	ctx := context.Background()

	sealed, err := c.StoreFile(ctx, enc, randomContent(100), crypt.SubKey(testKeys(t, 1), "datamap"))
	if err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}
	_, err = c.FetchFile(ctx, enc, sealed, crypt.SubKey(testKeys(t, 2), "datamap"))
	if !errors.Is(err, coreerr.ErrSymmetricDecipher) {
		t.Fatalf("expected SymmetricDecipherFailure, got %v", err)
	}
}

func TestFiles_MissingChunks(t *testing.T) {
	c := New(nil, nil)
	key := crypt.SubKey(testKeys(t, 1), "datamap")
	ctx := context.Background()

	sealed, err := c.StoreFile(ctx, newEncryptor(t), randomContent(20<<10), key)
	if err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}

	_, err = c.FetchFile(ctx, newEncryptor(t), sealed, key)
	if !coreerr.IsKind(err, coreerr.KindSelfEncryption) {
		t.Fatalf("expected SelfEncryption, got %v", err)
	}
	if !errors.Is(err, chunkstore.ErrChunkNotFound) {
		t.Errorf("expected ErrChunkNotFound cause, got %v", err)
	}
	var se *selfenc.Error[*chunkstore.Error]
	if !errors.As(err, &se) || se.Code != selfenc.CodeStorage || se.Storage == nil {
		t.Errorf("expected typed storage error, got %#v", err)
	}
}

func TestFiles_MalformedMap(t *testing.T) {
	c := New(nil, nil)
	key := crypt.SubKey(testKeys(t, 1), "datamap")

	sealed, err := crypt.Seal(key, []byte{0xff}, nil)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	_, err = c.FetchFile(context.Background(), newEncryptor(t), sealed, key)
	if !coreerr.IsKind(err, coreerr.KindEncodeDecode) {
		t.Fatalf("expected EncodeDecodeError, got %v", err)
	}
}
