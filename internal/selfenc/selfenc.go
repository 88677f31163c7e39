// Package selfenc implements convergent self-encryption of files.
//
// A file large enough to split is cut into at least three chunks. Each chunk
// is sealed with a key derived from the plaintext hashes of the two chunks
// before it (wrapping around), so identical files always produce identical
// chunks and no chunk can be read without its neighbours. Sealed chunks are
// written to a Storage under the hash of their ciphertext. The resulting
// DataMap lists the hashes needed to reverse the process.
package selfenc

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"

	"nathanbeddoewebdev/safecore/internal/data"
)

const (
	// MinChunkSize is the smallest chunk produced. Files shorter than
	// three chunks of this size are stored inline in the data map.
	MinChunkSize = 1 << 10

	// MaxChunkSize is the largest plaintext chunk produced.
	MaxChunkSize = 1 << 20

	minChunks = 3

	keySize   = 32
	nonceSize = 24

	defaultConcurrency = 4
)

// Storage holds sealed chunks by name.
type Storage interface {
	Get(ctx context.Context, name data.Name) ([]byte, error)
	Put(ctx context.Context, name data.Name, content []byte) error
}

// Encryptor splits, seals and stores files. S is the concrete error type
// returned by the storage; it is recovered from storage failures so callers
// see it in Error.Storage.
type Encryptor[S error] struct {
	store       Storage
	concurrency int
}

// Option configures an Encryptor.
type Option func(*options)

type options struct {
	concurrency int
}

// WithConcurrency bounds the number of chunks processed at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// New returns an Encryptor writing to store.
func New[S error](store Storage, opts ...Option) *Encryptor[S] {
	o := options{concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}
	return &Encryptor[S]{store: store, concurrency: o.concurrency}
}

// Encrypt seals content and writes its chunks to storage. Any failure is
// returned as *Error[S].
func (e *Encryptor[S]) Encrypt(ctx context.Context, content []byte) (*DataMap, error) {
	if len(content) < minChunks*MinChunkSize {
		inline := make([]byte, len(content))
		copy(inline, content)
		return &DataMap{Content: inline}, nil
	}

	bounds := chunkBounds(len(content))
	chunks := make([]ChunkInfo, len(bounds))
	for i, b := range bounds {
		chunks[i] = ChunkInfo{
			Index:   uint64(i),
			PreHash: data.NameOf(content[b.start:b.end]),
			Size:    uint64(b.end - b.start),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, b := range bounds {
		g.Go(func() error {
			key, nonce := chunkKey(chunks, i)
			sealed := secretbox.Seal(nil, content[b.start:b.end], &nonce, &key)
			name := data.NameOf(sealed)
			if err := e.store.Put(gctx, name, sealed); err != nil {
				return e.storageError(err)
			}
			chunks[i].PostHash = name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, e.asError(err)
	}
	return &DataMap{Chunks: chunks}, nil
}

// Decrypt reads the chunks listed in m and returns the original content.
// Any failure is returned as *Error[S].
func (e *Encryptor[S]) Decrypt(ctx context.Context, m *DataMap) ([]byte, error) {
	if m == nil {
		return nil, &Error[S]{Code: CodeDataMap, Err: errors.New("nil data map")}
	}
	if err := m.Validate(); err != nil {
		return nil, &Error[S]{Code: CodeDataMap, Err: err}
	}
	if len(m.Chunks) == 0 {
		out := make([]byte, len(m.Content))
		copy(out, m.Content)
		return out, nil
	}

	offsets := make([]uint64, len(m.Chunks)+1)
	for i, c := range m.Chunks {
		if c.Size > MaxChunkSize {
			return nil, &Error[S]{Code: CodeDataMap, Err: fmt.Errorf("chunk %d size %d exceeds %d", i, c.Size, MaxChunkSize)}
		}
		offsets[i+1] = offsets[i] + c.Size
	}
	out := make([]byte, offsets[len(m.Chunks)])

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, c := range m.Chunks {
		g.Go(func() error {
			sealed, err := e.store.Get(gctx, c.PostHash)
			if err != nil {
				return e.storageError(err)
			}
			if data.NameOf(sealed) != c.PostHash {
				return &Error[S]{Code: CodeIntegrity, Err: fmt.Errorf("chunk %d does not match its name %s", i, c.PostHash)}
			}
			key, nonce := chunkKey(m.Chunks, i)
			plain, ok := secretbox.Open(nil, sealed, &nonce, &key)
			if !ok {
				return &Error[S]{Code: CodeDecryption, Err: fmt.Errorf("chunk %d", i)}
			}
			if uint64(len(plain)) != c.Size || data.NameOf(plain) != c.PreHash {
				return &Error[S]{Code: CodeIntegrity, Err: fmt.Errorf("chunk %d plaintext does not match data map", i)}
			}
			copy(out[offsets[i]:], plain)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, e.asError(err)
	}
	return out, nil
}

// storageError keeps a storage failure typed when it is an S.
func (e *Encryptor[S]) storageError(err error) *Error[S] {
	var s S
	if errors.As(err, &s) {
		return &Error[S]{Code: CodeStorage, Storage: s}
	}
	return &Error[S]{Code: CodeGeneric, Err: err}
}

func (e *Encryptor[S]) asError(err error) *Error[S] {
	var se *Error[S]
	if errors.As(err, &se) {
		return se
	}
	return &Error[S]{Code: CodeGeneric, Err: err}
}

type bound struct{ start, end int }

// chunkBounds splits n bytes into at least three chunks of at most
// MaxChunkSize. All chunks but the last have the same length.
func chunkBounds(n int) []bound {
	count := (n + MaxChunkSize - 1) / MaxChunkSize
	if count < minChunks {
		count = minChunks
	}
	size := (n + count - 1) / count

	out := make([]bound, 0, count)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n || len(out) == count-1 {
			end = n
		}
		out = append(out, bound{start, end})
		if end == n {
			break
		}
	}
	return out
}

// chunkKey derives the key and nonce of chunk i from the plaintext hashes of
// chunks i-1 and i-2.
func chunkKey(chunks []ChunkInfo, i int) (key [keySize]byte, nonce [nonceSize]byte) {
	n := len(chunks)
	prev := chunks[(i+n-1)%n].PreHash
	prev2 := chunks[(i+n-2)%n].PreHash

	seed := make([]byte, 0, 2*data.NameSize)
	seed = append(seed, prev[:]...)
	seed = append(seed, prev2[:]...)

	var out [keySize + nonceSize]byte
	sha3.ShakeSum256(out[:], seed)
	copy(key[:], out[:keySize])
	copy(nonce[:], out[keySize:])
	return key, nonce
}
