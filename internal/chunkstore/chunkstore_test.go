package chunkstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/safecore/internal/data"
)

func tempStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "chunks.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	content := []byte("sealed chunk bytes")
	name := data.NameOf(content)

	if err := s.Put(ctx, name, content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, name)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(content, got); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestPut_Idempotent(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	content := []byte("same")
	name := data.NameOf(content)
	for i := 0; i < 3; i++ {
		if err := s.Put(ctx, name, content); err != nil {
			t.Fatalf("Put #%d failed: %v", i, err)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 chunk, got %d", n)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := tempStore(t)
	name := data.NameOf([]byte("never stored"))

	_, err := s.Get(context.Background(), name)

	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if se.Op != "get" || se.Name != name.String() {
		t.Errorf("unexpected error fields: %+v", se)
	}
	if !errors.Is(err, ErrChunkNotFound) {
		t.Errorf("expected ErrChunkNotFound in chain, got %v", err)
	}
}

func TestHas(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	content := []byte("present")
	name := data.NameOf(content)

	ok, err := s.Has(ctx, name)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if ok {
		t.Error("expected Has to be false before Put")
	}

	if err := s.Put(ctx, name, content); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	ok, err = s.Has(ctx, name)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !ok {
		t.Error("expected Has to be true after Put")
	}
}

func TestClosedStoreReportsError(t *testing.T) {
	s, err := OpenAt(filepath.Join(t.TempDir(), "chunks.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	s.Close()

	err = s.Put(context.Background(), data.NameOf(nil), []byte("x"))
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if se.Op != "put" {
		t.Errorf("Op = %q, want put", se.Op)
	}
}

func TestError_Text(t *testing.T) {
	e := &Error{Op: "count", Err: errors.New("disk gone")}
	if got, want := e.Error(), "chunkstore: count: disk gone"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
