package oplog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "safecore.db")
	r, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSave_AssignsIDAndTimestamp(t *testing.T) {
	r := tempRepo(t)

	entry := &Entry{Command: "safecore data get", Outcome: OutcomeSuccess, DurationMs: 7}
	if err := r.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if entry.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestList(t *testing.T) {
	r := tempRepo(t)

	for i := range 3 {
		entry := &Entry{
			Command:   "safecore data put",
			Outcome:   OutcomeSuccess,
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := r.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Timestamp.Before(entries[1].Timestamp) {
		t.Error("expected entries sorted by timestamp descending")
	}
}

func TestListByKind(t *testing.T) {
	r := tempRepo(t)

	saved := []*Entry{
		{Command: "safecore data get", Outcome: OutcomeError, ErrorKind: "RequestTimeout", Detail: "Request has timed out"},
		{Command: "safecore data get", Outcome: OutcomeSuccess},
		{Command: "safecore file fetch", Outcome: OutcomeError, ErrorKind: "SelfEncryption"},
	}
	for _, entry := range saved {
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	got, err := r.ListByKind("RequestTimeout", 10)
	if err != nil {
		t.Fatalf("ListByKind failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	want := *saved[0]
	if diff := cmp.Diff(want.Detail, got[0].Detail); diff != "" {
		t.Errorf("detail mismatch (-want +got):\n%s", diff)
	}
	if got[0].ID != want.ID || got[0].Command != want.Command {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestPrune(t *testing.T) {
	r := tempRepo(t)

	old := &Entry{Command: "old", Outcome: OutcomeSuccess, Timestamp: time.Now().UTC().Add(-48 * time.Hour)}
	recent := &Entry{Command: "recent", Outcome: OutcomeSuccess}
	for _, entry := range []*Entry{old, recent} {
		if err := r.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	n, err := r.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned entry, got %d", n)
	}

	entries, err := r.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Command != "recent" {
		t.Errorf("unexpected remaining entries: %+v", entries)
	}
}

func TestSanitizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"plain", []string{"data", "get", "abc"}, []string{"data", "get", "abc"}},
		{"separate value", []string{"login", "--password", "hunter2", "alice"}, []string{"login", "--password", "<redacted>", "alice"}},
		{"inline value", []string{"login", "--password=hunter2"}, []string{"login", "--password=<redacted>"}},
		{"dangling flag", []string{"login", "--seed"}, []string{"login", "--seed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SanitizeArgs(tt.in)); diff != "" {
				t.Errorf("SanitizeArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMetadata(t *testing.T) {
	ctx := WithMetadata(context.Background(), Metadata{Account: "alice"})
	ctx = WithMetadata(ctx, Metadata{DataName: "ab12"})

	want := Metadata{Account: "alice", DataName: "ab12"}
	if diff := cmp.Diff(want, MetadataFromContext(ctx)); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
	if got := MetadataFromContext(context.Background()); got != (Metadata{}) {
		t.Errorf("expected empty metadata, got %+v", got)
	}
}
