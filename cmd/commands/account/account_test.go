package account

import (
	"bytes"
	"strings"
	"testing"

	"nathanbeddoewebdev/safecore/internal/auth"
)

func useMockStore(t *testing.T) *auth.MockStore {
	t.Helper()
	store := auth.NewMockStore()
	newStore = func() auth.Store { return store }
	t.Cleanup(func() { newStore = auth.DefaultStore })
	return store
}

func execAccount(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestLoginStatusLogout(t *testing.T) {
	store := useMockStore(t)

	stdout, stderr := execAccount(t, "login", "Alice", "--password", "hunter2")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "alice") {
		t.Errorf("expected normalized account name, got: %s", stdout)
	}
	if _, err := auth.LoadSeed(store, "alice"); err != nil {
		t.Fatalf("seed not stored: %v", err)
	}

	stdout, _ = execAccount(t, "status")
	if !strings.Contains(stdout, "alice") || !strings.Contains(stdout, "Public key") {
		t.Errorf("unexpected status: %s", stdout)
	}

	stdout, stderr = execAccount(t, "logout")
	if stderr != "" || !strings.Contains(stdout, "Logged out of alice") {
		t.Errorf("unexpected logout output: %q / %q", stdout, stderr)
	}

	stdout, _ = execAccount(t, "status")
	if !strings.Contains(stdout, "not logged in") {
		t.Errorf("expected not logged in, got: %s", stdout)
	}
}

func TestLogin_SamePasswordSameKey(t *testing.T) {
	useMockStore(t)

	first, _ := execAccount(t, "login", "bob", "--password", "pw")
	second, _ := execAccount(t, "login", "bob", "--password", "pw")
	if first != second {
		t.Errorf("expected identical output, got %q and %q", first, second)
	}
}

func TestLogin_InvalidName(t *testing.T) {
	useMockStore(t)

	_, stderr := execAccount(t, "login", "a!", "--password", "pw")
	if !strings.Contains(stderr, "account name") {
		t.Errorf("expected account name error, got: %s", stderr)
	}
}

func TestRoot_NotLoggedIn(t *testing.T) {
	useMockStore(t)

	_, stderr := execAccount(t, "root", "show")
	if !strings.Contains(stderr, "not logged in") {
		t.Errorf("expected not logged in error, got: %s", stderr)
	}
}
