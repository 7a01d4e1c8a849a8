package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SessionStore {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "session.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") should fail")
	}
}

func TestSessionStore_MissingKeysReturnEmpty(t *testing.T) {
	st := openTestStore(t)

	if got := st.Token(); got != "" {
		t.Errorf("Token() on fresh store = %q, want empty", got)
	}
	if got := st.APIKey(); got != "" {
		t.Errorf("APIKey() on fresh store = %q, want empty", got)
	}
	if _, ok := st.Credits(); ok {
		t.Error("Credits() on fresh store should report not cached")
	}
	if st.SiteUnlocked() {
		t.Error("SiteUnlocked() on fresh store should be false")
	}
}

func TestSessionStore_TokenRoundTrip(t *testing.T) {
	st := openTestStore(t)

	if err := st.SetToken("T1"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	if got := st.Token(); got != "T1" {
		t.Errorf("Token() = %q, want %q", got, "T1")
	}

	// Overwrite
	if err := st.SetToken("T2"); err != nil {
		t.Fatalf("SetToken() overwrite error: %v", err)
	}
	if got := st.Token(); got != "T2" {
		t.Errorf("Token() after overwrite = %q, want %q", got, "T2")
	}

	if err := st.ClearToken(); err != nil {
		t.Fatalf("ClearToken() error: %v", err)
	}
	if got := st.Token(); got != "" {
		t.Errorf("Token() after clear = %q, want empty", got)
	}

	// Clearing again is idempotent
	if err := st.ClearToken(); err != nil {
		t.Errorf("ClearToken() second call error: %v", err)
	}
}

func TestSessionStore_Credits(t *testing.T) {
	st := openTestStore(t)

	if err := st.SetCredits(5); err != nil {
		t.Fatalf("SetCredits() error: %v", err)
	}
	credits, ok := st.Credits()
	if !ok {
		t.Fatal("Credits() should report cached after SetCredits")
	}
	if credits != 5 {
		t.Errorf("Credits() = %d, want 5", credits)
	}

	if err := st.ClearCredits(); err != nil {
		t.Fatalf("ClearCredits() error: %v", err)
	}
	if _, ok := st.Credits(); ok {
		t.Error("Credits() should report not cached after clear")
	}
}

func TestSessionStore_SiteUnlocked(t *testing.T) {
	st := openTestStore(t)

	if err := st.SetSiteUnlocked(true); err != nil {
		t.Fatalf("SetSiteUnlocked() error: %v", err)
	}
	if !st.SiteUnlocked() {
		t.Error("SiteUnlocked() = false after SetSiteUnlocked(true)")
	}

	if err := st.SetSiteUnlocked(false); err != nil {
		t.Fatalf("SetSiteUnlocked(false) error: %v", err)
	}
	if st.SiteUnlocked() {
		t.Error("SiteUnlocked() = true after SetSiteUnlocked(false)")
	}
}

func TestSessionStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := st.SetToken("persisted"); err != nil {
		t.Fatalf("SetToken() error: %v", err)
	}
	if err := st.SetAPIKey("hf_testkey"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	if got := reopened.Token(); got != "persisted" {
		t.Errorf("Token() after reopen = %q, want %q", got, "persisted")
	}
	if got := reopened.APIKey(); got != "hf_testkey" {
		t.Errorf("APIKey() after reopen = %q, want %q", got, "hf_testkey")
	}
}
