// Package store provides the persistent session store: a small key-value
// table in a per-user SQLite database holding the bearer token, the cached
// credit balance, the optional third-party inference API key, and the
// site-unlock flag.
//
// This is the Go analogue of the browser's per-origin local storage: values
// survive process restarts, are stored as plain strings with no expiry, and
// reads never fail on missing keys. Plaintext storage is an accepted
// limitation of the product, not something to fix here silently.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver
)

// Keys used in the settings table. These mirror the local-storage keys of
// the web client one for one.
const (
	keyToken        = "token"
	keyCredits      = "credits"
	keyAPIKey       = "apiKey"
	keySiteUnlocked = "siteUnlocked"
)

// SessionStore wraps the SQLite-backed settings table.
// Safe for use from multiple goroutines: database/sql serializes access.
type SessionStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the session database at the given path and
// applies any pending schema migrations. Parent directories are created
// as needed.
//
// Example:
//
//	st, err := store.Open(core.GetDataFilePath("session.db"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
func Open(path string) (*SessionStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store: database path is required")
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("store: failed to create data directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}

	return &SessionStore{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SessionStore) Path() string {
	return s.path
}

// Token returns the stored bearer token, or "" if none is stored.
func (s *SessionStore) Token() string {
	return s.get(keyToken)
}

// SetToken persists the bearer token.
func (s *SessionStore) SetToken(token string) error {
	return s.set(keyToken, token)
}

// ClearToken removes the stored bearer token. Idempotent.
func (s *SessionStore) ClearToken() error {
	return s.delete(keyToken)
}

// Credits returns the cached credit balance and whether one is cached.
func (s *SessionStore) Credits() (int, bool) {
	raw := s.get(keyCredits)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetCredits caches the credit balance reported by the backend.
func (s *SessionStore) SetCredits(credits int) error {
	return s.set(keyCredits, strconv.Itoa(credits))
}

// ClearCredits removes the cached credit balance. Idempotent.
func (s *SessionStore) ClearCredits() error {
	return s.delete(keyCredits)
}

// APIKey returns the user-supplied inference API key, or "" if none.
func (s *SessionStore) APIKey() string {
	return s.get(keyAPIKey)
}

// SetAPIKey persists the user-supplied inference API key.
func (s *SessionStore) SetAPIKey(key string) error {
	return s.set(keyAPIKey, key)
}

// ClearAPIKey removes the stored inference API key. Idempotent.
func (s *SessionStore) ClearAPIKey() error {
	return s.delete(keyAPIKey)
}

// SiteUnlocked returns whether the site-wide password gate has been passed.
func (s *SessionStore) SiteUnlocked() bool {
	return s.get(keySiteUnlocked) == "true"
}

// SetSiteUnlocked persists the site-unlock flag.
func (s *SessionStore) SetSiteUnlocked(unlocked bool) error {
	return s.set(keySiteUnlocked, strconv.FormatBool(unlocked))
}

// get reads a value by key, returning "" on missing keys or read errors.
// Missing keys are the normal first-run case, not an error condition.
func (s *SessionStore) get(key string) string {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			// Treat read failures like missing keys; callers cannot
			// meaningfully recover beyond an anonymous session.
			return ""
		}
		return ""
	}
	return value
}

// set upserts a key-value pair.
func (s *SessionStore) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("store: failed to write %s: %w", key, err)
	}
	return nil
}

// delete removes a key. No error if the key does not exist.
func (s *SessionStore) delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("store: failed to delete %s: %w", key, err)
	}
	return nil
}
