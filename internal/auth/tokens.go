// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Token row names. The store holds exactly these two values per origin.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// tokensSchema creates the key-value table. One row-set per backend
// origin, mirroring the browser's per-origin storage scoping.
const tokensSchema = `
CREATE TABLE IF NOT EXISTS tokens (
	origin     TEXT NOT NULL,
	name       TEXT NOT NULL,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (origin, name)
);`

// TokenStore is the durable mirror of the session's token pair. Values
// are sealed at rest; the store never inspects token contents.
type TokenStore struct {
	db     *sql.DB
	origin string
	sealer *sealer
}

// NewTokenStore opens (or creates) the token database under dir, scoped
// to the given backend origin. dir defaults to ~/.mentorae when empty.
func NewTokenStore(dir, origin string) (*TokenStore, error) {
	if origin == "" {
		return nil, fmt.Errorf("token store requires an origin")
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".mentorae")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}

	sealer, err := newSealer(filepath.Join(dir, "tokens.key"))
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "tokens.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open token database: %w", err)
	}
	if _, err := db.Exec(tokensSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token database: %w", err)
	}
	// Token material only; keep it private.
	os.Chmod(dbPath, 0600)

	return &TokenStore{db: db, origin: origin, sealer: sealer}, nil
}

// Save persists the token pair, replacing any previous values.
func (s *TokenStore) Save(access, refresh string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for name, value := range map[string]string{
		keyAccessToken:  access,
		keyRefreshToken: refresh,
	} {
		sealed, err := s.sealer.seal([]byte(value))
		if err != nil {
			return fmt.Errorf("failed to save tokens: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO tokens (origin, name, value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (origin, name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			s.origin, name, sealed, now,
		)
		if err != nil {
			return fmt.Errorf("failed to save tokens: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// Load returns the stored token pair. ok is false when either value is
// missing or unreadable.
func (s *TokenStore) Load() (access, refresh string, ok bool) {
	rows, err := s.db.Query(`SELECT name, value FROM tokens WHERE origin = ?`, s.origin)
	if err != nil {
		return "", "", false
	}
	defer rows.Close()

	found := map[string]string{}
	for rows.Next() {
		var name string
		var sealed []byte
		if err := rows.Scan(&name, &sealed); err != nil {
			return "", "", false
		}
		plain, err := s.sealer.open(sealed)
		if err != nil {
			// Unreadable token material is as good as absent.
			return "", "", false
		}
		found[name] = string(plain)
	}
	if rows.Err() != nil {
		return "", "", false
	}

	access, refresh = found[keyAccessToken], found[keyRefreshToken]
	if access == "" || refresh == "" {
		return "", "", false
	}
	return access, refresh, true
}

// Clear removes the stored token pair.
func (s *TokenStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM tokens WHERE origin = ?`, s.origin); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *TokenStore) Close() error {
	return s.db.Close()
}
