// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewTokenStore(t.TempDir(), "https://api.example.com")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save("access-abc", "refresh-xyz"))

	access, refresh, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "access-abc", access)
	assert.Equal(t, "refresh-xyz", refresh)
}

func TestTokenStore_LoadEmpty(t *testing.T) {
	store, err := NewTokenStore(t.TempDir(), "https://api.example.com")
	require.NoError(t, err)
	defer store.Close()

	_, _, ok := store.Load()
	assert.False(t, ok)
}

func TestTokenStore_SaveOverwrites(t *testing.T) {
	store, err := NewTokenStore(t.TempDir(), "https://api.example.com")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save("old-access", "old-refresh"))
	require.NoError(t, store.Save("new-access", "new-refresh"))

	access, refresh, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "new-refresh", refresh)
}

func TestTokenStore_Clear(t *testing.T) {
	store, err := NewTokenStore(t.TempDir(), "https://api.example.com")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save("access", "refresh"))
	require.NoError(t, store.Clear())

	_, _, ok := store.Load()
	assert.False(t, ok)
}

func TestTokenStore_OriginScoping(t *testing.T) {
	dir := t.TempDir()

	prod, err := NewTokenStore(dir, "https://api.example.com")
	require.NoError(t, err)
	defer prod.Close()

	staging, err := NewTokenStore(dir, "https://staging.example.com")
	require.NoError(t, err)
	defer staging.Close()

	require.NoError(t, prod.Save("prod-access", "prod-refresh"))

	_, _, ok := staging.Load()
	assert.False(t, ok, "staging origin must not see prod tokens")

	require.NoError(t, staging.Save("stg-access", "stg-refresh"))
	require.NoError(t, staging.Clear())

	access, _, ok := prod.Load()
	require.True(t, ok, "clearing one origin must not touch another")
	assert.Equal(t, "prod-access", access)
}

func TestTokenStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewTokenStore(dir, "https://api.example.com")
	require.NoError(t, err)
	require.NoError(t, store.Save("access-abc", "refresh-xyz"))
	require.NoError(t, store.Close())

	reopened, err := NewTokenStore(dir, "https://api.example.com")
	require.NoError(t, err)
	defer reopened.Close()

	access, refresh, ok := reopened.Load()
	require.True(t, ok)
	assert.Equal(t, "access-abc", access)
	assert.Equal(t, "refresh-xyz", refresh)
}

func TestTokenStore_SealedAtRest(t *testing.T) {
	dir := t.TempDir()

	store, err := NewTokenStore(dir, "https://api.example.com")
	require.NoError(t, err)
	require.NoError(t, store.Save("super-secret-access-token", "super-secret-refresh-token"))
	require.NoError(t, store.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "tokens.db"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-access-token",
		"token must not appear in plaintext on disk")
}

func TestTokenStore_LostKeyTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewTokenStore(dir, "https://api.example.com")
	require.NoError(t, err)
	require.NoError(t, store.Save("access", "refresh"))
	require.NoError(t, store.Close())

	// A replaced key file makes existing rows undecryptable.
	require.NoError(t, os.Remove(filepath.Join(dir, "tokens.key")))

	reopened, err := NewTokenStore(dir, "https://api.example.com")
	require.NoError(t, err)
	defer reopened.Close()

	_, _, ok := reopened.Load()
	assert.False(t, ok)
}

func TestTokenStore_RequiresOrigin(t *testing.T) {
	_, err := NewTokenStore(t.TempDir(), "")
	assert.Error(t, err)
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := newSealer(filepath.Join(t.TempDir(), "tokens.key"))
	require.NoError(t, err)

	sealed, err := s.seal([]byte("payload"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "payload")

	plain, err := s.open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(plain))
}

func TestSealer_TamperDetected(t *testing.T) {
	s, err := newSealer(filepath.Join(t.TempDir(), "tokens.key"))
	require.NoError(t, err)

	sealed, err := s.seal([]byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xFF

	_, err = s.open(sealed)
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestSealer_TruncatedBlob(t *testing.T) {
	s, err := newSealer(filepath.Join(t.TempDir(), "tokens.key"))
	require.NoError(t, err)

	_, err = s.open([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrDecryptFailed)
}
