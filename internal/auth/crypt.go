// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/pbkdf2"

	"github.com/mentorae/tutor-tui/internal/util"
)

// Sealing constants.
const (
	// nonceSize is the size of the nonce/IV for AES-GCM (96 bits).
	nonceSize = 12

	// keySize is the size of the AES-256 key.
	keySize = 32

	// saltSize is the size of the key-derivation salt.
	saltSize = 16

	// secretSize is the size of the random per-install secret.
	secretSize = 32

	// pbkdf2Iterations is the PBKDF2-SHA-256 iteration count.
	pbkdf2Iterations = 600000
)

var (
	// ErrDecryptFailed indicates a sealed value failed authentication
	// (wrong key material or tampered data).
	ErrDecryptFailed = errors.New("decryption failed: authentication tag mismatch")
)

// zeroBytes zeros sensitive byte slices to limit memory disclosure.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// sealer provides AES-256-GCM sealing of token values at rest. The key is
// derived with PBKDF2-SHA-256 from a per-install random secret stored next
// to the token database with 0600 permissions.
type sealer struct {
	aead cipher.AEAD
}

// newSealer loads or creates the key material at keyPath and prepares the
// cipher. The key file layout is salt || secret.
func newSealer(keyPath string) (*sealer, error) {
	material, err := os.ReadFile(keyPath)
	if os.IsNotExist(err) {
		material = make([]byte, saltSize+secretSize)
		if _, err := io.ReadFull(rand.Reader, material); err != nil {
			return nil, fmt.Errorf("failed to generate key material: %w", err)
		}
		if err := util.AtomicWriteFile(keyPath, material, 0600); err != nil {
			return nil, fmt.Errorf("failed to store key material: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read key material: %w", err)
	}
	if len(material) != saltSize+secretSize {
		return nil, fmt.Errorf("corrupt key material at %s", keyPath)
	}

	key := pbkdf2.Key(material[saltSize:], material[:saltSize], pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}
	return &sealer{aead: aead}, nil
}

// seal encrypts plaintext and returns nonce || ciphertext.
func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a blob produced by seal.
func (s *sealer) open(blob []byte) ([]byte, error) {
	if len(blob) < nonceSize {
		return nil, ErrDecryptFailed
	}
	plaintext, err := s.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
