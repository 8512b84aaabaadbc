// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20Poly1305AEAD is the node's AEAD implementation, protecting
// node_identity_file at rest. Keyed by a 32-byte secret (typically
// derived from a passphrase); the nonce is generated fresh per Seal call
// and prepended to the ciphertext, the standard layout for this cipher.
type ChaCha20Poly1305AEAD struct {
	key [chacha20poly1305.KeySize]byte
}

// NewChaCha20Poly1305AEAD returns an AEAD keyed by key, which must be
// exactly chacha20poly1305.KeySize (32) bytes.
func NewChaCha20Poly1305AEAD(key []byte) (*ChaCha20Poly1305AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("crypto: AEAD key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	a := &ChaCha20Poly1305AEAD{}
	copy(a.key[:], key)
	return a, nil
}

func (a *ChaCha20Poly1305AEAD) Seal(plaintext, additionalData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(a.key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("crypto: generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (a *ChaCha20Poly1305AEAD) Open(ciphertext, additionalData []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(a.key[:])
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.NonceSize() {
		return nil, fmt.Errorf("crypto: ciphertext shorter than nonce")
	}
	nonce, rest := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	return aead.Open(nil, nonce, rest, additionalData)
}
