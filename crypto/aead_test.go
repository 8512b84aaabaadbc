// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"bytes"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"
)

func TestChaCha20Poly1305AEADRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, chacha20poly1305.KeySize)
	aead, err := NewChaCha20Poly1305AEAD(key)
	if err != nil {
		t.Fatalf("new AEAD: %v", err)
	}

	plaintext := []byte("secp256k1 private key bytes")
	ad := []byte("node_identity_file")

	ciphertext, err := aead.Seal(plaintext, ad)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Fatalf("ciphertext contains plaintext verbatim")
	}

	recovered, err := aead.Open(ciphertext, ad)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(recovered, plaintext) {
		t.Fatalf("recovered %q, want %q", recovered, plaintext)
	}
}

func TestChaCha20Poly1305AEADRejectsWrongAdditionalData(t *testing.T) {
	key := bytes.Repeat([]byte{0x7a}, chacha20poly1305.KeySize)
	aead, err := NewChaCha20Poly1305AEAD(key)
	if err != nil {
		t.Fatalf("new AEAD: %v", err)
	}

	ciphertext, err := aead.Seal([]byte("payload"), []byte("correct"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if _, err := aead.Open(ciphertext, []byte("wrong")); err == nil {
		t.Fatalf("open succeeded with mismatched additional data")
	}
}

func TestNewChaCha20Poly1305AEADRejectsBadKeyLength(t *testing.T) {
	if _, err := NewChaCha20Poly1305AEAD([]byte("too short")); err == nil {
		t.Fatalf("expected error for undersized key")
	}
}
