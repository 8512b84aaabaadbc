// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/EXCCoin/exccd/crypto"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/blake2b"
)

// loadOrCreateIdentity reads the signing key protected by path,
// decrypting it with a key derived from passphrase, or generates and
// persists a fresh one if path does not yet exist — the node_identity_file
// of spec.md §6. Full HD/mnemonic derivation (hdkeychain) is out of
// scope; a single secp256k1 key is generated directly and encrypted at
// rest with ChaCha20-Poly1305 instead.
func loadOrCreateIdentity(path, passphrase string) (*crypto.PrivateKeySigner, error) {
	aeadKey := blake2b.Sum256([]byte(passphrase))
	aead, err := crypto.NewChaCha20Poly1305AEAD(aeadKey[:])
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		plaintext, err := aead.Open(raw, []byte("node_identity_file"))
		if err != nil {
			return nil, fmt.Errorf("identity: decrypt %s: %w", path, err)
		}
		key := secp256k1.PrivKeyFromBytes(plaintext)
		return crypto.NewPrivateKeySigner(key), nil

	case os.IsNotExist(err):
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, fmt.Errorf("identity: generate key: %w", err)
		}
		ciphertext, err := aead.Seal(key.Serialize(), []byte("node_identity_file"))
		if err != nil {
			return nil, fmt.Errorf("identity: encrypt new key: %w", err)
		}
		if err := os.WriteFile(path, ciphertext, 0600); err != nil {
			return nil, fmt.Errorf("identity: write %s: %w", path, err)
		}
		return crypto.NewPrivateKeySigner(key), nil

	default:
		return nil, fmt.Errorf("identity: read %s: %w", path, err)
	}
}
