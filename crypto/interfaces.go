// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package crypto declares the cryptographic primitives the node depends on
// but does not implement: the signature scheme, a keyed HMAC, an AEAD
// cipher, and the proof-of-work hash function.  Concrete implementations
// are injected at process start (see cmd/exccnoded); this package exists
// so the rest of the tree programs against stable interfaces rather than
// a specific curve or hash library.
package crypto

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

// Signer produces a recoverable signature over a hash using a private key
// held outside this package (e.g. loaded from node_identity_file).
type Signer interface {
	// Sign returns a Signature over hash.
	Sign(hash chainhash.Hash) (wire.Signature, error)
	// Address returns the signer's own address.
	Address() wire.Address
}

// Verifier recovers the signing address from a hash/signature pair.  A
// transaction or header is valid only if the recovered address matches
// the claimed sender/identity.
type Verifier interface {
	// RecoverAddress returns the address that produced sig over hash.
	RecoverAddress(hash chainhash.Hash, sig wire.Signature) (wire.Address, error)
}

// HMAC computes a keyed message authentication code. No component of the
// node calls it: the Directory Client verifies responses by public-key
// signature recovery only.
type HMAC interface {
	Sum(key, message []byte) []byte
}

// AEAD provides authenticated encryption, used to protect the
// node_identity_file at rest.
type AEAD interface {
	Seal(plaintext, additionalData []byte) (ciphertext []byte, err error)
	Open(ciphertext, additionalData []byte) (plaintext []byte, err error)
}

// Hasher is the memory-hard proof-of-work hash function.  Its
// implementation is explicitly out of scope for this module (the "mining
// inner loop"); the mining package only ever calls through this
// interface.
type Hasher interface {
	// Hash returns the PoW digest for the given header bytes and nonce.
	Hash(headerBytes []byte, nonce uint64) (chainhash.Hash, error)
}
