// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"crypto/hmac"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Blake2bHMAC is the node's HMAC implementation: stdlib crypto/hmac over
// BLAKE2b-256, the same hash family wire.ContentHash and address
// derivation already use, so the tree never pulls in a second hash
// primitive for it.
type Blake2bHMAC struct{}

// NewBlake2bHMAC returns a stateless HMAC.
func NewBlake2bHMAC() Blake2bHMAC { return Blake2bHMAC{} }

func (Blake2bHMAC) Sum(key, message []byte) []byte {
	h := hmac.New(newBlake2b256, key)
	h.Write(message)
	return h.Sum(nil)
}

func newBlake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors when a non-nil key exceeds its max
		// size; nil is always accepted.
		panic(err)
	}
	return h
}
