// Copyright (c) 2018 The ExchangeCoin team
// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the opaque 32-byte hash type used throughout
// the chain, trie, block store, and wire protocol.
package chainhash

import (
	"encoding/hex"
	"fmt"
)

// HashSize is the number of bytes in a Hash.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that has too many characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)

// Hash is used in several of the consensus messages and common structures.
// It is represented by the content hash of the corresponding entity,
// computed with the configured content-hash function (see wire.ContentHash).
// Unlike legacy btc/dcr-style hashes, bytes are not reversed; equality is
// byte-wise in storage order.
type Hash [HashSize]byte

// Zero is the zero hash, used as the parent hash of the genesis block.
var Zero = Hash{}

// String returns the Hash as the hexadecimal string of its bytes in
// storage order (not reversed).
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the bytes backing the Hash.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// IsZero reports whether the hash is the all-zero sentinel value.
func (h Hash) IsZero() bool {
	return h == Zero
}

// SetBytes sets the bytes which represent the hash.  An error is returned if
// the number of bytes passed in is not HashSize.
func (h *Hash) SetBytes(newHash []byte) error {
	nhlen := len(newHash)
	if nhlen != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", nhlen, HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// IsEqual returns true if target is the same as the hash.
func (h *Hash) IsEqual(target *Hash) bool {
	if h == nil && target == nil {
		return true
	}
	if h == nil || target == nil {
		return false
	}
	return *h == *target
}

// NewHash returns a new Hash from a byte slice.  An error is returned if the
// number of bytes passed in is not HashSize.
func NewHash(newHash []byte) (*Hash, error) {
	var h Hash
	err := h.SetBytes(newHash)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// NewHashFromStr creates a Hash from a hash string.  The string should be
// the hexadecimal string of the hash.
func NewHashFromStr(hash string) (*Hash, error) {
	ret := new(Hash)
	err := Decode(ret, hash)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Decode decodes the hexadecimal string encoding of a Hash (bytes in
// storage order, as produced by String) to a destination.
func Decode(dst *Hash, src string) error {
	if len(src) > MaxHashStringSize {
		return ErrHashStrSize
	}

	srcBytes, err := hex.DecodeString(src)
	if err != nil {
		return err
	}
	if len(srcBytes) != HashSize {
		return fmt.Errorf("invalid hash length of %v, want %v", len(srcBytes), HashSize)
	}
	copy(dst[:], srcBytes)
	return nil
}

// Less reports whether h sorts before o in byte-wise order. The chain
// engine does not call it: fork choice has no hash-based tie-break.
func (h Hash) Less(o Hash) bool {
	for i := 0; i < HashSize; i++ {
		if h[i] != o[i] {
			return h[i] < o[i]
		}
	}
	return false
}
