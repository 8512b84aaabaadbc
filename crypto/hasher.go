// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"encoding/binary"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"golang.org/x/crypto/blake2b"
)

// Blake2bHasher is the default Hasher wired at process start. The
// memory-hard proof-of-work function itself is out of scope here (see
// the Hasher doc comment); this is a stand-in that lets a node run
// end-to-end without one, built from the same BLAKE2b primitive already
// used throughout the tree rather than a hand-rolled digest. A
// deployment that needs real ASIC/GPU resistance swaps this for a
// different Hasher at construction; nothing above this type changes.
type Blake2bHasher struct{}

// NewBlake2bHasher returns a stateless Hasher.
func NewBlake2bHasher() Blake2bHasher { return Blake2bHasher{} }

func (Blake2bHasher) Hash(headerBytes []byte, nonce uint64) (chainhash.Hash, error) {
	var nonceBuf [8]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], nonce)
	h, err := blake2b.New256(nil)
	if err != nil {
		return chainhash.Hash{}, err
	}
	h.Write(headerBytes)
	h.Write(nonceBuf[:])
	var out chainhash.Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}
