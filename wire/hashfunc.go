// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"golang.org/x/crypto/blake2b"
)

// ContentHash is the configured content-hash function used to address
// transactions, headers, trie nodes, and every other hash-identified
// entity in the system.  It is distinct from the proof-of-work mining
// hash function, which is memory-hard and supplied externally (see
// crypto.Hasher); this one only needs to be fast and collision resistant.
func ContentHash(b []byte) chainhash.Hash {
	return chainhash.Hash(blake2b.Sum256(b))
}
