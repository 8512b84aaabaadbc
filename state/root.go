// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
)

// CalculateRootHash recomputes the trie root from every staged
// mutation. It is deterministic and referentially transparent: calling
// it twice without intervening mutations yields the same hash and the
// same (idempotent) set of staged trie node writes, since trie nodes
// are content-addressed and restaging identical bytes is a no-op.
func (ws *WorldState) CalculateRootHash() (chainhash.Hash, error) {
	t := ws.base
	var err error

	for key, d := range ws.balances {
		b := d.NewValue.Bytes()
		if t, err = t.Put(key.storageKey(), b[:]); err != nil {
			return chainhash.Zero, err
		}
	}
	for addr, d := range ws.nonces {
		if t, err = t.Put(nonceStorageKey(addr), nonceBytes(d.NewValue)); err != nil {
			return chainhash.Zero, err
		}
	}
	for addr, d := range ws.tokens {
		if t, err = t.Put(tokenStorageKey(addr), d.NewValue.encode()); err != nil {
			return chainhash.Zero, err
		}
	}
	for addr, d := range ws.authorities {
		if t, err = t.Put(authorityStorageKey(addr), boolBytes(d.NewValue)); err != nil {
			return chainhash.Zero, err
		}
	}
	for addr, d := range ws.validators {
		if t, err = t.Put(validatorStorageKey(addr), boolBytes(d.NewValue)); err != nil {
			return chainhash.Zero, err
		}
	}
	for alias, d := range ws.aliases {
		addr := d.NewValue
		if t, err = t.Put(aliasStorageKey(alias), addr[:]); err != nil {
			return chainhash.Zero, err
		}
	}
	for hash, d := range ws.bips {
		if t, err = t.Put(bipStorageKey(hash), d.NewValue.encode()); err != nil {
			return chainhash.Zero, err
		}
	}
	if ws.params != nil {
		if t, err = t.Put(paramsStorageKey(), ws.params.NewValue.encode()); err != nil {
			return chainhash.Zero, err
		}
	}
	if ws.authorityCount != nil {
		if t, err = t.Put(authorityCountStorageKey(), encodeAuthorityCount(ws.authorityCount.NewValue)); err != nil {
			return chainhash.Zero, err
		}
	}

	ws.base = t
	return t.Root(), nil
}

func nonceBytes(n uint64) []byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[7-i] = byte(n >> (8 * i))
	}
	return b[:]
}

func boolBytes(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}
