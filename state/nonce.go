// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"encoding/binary"

	"github.com/EXCCoin/exccd/wire"
)

// AccountNonceState is the next-expected nonce for an address. An
// address that has never sent a transaction has Nonce==0 and
// Exists()==false.
type AccountNonceState struct {
	Nonce  uint64
	exists bool
}

// Exists reports whether a nonce row has ever been written for this
// address.
func (s AccountNonceState) Exists() bool { return s.exists }

func nonceStorageKey(address wire.Address) []byte {
	key := make([]byte, 0, 1+20)
	key = append(key, 'N')
	return append(key, address[:]...)
}

// GetNonce returns address's current (possibly staged) nonce state.
func (ws *WorldState) GetNonce(address wire.Address) (AccountNonceState, error) {
	if d, ok := ws.nonces[address]; ok {
		return AccountNonceState{Nonce: d.NewValue, exists: true}, nil
	}
	return ws.loadNonce(address)
}

func (ws *WorldState) loadNonce(address wire.Address) (AccountNonceState, error) {
	raw, ok, err := ws.trieGet(nonceStorageKey(address))
	if err != nil || !ok {
		return AccountNonceState{}, err
	}
	return AccountNonceState{Nonce: binary.BigEndian.Uint64(raw), exists: true}, nil
}

// SetNonce records address's new nonce, which must be oldNonce+1 for the
// accepted single-block transaction path. The mempool allows bounded
// future-nonce gaps at admission and never calls SetNonce; only block
// connect does.
func (ws *WorldState) SetNonce(address wire.Address, newNonce uint64) error {
	cur, err := ws.GetNonce(address)
	if err != nil {
		return err
	}
	d, ok := ws.nonces[address]
	if !ok {
		d = &Diff[uint64]{OldValue: cur.Nonce, HadOld: cur.exists}
	}
	d.NewValue = newNonce
	ws.nonces[address] = d
	return nil
}
