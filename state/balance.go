// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"fmt"

	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// AccountBalanceState is the balance of one (address, token) pair. A
// balance that has never been credited is represented with Amount==nil
// and Exists()==false, rather than a stored zero.
type AccountBalanceState struct {
	Amount *uint256.Uint256
}

// Exists reports whether this account has ever held a nonzero balance
// of the token, i.e. whether a balance row exists in the trie.
func (s AccountBalanceState) Exists() bool { return s.Amount != nil }

// Value returns the held amount, treating a nonexistent balance as zero.
func (s AccountBalanceState) Value() *uint256.Uint256 {
	if s.Amount == nil {
		return uint256.Zero()
	}
	return s.Amount
}

type balanceKey struct {
	Address wire.Address
	Token   wire.Address
}

func (k balanceKey) storageKey() []byte {
	key := make([]byte, 0, 1+20+20)
	key = append(key, 'B')
	key = append(key, k.Address[:]...)
	key = append(key, k.Token[:]...)
	return key
}

// GetBalance returns the current (possibly staged) balance of address in
// token.
func (ws *WorldState) GetBalance(address, token wire.Address) (AccountBalanceState, error) {
	key := balanceKey{address, token}
	if d, ok := ws.balances[key]; ok {
		return AccountBalanceState{Amount: d.NewValue}, nil
	}
	return ws.loadBalance(key)
}

func (ws *WorldState) loadBalance(key balanceKey) (AccountBalanceState, error) {
	raw, ok, err := ws.trieGet(key.storageKey())
	if err != nil {
		return AccountBalanceState{}, err
	}
	if !ok {
		return AccountBalanceState{}, nil
	}
	return AccountBalanceState{Amount: uint256.FromBytes(raw)}, nil
}

// Credit increases address's balance of token by amount, recording a
// diff.
func (ws *WorldState) Credit(address, token wire.Address, amount *uint256.Uint256) error {
	key := balanceKey{address, token}
	cur, err := ws.GetBalance(address, token)
	if err != nil {
		return err
	}
	newVal := cur.Value().Add(amount)
	ws.setBalance(key, cur, newVal)
	return nil
}

// Debit decreases address's balance of token by amount, failing if the
// balance is insufficient.
func (ws *WorldState) Debit(address, token wire.Address, amount *uint256.Uint256) error {
	key := balanceKey{address, token}
	cur, err := ws.GetBalance(address, token)
	if err != nil {
		return err
	}
	newVal, err := cur.Value().Sub(amount)
	if err != nil {
		return fmt.Errorf("state: insufficient balance for %x/%x: %w", address, token, err)
	}
	ws.setBalance(key, cur, newVal)
	return nil
}

// setBalance records the diff for key's first mutation this block,
// capturing cur, which Credit and Debit have already read, as the old
// value. Validation and mining WorldStates behave the same here, and
// Debit enforces the sufficiency check in both.
func (ws *WorldState) setBalance(key balanceKey, cur AccountBalanceState, newVal *uint256.Uint256) {
	d, ok := ws.balances[key]
	if !ok {
		d = &Diff[*uint256.Uint256]{OldValue: cur.Amount, HadOld: cur.Exists()}
	}
	d.NewValue = newVal
	ws.balances[key] = d
}
