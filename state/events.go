// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// BalanceDiff pairs a (address, token) key with its staged balance diff,
// exported for block-event extraction.
type BalanceDiff struct {
	Address, Token wire.Address
	OldValue       *uint256.Uint256
	HadOld         bool
	NewValue       *uint256.Uint256
}

// BalanceDiffs returns every balance mutated this block.
func (ws *WorldState) BalanceDiffs() []BalanceDiff {
	out := make([]BalanceDiff, 0, len(ws.balances))
	for k, d := range ws.balances {
		out = append(out, BalanceDiff{Address: k.Address, Token: k.Token, OldValue: d.OldValue, HadOld: d.HadOld, NewValue: d.NewValue})
	}
	return out
}

// TokenDiff pairs a token address with its staged token-record diff.
type TokenDiff struct {
	Address  wire.Address
	HadOld   bool
	OldValue TokenState
	NewValue TokenState
}

// TokenDiffs returns every token record mutated this block.
func (ws *WorldState) TokenDiffs() []TokenDiff {
	out := make([]TokenDiff, 0, len(ws.tokens))
	for addr, d := range ws.tokens {
		out = append(out, TokenDiff{Address: addr, HadOld: d.HadOld, OldValue: d.OldValue, NewValue: d.NewValue})
	}
	return out
}

// AuthorityDiff pairs an address with its staged authority-flag diff.
type AuthorityDiff struct {
	Address  wire.Address
	OldValue bool
	NewValue bool
}

// AuthorityDiffs returns every authority-set mutation this block.
func (ws *WorldState) AuthorityDiffs() []AuthorityDiff {
	out := make([]AuthorityDiff, 0, len(ws.authorities))
	for addr, d := range ws.authorities {
		out = append(out, AuthorityDiff{Address: addr, OldValue: d.OldValue, NewValue: d.NewValue})
	}
	return out
}

// AliasDiff pairs an alias with its staged resolution diff.
type AliasDiff struct {
	Alias    string
	OldValue wire.Address
	HadOld   bool
	NewValue wire.Address
}

// AliasDiffs returns every alias mutation this block.
func (ws *WorldState) AliasDiffs() []AliasDiff {
	out := make([]AliasDiff, 0, len(ws.aliases))
	for alias, d := range ws.aliases {
		out = append(out, AliasDiff{Alias: alias, OldValue: d.OldValue, HadOld: d.HadOld, NewValue: d.NewValue})
	}
	return out
}

// BipDiff pairs a BIP hash with its staged status diff.
type BipDiff struct {
	Hash     chainhash.Hash
	HadOld   bool
	OldValue BipState
	NewValue BipState
}

// BipDiffs returns every BIP mutated this block.
func (ws *WorldState) BipDiffs() []BipDiff {
	out := make([]BipDiff, 0, len(ws.bips))
	for hash, d := range ws.bips {
		out = append(out, BipDiff{Hash: hash, HadOld: d.HadOld, OldValue: d.OldValue, NewValue: d.NewValue})
	}
	return out
}

// ParamsDiff reports whether network parameters changed this block and,
// if so, their new value.
func (ws *WorldState) ParamsDiff() (NetworkParamsState, bool) {
	if ws.params == nil {
		return NetworkParamsState{}, false
	}
	return ws.params.NewValue, true
}
