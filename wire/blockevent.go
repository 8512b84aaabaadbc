// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
)

// BlockEventType tags the polymorphic events extracted from a block's
// state diffs.
type BlockEventType uint8

// Recognized event variants.
const (
	EventBlockReward BlockEventType = iota + 1
	EventFeesCollected
	EventTokenCreated
	EventTokenSupplyChanged
	EventAuthorityAdded
	EventAuthorityRemoved
	EventNetworkParamsChanged
	EventAddressAliasRegistered
	EventAddressAliasRemoved
	EventBipStateChange
)

// BlockEvent is a tagged record of a consensus-visible side effect of
// applying a block, extracted from the owning WorldState's per-entity
// diffs (BalanceDiffs, TokenDiffs and the rest).
type BlockEvent struct {
	Type             BlockEventType
	Address          Address
	TokenAddress     Address
	Amount           *uint256.Uint256
	Alias            string
	BipHash          chainhash.Hash
	BipStatus        string
	DerivedTokenAddr Address
}
