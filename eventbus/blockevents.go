// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventbus

import (
	"time"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

// ConnectSource records why a block was connected, for logging and for
// the gossip layer's decision of whether to relay it.
type ConnectSource = wire.ConnectedSource

// BlockConnectedEvent is published once a block has been durably
// connected to the main chain.
type BlockConnectedEvent struct {
	Block     *wire.Block
	Height    uint64
	Events    []wire.BlockEvent
	Source    ConnectSource
	Timing    time.Duration
	Timestamp time.Time
}

// BlockDisconnectedEvent is published for each block removed from the
// main chain during a reorg, tip-first.
type BlockDisconnectedEvent struct {
	Block  *wire.Block
	Height uint64
}

// BlockReorgEvent is published once, after every disconnect/connect pair
// of a reorg has been applied, summarizing the net tip change.
type BlockReorgEvent struct {
	OldTipHash   chainhash.Hash
	OldHeight    uint64
	NewTipHash   chainhash.Hash
	NewHeight    uint64
}
