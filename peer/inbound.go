// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"github.com/EXCCoin/exccd/blockchain"
	"github.com/EXCCoin/exccd/mempool"
	"github.com/EXCCoin/exccd/reputation"
	"github.com/EXCCoin/exccd/wire"
)

// Inbound handles unsolicited gossip (§4.8): a NEW_BLOCK or
// NEW_MEMPOOL_TX a peer sends without this node having asked for it.
type Inbound struct {
	chain      *blockchain.BlockChain
	mempool    *mempool.Mempool
	reputation *reputation.Store
}

// NewInbound builds an Inbound handler over chain and mp, penalizing the
// sending peer's reputation (if rep is non-nil) when gossip turns out to
// be invalid.
func NewInbound(chain *blockchain.BlockChain, mp *mempool.Mempool, rep *reputation.Store) *Inbound {
	return &Inbound{chain: chain, mempool: mp, reputation: rep}
}

// Hooks returns the subset of a peer.Hooks this handler answers.
func (in *Inbound) Hooks() Hooks {
	return Hooks{
		OnNewBlock:     in.HandleNewBlock,
		OnNewMempoolTx: in.HandleNewMempoolTx,
	}
}

// HandleNewBlock attempts to connect a gossiped block directly onto the
// current tip. A block that does not extend the tip (the sender is ahead
// or on a fork) is left for the sync manager's header/body exchange
// rather than connected here, since this path has no way to validate a
// multi-block fork on its own.
func (in *Inbound) HandleNewBlock(p *Peer, block *wire.Block) {
	_, tipHeight, _ := in.chain.Tip()
	if block.Header.Height != tipHeight+1 {
		return
	}
	if err := in.chain.ConnectBlock(block, wire.SourceBroadcast); err != nil {
		if in.reputation != nil {
			_ = in.reputation.RecordFailure(p.Identity, nowUnix())
		}
	}
}

// HandleNewMempoolTx submits a gossiped transaction for asynchronous
// admission; invalid or already-known transactions are rejected silently
// by Mempool.Add itself and carry no reputation consequence here, since
// a tx can be legitimately stale (already mined) without the sender
// having done anything wrong.
func (in *Inbound) HandleNewMempoolTx(p *Peer, tx *wire.Tx) {
	in.mempool.Submit(tx)
}
