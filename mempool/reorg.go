// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/EXCCoin/exccd/eventbus"
)

// handleEvent keeps the pool consistent with the Chain Engine's tip: a
// connected block removes its own txs (MINED) and drops any pending tx
// whose nonce the new tip has already consumed (STALE_NONCE); a
// disconnected block's txs are resubmitted, subject to ordinary
// admission control, with reason=REORG.
func (m *Mempool) handleEvent(ev eventbus.Event) {
	switch ev.Type {
	case eventbus.EventBlockConnected:
		m.onBlockConnected(ev.BlockConnected)
	case eventbus.EventBlockDisconnected:
		m.onBlockDisconnected(ev.BlockDisconnected)
	}
}

func (m *Mempool) onBlockConnected(e *eventbus.BlockConnectedEvent) {
	for _, tx := range e.Block.Txs {
		m.Remove(tx.Hash(), eventbus.RemoveReasonMined)
	}
	m.evictStaleNonces()
}

// evictStaleNonces drops every pending tx whose nonce now sits at or
// below the sender's current on-chain nonce, i.e. it could never be
// applied regardless of ordering.
func (m *Mempool) evictStaleNonces() {
	ws := m.chain.Snapshot()
	for sender, group := range m.pool.senderGroups() {
		account, err := ws.GetNonce(sender)
		if err != nil {
			continue
		}
		for _, e := range group {
			if e.tx.Nonce <= account.Nonce {
				m.pool.removeByHash(e.hash)
				m.bus.PublishMempoolTxRemove(&eventbus.MempoolTxRemoveEvent{Hash: e.hash, Reason: eventbus.RemoveReasonStaleNonce})
			}
		}
	}
}

// onBlockDisconnected hands disconnected txs to the admission goroutine
// rather than validating them inline: this handler runs on the Chain
// Engine's goroutine while it still holds the master chain lock, and
// Add's validation needs that same lock, so resubmission must go through
// the queue instead of calling Add directly.
func (m *Mempool) onBlockDisconnected(e *eventbus.BlockDisconnectedEvent) {
	for _, tx := range e.Block.Txs {
		m.enqueueNonBlocking(tx, eventbus.AddReasonReorg)
	}
}
