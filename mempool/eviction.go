// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"time"

	"github.com/jrick/bitset"

	"github.com/EXCCoin/exccd/eventbus"
)

// evictToBounds drops the lowest fee-per-byte txs until the pool is back
// within its size and count bounds. Only a sender's highest-nonce tx is
// ever a candidate: evicting anything earlier in a sender's nonce
// sequence would strand every tx after it with an unfillable nonce gap,
// which the bound is not worth creating.
func (m *Mempool) evictToBounds() {
	for m.pool.totalSize() > m.cfg.MaxBytes || m.pool.count() > m.cfg.MaxCount {
		victim := m.lowestFeeTailEntry()
		if victim == nil {
			return
		}
		m.pool.removeByHash(victim.hash)
		m.bus.PublishMempoolTxRemove(&eventbus.MempoolTxRemoveEvent{Hash: victim.hash, Reason: eventbus.RemoveReasonInvalid})
	}
}

func (m *Mempool) lowestFeeTailEntry() *entry {
	var worst *entry
	for _, group := range m.pool.senderGroups() {
		if len(group) == 0 {
			continue
		}
		tail := group[len(group)-1]
		if worst == nil || tail.feePerByte.Cmp(worst.feePerByte) < 0 {
			worst = tail
		}
	}
	return worst
}

// sweepExpired evicts every tx that has sat in the pool longer than the
// configured TTL. Expiry is marked against a snapshot of the pool before
// anything is removed, so a tx that arrives mid-sweep (and is therefore
// never a candidate) can't shift the indices of entries still pending
// removal.
func (m *Mempool) sweepExpired() {
	now := time.Now()
	snapshot := m.pool.allByHash()
	expired := bitset.NewBytes(len(snapshot))
	for i, e := range snapshot {
		if now.Sub(e.received) > m.cfg.TTL {
			expired.Set(i)
		}
	}
	for i, e := range snapshot {
		if !expired.Get(i) {
			continue
		}
		m.pool.removeByHash(e.hash)
		m.bus.PublishMempoolTxRemove(&eventbus.MempoolTxRemoveEvent{Hash: e.hash, Reason: eventbus.RemoveReasonExpired})
	}
}
