// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"math/big"
	"sort"

	"github.com/EXCCoin/exccd/wire"
)

// FeeStatistics summarizes fee-per-byte across currently selectable
// transactions, used by wallets/miners to recommend a competitive fee.
type FeeStatistics struct {
	TxCount          int
	MedianFeePerByte *big.Rat
	FastFeePerByte   *big.Rat
}

// SelectForBlock returns transactions to include in a candidate block,
// ordered as they should appear: (sender, nonce) groups are visited in
// descending order of the group's first tx's fee-per-byte, and within a
// group txs are emitted in strict nonce order starting from the
// sender's current on-chain next-nonce. A sender whose stored nonce has
// advanced past every pending entry (e.g. already mined elsewhere) is
// skipped entirely; a group is truncated, not dropped, once its next tx
// would exceed the remaining byte or count budget, so other senders'
// smaller transactions still get a chance to fill the block.
func (m *Mempool) SelectForBlock(budgetBytes, budgetCount int) []*wire.Tx {
	selectable := m.selectableGroups()

	sort.Slice(selectable, func(i, j int) bool {
		return selectable[i][0].feePerByte.Cmp(selectable[j][0].feePerByte) > 0
	})

	var selected []*wire.Tx
	usedBytes, usedCount := 0, 0
	for _, group := range selectable {
		for _, e := range group {
			if usedBytes+e.size > budgetBytes || usedCount+1 > budgetCount {
				break
			}
			selected = append(selected, e.tx)
			usedBytes += e.size
			usedCount++
		}
	}
	return selected
}

// selectableGroups returns, per sender, the prefix of its pending
// nonce-ordered entries that is contiguous with the sender's current
// on-chain nonce — i.e. the subsequence select_for_block could actually
// emit before hitting a gap or an already-consumed nonce.
func (m *Mempool) selectableGroups() [][]*entry {
	ws := m.chain.Snapshot()
	groups := m.pool.senderGroups()

	out := make([][]*entry, 0, len(groups))
	for sender, ordered := range groups {
		account, err := ws.GetNonce(sender)
		if err != nil {
			continue
		}
		expected := account.Nonce + 1
		var prefix []*entry
		for _, e := range ordered {
			if e.tx.Nonce != expected {
				break
			}
			prefix = append(prefix, e)
			expected++
		}
		if len(prefix) > 0 {
			out = append(out, prefix)
		}
	}
	return out
}

// FeeStatistics computes the median and 75th-percentile fee-per-byte
// across every currently selectable transaction.
func (m *Mempool) FeeStatistics() FeeStatistics {
	var rates []*big.Rat
	for _, group := range m.selectableGroups() {
		for _, e := range group {
			rates = append(rates, e.feePerByte)
		}
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Cmp(rates[j]) < 0 })

	return FeeStatistics{
		TxCount:          len(rates),
		MedianFeePerByte: percentile(rates, 50),
		FastFeePerByte:   percentile(rates, 75),
	}
}

func percentile(sorted []*big.Rat, pct int) *big.Rat {
	if len(sorted) == 0 {
		return new(big.Rat)
	}
	idx := (len(sorted) - 1) * pct / 100
	return sorted[idx]
}
