// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"math/big"
	"testing"
	"time"

	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

func sender(b byte) wire.Address {
	var a wire.Address
	a[0] = b
	return a
}

func makeTx(s wire.Address, nonce uint64, fee uint64) *wire.Tx {
	return &wire.Tx{
		Version:   wire.TxVersion,
		Network:   1,
		Timestamp: time.Now().Unix(),
		Nonce:     nonce,
		Sender:    s,
		Amount:    uint256.NewFromUint64(1),
		Fee:       uint256.NewFromUint64(fee),
	}
}

func makeEntry(tx *wire.Tx) *entry {
	return &entry{
		tx:         tx,
		hash:       tx.Hash(),
		size:       tx.Size(),
		feePerByte: new(big.Rat).SetFrac(tx.Fee.Big(), big.NewInt(int64(tx.Size()))),
		received:   time.Now(),
	}
}

func TestPoolInsertNewSlot(t *testing.T) {
	p := newPool()
	tx := makeTx(sender(1), 1, 100)

	replaced, hadExisting, err := p.insertOrReplace(tx.Sender, tx.Nonce, makeEntry(tx))
	if err != nil {
		t.Fatalf("insertOrReplace: %v", err)
	}
	if !replaced || hadExisting {
		t.Fatalf("fresh slot: replaced=%v hadExisting=%v", replaced, hadExisting)
	}
	if p.count() != 1 {
		t.Fatalf("count() = %d, want 1", p.count())
	}
}

func TestPoolReplaceByFeeRequiresBump(t *testing.T) {
	p := newPool()
	s := sender(1)
	first := makeTx(s, 1, 100)
	p.insertOrReplace(s, 1, makeEntry(first))

	// A fee only marginally higher does not clear the 11/10 bump.
	second := makeTx(s, 1, 105)
	replaced, hadExisting, err := p.insertOrReplace(s, 1, makeEntry(second))
	if err != nil {
		t.Fatalf("insertOrReplace: %v", err)
	}
	if replaced || !hadExisting {
		t.Fatalf("insufficient bump: replaced=%v hadExisting=%v", replaced, hadExisting)
	}
	if _, ok := p.getByHash(first.Hash()); !ok {
		t.Fatalf("original tx should remain pooled")
	}
}

func TestPoolReplaceByFeeSucceedsWithSufficientBump(t *testing.T) {
	p := newPool()
	s := sender(1)
	first := makeTx(s, 1, 100)
	p.insertOrReplace(s, 1, makeEntry(first))

	second := makeTx(s, 1, 200)
	replaced, hadExisting, err := p.insertOrReplace(s, 1, makeEntry(second))
	if err != nil {
		t.Fatalf("insertOrReplace: %v", err)
	}
	if !replaced || !hadExisting {
		t.Fatalf("sufficient bump: replaced=%v hadExisting=%v", replaced, hadExisting)
	}
	if _, ok := p.getByHash(first.Hash()); ok {
		t.Fatalf("replaced tx should no longer be pooled")
	}
	if _, ok := p.getByHash(second.Hash()); !ok {
		t.Fatalf("replacement tx should be pooled")
	}
	if p.count() != 1 {
		t.Fatalf("count() = %d, want 1", p.count())
	}
}

func TestPoolRemoveByHash(t *testing.T) {
	p := newPool()
	tx := makeTx(sender(1), 1, 100)
	p.insertOrReplace(tx.Sender, tx.Nonce, makeEntry(tx))

	if !p.removeByHash(tx.Hash()) {
		t.Fatalf("expected removal to succeed")
	}
	if p.removeByHash(tx.Hash()) {
		t.Fatalf("second removal of the same hash should report false")
	}
	if p.count() != 0 {
		t.Fatalf("count() = %d, want 0", p.count())
	}
}

func TestPoolSenderGroupsOrderedByNonce(t *testing.T) {
	p := newPool()
	s := sender(1)
	tx3 := makeTx(s, 3, 100)
	tx1 := makeTx(s, 1, 100)
	tx2 := makeTx(s, 2, 100)
	p.insertOrReplace(s, 3, makeEntry(tx3))
	p.insertOrReplace(s, 1, makeEntry(tx1))
	p.insertOrReplace(s, 2, makeEntry(tx2))

	groups := p.senderGroups()
	ordered := groups[s]
	if len(ordered) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ordered))
	}
	for i, want := range []uint64{1, 2, 3} {
		if ordered[i].tx.Nonce != want {
			t.Fatalf("position %d: nonce %d, want %d", i, ordered[i].tx.Nonce, want)
		}
	}
}

func TestPoolClear(t *testing.T) {
	p := newPool()
	tx := makeTx(sender(1), 1, 100)
	p.insertOrReplace(tx.Sender, tx.Nonce, makeEntry(tx))
	p.clear()

	if p.count() != 0 || p.totalSize() != 0 {
		t.Fatalf("clear did not reset pool: count=%d size=%d", p.count(), p.totalSize())
	}
}

func TestPoolTotalSizeTracksReplacement(t *testing.T) {
	p := newPool()
	s := sender(1)
	first := makeEntry(makeTx(s, 1, 100))
	p.insertOrReplace(s, 1, first)
	if p.totalSize() != first.size {
		t.Fatalf("totalSize() = %d, want %d", p.totalSize(), first.size)
	}

	second := makeEntry(makeTx(s, 1, 200))
	p.insertOrReplace(s, 1, second)
	if p.totalSize() != second.size {
		t.Fatalf("totalSize() after replace = %d, want %d", p.totalSize(), second.size)
	}
}
