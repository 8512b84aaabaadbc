// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"sort"
	"sync"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

// pool is the mutex-guarded index behind Mempool: every admitted
// transaction is reachable both by hash and by its (sender, nonce) key,
// the latter being how admission finds a replace-by-fee candidate and
// how select_for_block walks a sender's txs in nonce order.
type pool struct {
	mu sync.RWMutex

	bySender map[wire.Address]map[uint64]*entry
	byHash   map[chainhash.Hash]*entry
	size     int
}

func newPool() *pool {
	return &pool{
		bySender: make(map[wire.Address]map[uint64]*entry),
		byHash:   make(map[chainhash.Hash]*entry),
	}
}

// insertOrReplace inserts e, or, if a tx already occupies (sender,
// nonce), applies the replace-by-fee rule: replaced reports whether e
// won the slot, hadExisting reports whether a slot was already
// occupied. hadExisting && !replaced means the existing tx was kept and
// e was rejected.
func (p *pool) insertOrReplace(sender wire.Address, nonce uint64, e *entry) (replaced, hadExisting bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	byNonce, ok := p.bySender[sender]
	if !ok {
		byNonce = make(map[uint64]*entry)
		p.bySender[sender] = byNonce
	}

	existing, hadExisting := byNonce[nonce]
	if hadExisting {
		if !rbfBumpSatisfied(existing.tx.Fee, e.tx.Fee) {
			return false, true, nil
		}
		delete(p.byHash, existing.hash)
	}

	byNonce[nonce] = e
	p.byHash[e.hash] = e
	p.size += e.size
	if hadExisting {
		p.size -= existing.size
	}
	return true, hadExisting, nil
}

func (p *pool) removeByHash(hash chainhash.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeByHashLocked(hash)
}

func (p *pool) removeByHashLocked(hash chainhash.Hash) bool {
	e, ok := p.byHash[hash]
	if !ok {
		return false
	}
	delete(p.byHash, hash)
	if byNonce, ok := p.bySender[e.tx.Sender]; ok {
		delete(byNonce, e.tx.Nonce)
		if len(byNonce) == 0 {
			delete(p.bySender, e.tx.Sender)
		}
	}
	p.size -= e.size
	return true
}

func (p *pool) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bySender = make(map[wire.Address]map[uint64]*entry)
	p.byHash = make(map[chainhash.Hash]*entry)
	p.size = 0
}

func (p *pool) count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byHash)
}

func (p *pool) totalSize() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.size
}

// senderGroups returns, for every sender with at least one pending tx,
// its entries ordered by ascending nonce.
func (p *pool) senderGroups() map[wire.Address][]*entry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	groups := make(map[wire.Address][]*entry, len(p.bySender))
	for sender, byNonce := range p.bySender {
		nonces := make([]uint64, 0, len(byNonce))
		for n := range byNonce {
			nonces = append(nonces, n)
		}
		sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })
		ordered := make([]*entry, len(nonces))
		for i, n := range nonces {
			ordered[i] = byNonce[n]
		}
		groups[sender] = ordered
	}
	return groups
}

// getByHash returns the entry for hash, if currently pooled.
func (p *pool) getByHash(hash chainhash.Hash) (*entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.byHash[hash]
	return e, ok
}

// allByHash returns a snapshot slice of every currently pooled entry.
func (p *pool) allByHash() []*entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*entry, 0, len(p.byHash))
	for _, e := range p.byHash {
		out = append(out, e)
	}
	return out
}
