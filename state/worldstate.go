// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/trie"
	"github.com/EXCCoin/exccd/wire"
)

// WorldState is a logical view over the world-state trie rooted at a
// specific state root, plus the per-block mutation buffers (one Diff per
// mutated entity). A WorldState is single-owner: the Chain Engine
// holds the only writable reference at any time; everything else
// observes committed state through the block store.
type WorldState struct {
	store    trie.Store
	base     *trie.Trie
	mining   bool

	balances    map[balanceKey]*Diff[*uint256.Uint256]
	nonces      map[wire.Address]*Diff[uint64]
	tokens      map[wire.Address]*Diff[TokenState]
	authorities map[wire.Address]*Diff[bool]
	validators  map[wire.Address]*Diff[bool]
	aliases     map[string]*Diff[wire.Address]
	bips        map[chainhash.Hash]*Diff[BipState]
	params      *Diff[NetworkParamsState]

	authorityCount *Diff[uint32]
}

// newWorldState is the shared constructor behind CreateForValidation and
// CreateForMining.
func newWorldState(store trie.Store, prevStateRoot chainhash.Hash, mining bool) *WorldState {
	return &WorldState{
		store:       store,
		base:        trie.New(store, trie.LocationWorldState, prevStateRoot),
		mining:      mining,
		balances:    make(map[balanceKey]*Diff[*uint256.Uint256]),
		nonces:      make(map[wire.Address]*Diff[uint64]),
		tokens:      make(map[wire.Address]*Diff[TokenState]),
		authorities: make(map[wire.Address]*Diff[bool]),
		validators:  make(map[wire.Address]*Diff[bool]),
		aliases:     make(map[string]*Diff[wire.Address]),
		bips:        make(map[chainhash.Hash]*Diff[BipState]),
	}
}

// CreateForValidation builds a WorldState positioned at prevStateRoot,
// used whenever a block is validated (whether freshly received, during
// sync, or during a reorg replay). Each entity's old value is read and
// captured in its Diff at the entity's first mutation.
func CreateForValidation(store trie.Store, prevStateRoot chainhash.Hash) *WorldState {
	return newWorldState(store, prevStateRoot, false)
}

// CreateForMining builds a WorldState positioned at prevStateRoot, used
// while assembling a candidate block that may be discarded before it is
// ever connected. It sets the mining flag, which no method reads: diffs,
// old values included, are captured exactly as in CreateForValidation,
// and there is no lazy-diff mode.
func CreateForMining(store trie.Store, prevStateRoot chainhash.Hash) *WorldState {
	return newWorldState(store, prevStateRoot, true)
}

func (ws *WorldState) trieGet(key []byte) ([]byte, bool, error) {
	return ws.base.Get(key)
}

// PrepareForNextBlock resets the per-block mutation buffers, leaving the
// trie root (whatever was last computed by CalculateRootHash) as the new
// base for subsequent mutations.
func (ws *WorldState) PrepareForNextBlock() {
	ws.balances = make(map[balanceKey]*Diff[*uint256.Uint256])
	ws.nonces = make(map[wire.Address]*Diff[uint64])
	ws.tokens = make(map[wire.Address]*Diff[TokenState])
	ws.authorities = make(map[wire.Address]*Diff[bool])
	ws.validators = make(map[wire.Address]*Diff[bool])
	ws.aliases = make(map[string]*Diff[wire.Address])
	ws.bips = make(map[chainhash.Hash]*Diff[BipState])
	ws.params = nil
	ws.authorityCount = nil
}

// PersistToBatch flushes every trie node write staged while computing
// the current root into batch. CalculateRootHash must be called first.
func (ws *WorldState) PersistToBatch(batch trie.Batch) error {
	if err := ws.store.CommitToBatch(batch); err != nil {
		return err
	}
	return nil
}

// MarkPersisted must be called once the caller has durably committed the
// batch populated by PersistToBatch, promoting the staged writes into
// the store's read cache.
func (ws *WorldState) MarkPersisted() {
	ws.store.MarkCommitted()
}
