// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/EXCCoin/exccd/chaincfg"
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/wire"
)

// Params returns the chain's immutable network parameters.
func (bc *BlockChain) Params() *chaincfg.Params {
	return bc.params
}

// Snapshot returns a read-only WorldState positioned at the current
// tip's state root. Callers outside the Chain Engine (the mempool, in
// particular) use this to read balances, nonces, and governance state
// without ever calling PersistToBatch/MarkPersisted on the result; the
// snapshot is discarded once the caller is done with it.
func (bc *BlockChain) Snapshot() *state.WorldState {
	return state.CreateForValidation(bc.store, bc.TipStateRoot())
}

// CurrentParams returns the network parameters in effect at the current
// tip, falling back to the network's genesis defaults if no
// NETWORK_PARAMS_SET BIP has ever been approved.
func (bc *BlockChain) CurrentParams() (state.NetworkParamsState, error) {
	return bc.Snapshot().GetParams(fallbackNetworkParams(bc.params))
}

// CurrentAuthorityCount returns the number of active authorities at the
// current tip.
func (bc *BlockChain) CurrentAuthorityCount() (uint32, error) {
	return bc.Snapshot().GetAuthorityCount()
}

// HeaderAtHeight returns the main-chain header at height, for the sync
// manager to compare against a peer-advertised chain without needing
// direct access to the store.
func (bc *BlockChain) HeaderAtHeight(height uint64) (*wire.BlockHeader, bool, error) {
	hdr, err := bc.loadHeaderAtHeight(height)
	if err != nil {
		if re, ok := err.(RuleError); ok && re.ErrorCode == ErrMissingParent {
			return nil, false, nil
		}
		return nil, false, err
	}
	return hdr, true, nil
}

// HeaderByHash returns the header identified by hash, if known to this
// node (main chain or otherwise retained).
func (bc *BlockChain) HeaderByHash(hash chainhash.Hash) (*wire.BlockHeader, bool, error) {
	hdr, err := bc.loadHeader(hash)
	if err != nil {
		if re, ok := err.(RuleError); ok && re.ErrorCode == ErrMissingParent {
			return nil, false, nil
		}
		return nil, false, err
	}
	return hdr, true, nil
}

// Block returns the full block identified by hash, if stored.
func (bc *BlockChain) Block(hash chainhash.Hash) (*wire.Block, bool, error) {
	raw, ok, err := bc.db.GetBlock(hash)
	if err != nil || !ok {
		return nil, ok, err
	}
	blk, err := wire.DecodeBlock(wire.NewDecoder(raw))
	if err != nil {
		return nil, false, err
	}
	return blk, true, nil
}

// NextDifficulty returns the target a candidate block at the current
// tip height+1 must meet, per the ASERT rule, for the mining package to
// build a block template without duplicating the retarget math.
func (bc *BlockChain) NextDifficulty() (*uint256.Uint256, error) {
	anchor, err := bc.loadAnchorHeader()
	if err != nil {
		return nil, err
	}
	_, tipHeight, _ := bc.Tip()
	parent, err := bc.loadHeaderAtHeight(tipHeight)
	if err != nil {
		return nil, err
	}
	params, err := bc.CurrentParams()
	if err != nil {
		return nil, err
	}
	return calcASERTDifficulty(
		anchor.Difficulty, anchor.Timestamp, int64(anchor.Height),
		parent.Timestamp, tipHeight+1,
		params.TargetMiningTimeMs, params.AsertHalfLifeBlocks,
		params.MinDifficulty,
	), nil
}

// WithChainLock runs fn while holding the master chain lock. Mempool
// admission uses this so it never validates a tx against a tip that
// connect_block or execute_atomic_reorg_swap is concurrently replacing.
func (bc *BlockChain) WithChainLock(fn func() error) error {
	bc.chainLock.Lock()
	defer bc.chainLock.Unlock()
	return fn()
}
