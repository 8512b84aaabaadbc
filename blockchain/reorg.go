// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/database"
	"github.com/EXCCoin/exccd/eventbus"
	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/wire"
)

// ExecuteAtomicReorgSwap disconnects the current chain down to
// commonAncestor and connects newBlocks (ordered ancestor to tip) in its
// place, atomically. It is the entry point the sync manager uses once it
// has downloaded a competing chain's full bodies; ConnectBlock uses the
// unexported locked variant for the common single-block fork case.
func (bc *BlockChain) ExecuteAtomicReorgSwap(commonAncestor chainhash.Hash, newBlocks []*wire.Block, switchType wire.ConnectedSource) error {
	bc.chainLock.Lock()
	defer bc.chainLock.Unlock()
	return bc.executeAtomicReorgSwapLocked(commonAncestor, newBlocks, switchType)
}

type oldChainEntry struct {
	block  *wire.Block
	height uint64
}

// findCommonAncestor locates hash among the currently active main chain,
// walking down from the tip. It returns ErrMissingParent if hash is not
// an ancestor of the current tip, which covers both a truly unknown
// parent and a fork too deep for this node to have retained.
func (bc *BlockChain) findCommonAncestor(hash chainhash.Hash) (chainhash.Hash, error) {
	_, tipHeight, _ := bc.Tip()
	for h := tipHeight; ; h-- {
		mainHash, ok, err := bc.db.GetMainChainHash(h)
		if err != nil {
			return chainhash.Zero, err
		}
		if ok && mainHash == hash {
			return hash, nil
		}
		if h == 0 {
			break
		}
	}
	return chainhash.Zero, ruleError(ErrMissingParent, "no common ancestor for %s", hash)
}

// executeAtomicReorgSwapLocked implements execute_atomic_reorg_swap; the
// caller must hold chainLock.
func (bc *BlockChain) executeAtomicReorgSwapLocked(commonAncestor chainhash.Hash, newBlocks []*wire.Block, switchType wire.ConnectedSource) error {
	ancestorHeader, err := bc.loadHeader(commonAncestor)
	if err != nil {
		return err
	}

	oldTipHash, oldTipHeight, _ := bc.Tip()

	var oldChain []oldChainEntry
	for h := oldTipHeight; h > ancestorHeader.Height; h-- {
		hash, ok, err := bc.db.GetMainChainHash(h)
		if err != nil {
			return err
		}
		if !ok {
			return ruleError(ErrMissingParent, "main chain gap at height %d during reorg", h)
		}
		raw, ok, err := bc.db.GetBlock(hash)
		if err != nil {
			return err
		}
		if !ok {
			return ruleError(ErrMissingParent, "block %s missing from store during reorg", hash)
		}
		block, err := wire.DecodeBlock(wire.NewDecoder(raw))
		if err != nil {
			return err
		}
		oldChain = append(oldChain, oldChainEntry{block: block, height: h})
	}

	rawAncestorCumDiff, ok, err := bc.db.GetCumulativeDifficulty(commonAncestor)
	if err != nil {
		return err
	}
	cumDiff := new(big.Int)
	if ok {
		cumDiff.SetBytes(rawAncestorCumDiff)
	}

	var (
		disconnected []*eventbus.BlockDisconnectedEvent
		connected    []*eventbus.BlockConnectedEvent
		newTipHeader *wire.BlockHeader
		newCumDiff   *big.Int
		ws           *state.WorldState
	)
	now := time.Now()

	err = bc.db.ExecuteAtomicBatch(func(batch *database.Batch) error {
		for _, old := range oldChain {
			batch.PutDisconnectedBlock(old.block, old.height)
			disconnected = append(disconnected, &eventbus.BlockDisconnectedEvent{Block: old.block, Height: old.height})
		}

		ws = state.CreateForValidation(bc.store, ancestorHeader.StateRootHash)
		parentHeader := ancestorHeader
		runningCumDiff := new(big.Int).Set(cumDiff)

		for _, nb := range newBlocks {
			params, err := ws.GetParams(fallbackNetworkParams(bc.params))
			if err != nil {
				return err
			}
			if err := bc.validateHeaderContext(nb, parentHeader, params, now); err != nil {
				return err
			}

			events, err := bc.applyBlockBody(ws, nb, now)
			if err != nil {
				return err
			}
			if err := ws.PersistToBatch(batch); err != nil {
				return err
			}

			runningCumDiff = new(big.Int).Add(runningCumDiff, blockWork(nb.Header.Difficulty))
			undo := database.UndoEntry{BlockHash: nb.Header.Hash()}
			batch.PutConnectedBlock(nb, nb.Header.Height, runningCumDiff, undo)

			connected = append(connected, &eventbus.BlockConnectedEvent{
				Block: nb, Height: nb.Header.Height, Events: events,
				Source: switchType, Timestamp: now,
			})

			hdr := nb.Header
			parentHeader = &hdr
			ws.PrepareForNextBlock()
		}

		newTipHeader = parentHeader
		newCumDiff = runningCumDiff
		return nil
	})
	if err != nil {
		bc.store.Rollback()
		return err
	}

	ws.MarkPersisted()
	bc.setTip(newTipHeader, newCumDiff)

	for _, e := range disconnected {
		bc.bus.PublishBlockDisconnected(e)
	}
	for _, e := range connected {
		bc.bus.PublishBlockConnected(e)
	}
	if len(oldChain) > 0 {
		bc.bus.PublishBlockReorg(&eventbus.BlockReorgEvent{
			OldTipHash: oldTipHash,
			OldHeight:  oldTipHeight,
			NewTipHash: newTipHeader.Hash(),
			NewHeight:  newTipHeader.Height,
		})
	}
	return nil
}
