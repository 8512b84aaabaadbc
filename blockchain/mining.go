// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"time"

	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/validator"
	"github.com/EXCCoin/exccd/wire"
)

// PrepareCandidate builds an unmined, unsigned block extending the
// current tip out of txs (already ordered by the caller, typically via
// Mempool.SelectForBlock): it stateful-validates and applies each tx
// against a CreateForMining WorldState exactly as connectDirectLocked's
// applyBlockBody does, so the StateRootHash it computes is guaranteed to
// be exactly what a later ConnectBlock call will accept. A tx that fails
// stateful validation against this tip is simply skipped rather than
// aborting template construction, since a stale mempool entry racing a
// concurrent tip change is expected, not a caller error.
//
// The returned block's Header has every consensus field set except
// Nonce, Identity, and Signature — the miner fills those in once a
// proof-of-work nonce is found and the header is signed.
func (bc *BlockChain) PrepareCandidate(txs []*wire.Tx, coinbase wire.Address, now time.Time) (*wire.Block, error) {
	bc.tipMu.RLock()
	parentHeader := bc.tip.header
	bc.tipMu.RUnlock()

	difficulty, err := bc.NextDifficulty()
	if err != nil {
		return nil, err
	}

	ws := state.CreateForMining(bc.store, parentHeader.StateRootHash)
	params, err := ws.GetParams(fallbackNetworkParams(bc.params))
	if err != nil {
		return nil, err
	}

	included := make([]*wire.Tx, 0, len(txs))
	totalFees := uint256.Zero()
	for _, tx := range txs {
		opts := validator.StatefulOptions{
			NonceMode:   validator.NonceExact,
			Now:         now,
			NativeToken: wire.NativeTokenAddress,
		}
		if err := validator.Stateful(tx, ws, opts); err != nil {
			continue
		}
		if err := bc.applyTransaction(ws, tx, params); err != nil {
			continue
		}
		included = append(included, tx)
		totalFees = totalFees.Add(tx.Fee)
	}

	rewardPaid, err := calculateCoinbaseReward(ws, bc.params, totalFees)
	if err != nil {
		return nil, err
	}
	if err := ws.Credit(coinbase, wire.NativeTokenAddress, rewardPaid); err != nil {
		return nil, err
	}

	stateRoot, err := ws.CalculateRootHash()
	if err != nil {
		return nil, err
	}

	header := wire.BlockHeader{
		Version:       wire.HeaderVersion,
		Height:        parentHeader.Height + 1,
		Timestamp:     now.UnixMilli(),
		PreviousHash:  parentHeader.Hash(),
		TxRootHash:    wire.CalculateTxRootHash(included),
		StateRootHash: stateRoot,
		Difficulty:    difficulty,
		Coinbase:      coinbase,
	}
	return &wire.Block{Header: header, Txs: included}, nil
}
