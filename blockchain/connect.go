// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/EXCCoin/exccd/chaincfg"
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/database"
	"github.com/EXCCoin/exccd/eventbus"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/validator"
	"github.com/EXCCoin/exccd/wire"
)

// fallbackNetworkParams converts the network's immutable genesis
// parameters into the NetworkParamsState used before the first accepted
// NETWORK_PARAMS_SET BIP ever touches the params cell.
func fallbackNetworkParams(params *chaincfg.Params) state.NetworkParamsState {
	return state.NetworkParamsState{
		BlockReward:         params.BlockReward,
		TargetMiningTimeMs:  params.TargetMiningTimeMs,
		AsertHalfLifeBlocks: params.AsertHalfLifeBlocks,
		MinDifficulty:       params.MinDifficulty,
		MinTxBaseFee:        params.MinTxBaseFee,
		MinTxByteFee:        params.MinTxByteFee,
	}
}

// ConnectBlock validates and applies block, extending the current tip.
// If block does not directly extend the tip, it hands off to a reorg
// that disconnects down to the common ancestor and replays every block
// from there, this one included.
func (bc *BlockChain) ConnectBlock(block *wire.Block, source wire.ConnectedSource) error {
	bc.chainLock.Lock()
	defer bc.chainLock.Unlock()

	tipHash, _, _ := bc.Tip()
	if block.Header.PreviousHash != tipHash {
		ancestor, err := bc.findCommonAncestor(block.Header.PreviousHash)
		if err != nil {
			return err
		}
		return bc.executeAtomicReorgSwapLocked(ancestor, []*wire.Block{block}, source)
	}

	return bc.connectDirectLocked(block, source)
}

// connectDirectLocked implements connect_block's steps 2-9 for a block
// that directly extends the current tip. The caller must hold
// chainLock.
func (bc *BlockChain) connectDirectLocked(block *wire.Block, source wire.ConnectedSource) error {
	parentHeader := bc.tip.header
	now := time.Now()

	ws := state.CreateForValidation(bc.store, parentHeader.StateRootHash)
	params, err := ws.GetParams(fallbackNetworkParams(bc.params))
	if err != nil {
		bc.store.Rollback()
		return err
	}

	if err := bc.validateHeaderContext(block, parentHeader, params, now); err != nil {
		bc.store.Rollback()
		return err
	}

	var events []wire.BlockEvent
	var cumDiff *big.Int
	err = bc.db.ExecuteAtomicBatch(func(batch *database.Batch) error {
		var err error
		events, err = bc.applyBlockBody(ws, block, now)
		if err != nil {
			return err
		}

		if err := ws.PersistToBatch(batch); err != nil {
			return err
		}

		parentCumDiff := new(big.Int).Set(bc.tip.cumulativeDifficulty)
		cumDiff = new(big.Int).Add(parentCumDiff, blockWork(block.Header.Difficulty))

		undo := database.UndoEntry{BlockHash: block.Header.Hash()}
		batch.PutConnectedBlock(block, block.Header.Height, cumDiff, undo)
		return nil
	})
	if err != nil {
		bc.store.Rollback()
		return err
	}

	ws.MarkPersisted()
	bc.setTip(&block.Header, cumDiff)

	bc.bus.PublishBlockConnected(&eventbus.BlockConnectedEvent{
		Block:     block,
		Height:    block.Header.Height,
		Events:    events,
		Source:    source,
		Timing:    time.Since(now),
		Timestamp: now,
	})
	return nil
}

// applyBlockBody runs connect_block's steps 4-7: it stateful-validates
// and applies every transaction, credits the coinbase, verifies the
// resulting root against the block's claimed stateRootHash, and
// extracts the block's event log. ws is mutated in place; the caller is
// responsible for persisting it.
func (bc *BlockChain) applyBlockBody(ws *state.WorldState, block *wire.Block, now time.Time) ([]wire.BlockEvent, error) {
	params, err := ws.GetParams(fallbackNetworkParams(bc.params))
	if err != nil {
		return nil, err
	}

	totalFees := uint256.Zero()
	for _, tx := range block.Txs {
		opts := validator.StatefulOptions{
			NonceMode:   validator.NonceExact,
			Now:         now,
			NativeToken: wire.NativeTokenAddress,
		}
		if err := validator.Stateful(tx, ws, opts); err != nil {
			return nil, ruleError(ErrInvalidTransaction, "tx %s: %v", tx.Hash(), err)
		}
		if err := bc.applyTransaction(ws, tx, params); err != nil {
			return nil, ruleError(ErrInvalidTransaction, "tx %s: %v", tx.Hash(), err)
		}
		totalFees = totalFees.Add(tx.Fee)
	}

	rewardPaid, err := calculateCoinbaseReward(ws, bc.params, totalFees)
	if err != nil {
		return nil, err
	}
	if err := ws.Credit(block.Header.Coinbase, wire.NativeTokenAddress, rewardPaid); err != nil {
		return nil, err
	}

	root, err := ws.CalculateRootHash()
	if err != nil {
		return nil, err
	}
	if root != block.Header.StateRootHash {
		return nil, ruleError(ErrBadStateRoot, "got %s, block claims %s", root, block.Header.StateRootHash)
	}

	return extractBlockEvents(ws, block.Header.Coinbase, totalFees, rewardPaid), nil
}

// applyTransaction debits tx's fee and mutates state according to its
// type. The caller has already stateful-validated tx against the same
// ws snapshot.
func (bc *BlockChain) applyTransaction(ws *state.WorldState, tx *wire.Tx, params state.NetworkParamsState) error {
	if err := ws.Debit(tx.Sender, wire.NativeTokenAddress, tx.Fee); err != nil {
		return err
	}
	if err := ws.SetNonce(tx.Sender, tx.Nonce); err != nil {
		return err
	}

	switch tx.Type {
	case wire.TxTypeTransfer:
		if err := ws.Debit(tx.Sender, *tx.TokenAddress, tx.Amount); err != nil {
			return err
		}
		if err := ws.Credit(*tx.Recipient, *tx.TokenAddress, tx.Amount); err != nil {
			return err
		}

	case wire.TxTypeBipCreate:
		hash := tx.Hash()
		bip := state.BipState{
			Hash:      hash,
			Proposer:  tx.Sender,
			Payload:   tx.Payload,
			Status:    state.BipStatusPending,
			CreatedAt: tx.Timestamp,
			ExpiresAt: tx.Timestamp + bc.params.BipExpirationPeriodMs,
		}
		// A BIP_CREATE is itself an implicit approve vote from the
		// proposer, per spec.md §3 scenario 5.
		bip.CastVote(tx.Sender, true)
		if err := ws.PutBip(bip); err != nil {
			return err
		}

	case wire.TxTypeBipVote:
		if err := bc.applyVote(ws, tx, params); err != nil {
			return err
		}
	}
	return nil
}

// applyVote records tx's vote on the BIP it references and, if the
// approval threshold is now met, flips the BIP to APPROVED and executes
// its payload's on-chain action.
func (bc *BlockChain) applyVote(ws *state.WorldState, tx *wire.Tx, params state.NetworkParamsState) error {
	bip, ok, err := ws.GetBip(*tx.ReferenceHash)
	if err != nil {
		return err
	}
	if !ok {
		return ruleError(ErrInvalidTransaction, "vote references unknown bip %s", *tx.ReferenceHash)
	}

	vote, ok := tx.Payload.(*wire.VotePayload)
	if !ok {
		return ruleError(ErrInvalidTransaction, "bip vote carries wrong payload type")
	}
	bip.CastVote(tx.Sender, vote.Approve)

	authorityCount, err := ws.GetAuthorityCount()
	if err != nil {
		return err
	}
	if bip.Approvals >= bc.params.RequiredBipVotes(authorityCount) {
		bip.Status = state.BipStatusApproved
		if err := executeBipAction(ws, bip, params); err != nil {
			return err
		}
	}

	return ws.PutBip(bip)
}

// executeBipAction applies the on-chain effect of an approved BIP,
// dispatching on its payload's concrete type.
func executeBipAction(ws *state.WorldState, bip state.BipState, fallback state.NetworkParamsState) error {
	switch p := bip.Payload.(type) {
	case *wire.TokenCreatePayload:
		tokenAddr, err := deriveTokenAddress(bip.Hash)
		if err != nil {
			return err
		}
		return ws.PutToken(state.TokenState{
			Address:          tokenAddr,
			Name:             p.Name,
			SmallestUnitName: p.SmallestUnitName,
			Decimals:         p.Decimals,
			MaxSupply:        p.MaxSupply,
			CurrentSupply:    uint256.Zero(),
			UserBurnable:     p.UserBurnable,
			URLs:             p.URLs,
			Creator:          bip.Proposer,
		})

	case *wire.AuthorityAddPayload:
		return ws.PutAuthority(p.Address)

	case *wire.AuthorityRemovePayload:
		return ws.RemoveAuthority(p.Address)

	case *wire.ValidatorAddPayload:
		return ws.PutValidator(p.Address)

	case *wire.ValidatorRemovePayload:
		return ws.RemoveValidator(p.Address)

	case *wire.AliasRegisterPayload:
		return ws.PutAlias(p.Alias, p.Address)

	case *wire.NetworkParamsSetPayload:
		minDiff, err := uint256.NewFromBig(new(big.Int).SetUint64(p.MinDifficulty))
		if err != nil {
			return err
		}
		return ws.SetParams(fallback, state.NetworkParamsState{
			BlockReward:         p.BlockReward,
			TargetMiningTimeMs:  p.TargetMiningTimeMs,
			AsertHalfLifeBlocks: p.AsertHalfLifeBlocks,
			MinDifficulty:       minDiff,
			MinTxBaseFee:        p.MinTxBaseFee,
			MinTxByteFee:        p.MinTxByteFee,
		})
	}
	return nil
}

// deriveTokenAddress derives a deterministic token address from the
// hash of the BIP_CREATE transaction that proposed it, since created
// tokens have no signing key of their own.
func deriveTokenAddress(bipHash chainhash.Hash) (wire.Address, error) {
	h := wire.ContentHash(bipHash[:])
	return wire.AddressFromBytes(h[:wire.AddressSize])
}

// validateHeaderContext checks everything about block that can be
// verified without applying its transactions: difficulty, timestamp
// bounds, coinbase signature, and size limits.
func (bc *BlockChain) validateHeaderContext(block *wire.Block, parent *wire.BlockHeader, params state.NetworkParamsState, now time.Time) error {
	header := &block.Header
	anchor, err := bc.loadAnchorHeader()
	if err != nil {
		return err
	}

	wantDifficulty := calcASERTDifficulty(
		anchor.Difficulty, anchor.Timestamp, int64(anchor.Height),
		parent.Timestamp, header.Height,
		params.TargetMiningTimeMs, params.AsertHalfLifeBlocks,
		params.MinDifficulty,
	)
	if header.Difficulty.Cmp(wantDifficulty) != 0 {
		return ruleError(ErrBadDifficulty, "height %d: got %s, want %s", header.Height, header.Difficulty, wantDifficulty)
	}

	if header.Timestamp <= parent.Timestamp {
		return ruleError(ErrBadTimestamp, "height %d: timestamp %d not after parent %d", header.Height, header.Timestamp, parent.Timestamp)
	}
	nowMs := now.UnixMilli()
	if header.Timestamp > nowMs+bc.params.ClockSkewToleranceMs {
		return ruleError(ErrBadTimestamp, "height %d: timestamp %d too far in the future", header.Height, header.Timestamp)
	}

	signer, err := bc.verifier.RecoverAddress(wire.ContentHash(header.SigningBytes()), header.Signature)
	if err != nil || signer != header.Identity {
		return ruleError(ErrBadCoinbaseSignature, "height %d", header.Height)
	}

	digest, err := bc.hasher.Hash(header.MiningBytes(), header.Nonce)
	if err != nil {
		return ruleError(ErrBadProofOfWork, "height %d: hasher: %v", header.Height, err)
	}
	if !meetsTarget(digest, header.Difficulty) {
		return ruleError(ErrBadProofOfWork, "height %d: hash does not meet target %s", header.Height, header.Difficulty)
	}

	if len(block.Bytes()) > bc.params.MaxBlockSize(header.Height) {
		return ruleError(ErrBlockTooLarge, "height %d", header.Height)
	}
	if len(block.Txs) > bc.params.MaxTxCountPerBlock(header.Height) {
		return ruleError(ErrTooManyTransactions, "height %d: %d transactions", header.Height, len(block.Txs))
	}

	return nil
}

// loadAnchorHeader resolves the header at the network's fixed ASERT
// anchor height, the fixed reference point every subsequent target is
// computed relative to.
func (bc *BlockChain) loadAnchorHeader() (*wire.BlockHeader, error) {
	return bc.loadHeaderAtHeight(bc.params.AsertAnchorHeight)
}

func (bc *BlockChain) loadHeaderAtHeight(height uint64) (*wire.BlockHeader, error) {
	hash, ok, err := bc.db.GetMainChainHash(height)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ruleError(ErrMissingParent, "no main chain block at height %d", height)
	}
	return bc.loadHeader(hash)
}

func (bc *BlockChain) loadHeader(hash chainhash.Hash) (*wire.BlockHeader, error) {
	raw, ok, err := bc.db.GetHeader(hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ruleError(ErrMissingParent, "header %s not found", hash)
	}
	return wire.DecodeBlockHeader(wire.NewDecoder(raw))
}
