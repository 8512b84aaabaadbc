// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"sync"

	"github.com/EXCCoin/exccd/chaincfg"
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/crypto"
	"github.com/EXCCoin/exccd/database"
	"github.com/EXCCoin/exccd/eventbus"
	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/trie"
	"github.com/EXCCoin/exccd/wire"
)

// tipInfo is the chain's cached view of its own best block; it is the
// only mutable piece of BlockChain state touched outside the master
// chain lock's critical sections, and even then only under tipMu.
type tipInfo struct {
	hash                 chainhash.Hash
	height               uint64
	cumulativeDifficulty *big.Int
	stateRootHash        chainhash.Hash
	header               *wire.BlockHeader
}

// BlockChain is the Chain Engine: it exclusively owns the current tip
// and the only writable reference to the World State. Every other
// component observes committed state through the Block Store or through
// events published on Bus.
type BlockChain struct {
	params   *chaincfg.Params
	db       *database.DB
	store    trie.Store
	bus      *eventbus.Bus
	verifier crypto.Verifier
	hasher   crypto.Hasher

	// chainLock is the single process-wide master chain lock; connect,
	// reorg, and (from the mempool package) admission all serialize on
	// it so no two observe an inconsistent view of the tip.
	chainLock sync.Mutex

	tipMu sync.RWMutex
	tip   tipInfo
}

// New constructs a BlockChain rooted at the network's genesis block,
// initializing the database and World State the first time it runs on
// a fresh data directory. hasher verifies a connecting block's proof of
// work against its claimed difficulty; its concrete implementation is
// injected at process start (see cmd/exccnoded), since the hash function
// itself is external to this module.
func New(params *chaincfg.Params, db *database.DB, store trie.Store, bus *eventbus.Bus, verifier crypto.Verifier, hasher crypto.Hasher) (*BlockChain, error) {
	bc := &BlockChain{params: params, db: db, store: store, bus: bus, verifier: verifier, hasher: hasher}

	existingHash, ok, err := db.GetMainChainHash(0)
	if err != nil {
		return nil, err
	}
	if ok {
		// params.GenesisHash is computed before the genesis state root is
		// filled in, so compare against the stored genesis header with
		// that field cleared.
		stored, err := bc.loadHeader(existingHash)
		if err != nil {
			return nil, err
		}
		unrooted := *stored
		unrooted.StateRootHash = chainhash.Zero
		if unrooted.Hash() == params.GenesisHash {
			if err := bc.loadTip(); err != nil {
				return nil, err
			}
			return bc, nil
		}
	}

	if err := bc.initGenesis(); err != nil {
		return nil, err
	}
	return bc, nil
}

// Tip returns a snapshot of the current best block's identity.
func (bc *BlockChain) Tip() (hash chainhash.Hash, height uint64, cumulativeDifficulty *big.Int) {
	bc.tipMu.RLock()
	defer bc.tipMu.RUnlock()
	return bc.tip.hash, bc.tip.height, new(big.Int).Set(bc.tip.cumulativeDifficulty)
}

// TipStateRoot returns the state root of the current best block.
func (bc *BlockChain) TipStateRoot() chainhash.Hash {
	bc.tipMu.RLock()
	defer bc.tipMu.RUnlock()
	return bc.tip.stateRootHash
}

func (bc *BlockChain) setTip(header *wire.BlockHeader, cumulativeDifficulty *big.Int) {
	bc.tipMu.Lock()
	defer bc.tipMu.Unlock()
	bc.tip = tipInfo{
		hash:                 header.Hash(),
		height:               header.Height,
		cumulativeDifficulty: cumulativeDifficulty,
		stateRootHash:        header.StateRootHash,
		header:               header,
	}
}

func (bc *BlockChain) loadTip() error {
	// Walk main_chain_by_height upward from height 0 until a height has
	// no entry; the last one found is the tip.
	var height uint64
	var lastHash chainhash.Hash
	found := false
	for {
		h, ok, err := bc.db.GetMainChainHash(height)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		lastHash = h
		found = true
		height++
	}
	if !found {
		return ruleError(ErrMissingParent, "no main chain rows found during load")
	}

	rawHeader, ok, err := bc.db.GetHeader(lastHash)
	if err != nil {
		return err
	}
	if !ok {
		return ruleError(ErrMissingParent, "header for tip %s missing", lastHash)
	}
	header, err := wire.DecodeBlockHeader(wire.NewDecoder(rawHeader))
	if err != nil {
		return err
	}

	rawDiff, ok, err := bc.db.GetCumulativeDifficulty(lastHash)
	if err != nil {
		return err
	}
	cumDiff := new(big.Int)
	if ok {
		cumDiff.SetBytes(rawDiff)
	}

	bc.setTip(header, cumDiff)
	return nil
}

func (bc *BlockChain) initGenesis() error {
	genesis := bc.params.GenesisBlock

	ws := state.CreateForValidation(bc.store, chainhash.Zero)
	var g wire.Block

	err := bc.db.ExecuteAtomicBatch(func(batch *database.Batch) error {
		for _, mint := range bc.params.GenesisMint {
			if err := ws.Credit(mint.Address, wire.NativeTokenAddress, mint.Amount); err != nil {
				return err
			}
		}
		for _, auth := range bc.params.InitialAuthorities {
			if err := ws.PutAuthority(auth); err != nil {
				return err
			}
		}

		root, err := ws.CalculateRootHash()
		if err != nil {
			return err
		}

		g = *genesis
		g.Header.StateRootHash = root

		if err := ws.PersistToBatch(batch); err != nil {
			return err
		}
		batch.PutConnectedBlock(&g, 0, blockWork(g.Header.Difficulty), database.UndoEntry{BlockHash: g.Header.Hash()})
		return nil
	})
	if err != nil {
		bc.store.Rollback()
		return err
	}

	ws.MarkPersisted()
	bc.setTip(&g.Header, blockWork(g.Header.Difficulty))
	return nil
}
