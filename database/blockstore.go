// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package database

import (
	"math/big"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

// TxIndexEntry records where a transaction lives on the main chain, so a
// wallet or explorer can locate it by hash alone.
type TxIndexEntry struct {
	BlockHash   chainhash.Hash
	Height      uint64
	IndexInTx   uint32
}

func (e TxIndexEntry) encode() []byte {
	enc := wire.NewEncoder()
	enc.WriteVersion(1)
	enc.WriteHash(e.BlockHash)
	enc.WriteVarUint(e.Height)
	enc.WriteVarUint(uint64(e.IndexInTx))
	return enc.Bytes()
}

func decodeTxIndexEntry(b []byte) (TxIndexEntry, error) {
	d := wire.NewDecoder(b)
	if _, err := d.ReadVersion(); err != nil {
		return TxIndexEntry{}, err
	}
	var e TxIndexEntry
	var err error
	if e.BlockHash, err = d.ReadHash(); err != nil {
		return TxIndexEntry{}, err
	}
	if e.Height, err = d.ReadVarUint(); err != nil {
		return TxIndexEntry{}, err
	}
	idx, err := d.ReadVarUint()
	if err != nil {
		return TxIndexEntry{}, err
	}
	e.IndexInTx = uint32(idx)
	return e, nil
}

// UndoEntry captures enough information to reverse one block's effect on
// the world state and the secondary indexes during a reorg, without
// replaying validation. Its payload is opaque to the database package;
// callers (the chain engine) own the encoding of Diffs.
type UndoEntry struct {
	BlockHash chainhash.Hash
	Diffs     []byte // caller-encoded state diff, applied in reverse on disconnect
}

// ExecuteAtomicBatch runs fn against a fresh Batch and, if fn succeeds,
// commits every staged write atomically; if fn returns an error nothing
// is written.
func (db *DB) ExecuteAtomicBatch(fn func(*Batch) error) error {
	batch := db.NewBatch()
	if err := fn(batch); err != nil {
		return err
	}
	return db.Commit(batch)
}

// PutConnectedBlock stages every write implied by connecting block at
// height with the given cumulative difficulty and undo entry: the block
// body, its header, the main-chain pointer, the cumulative difficulty,
// a tx-index entry per transaction, an address-tx-index entry per
// sender/recipient, and the undo log entry.
func (b *Batch) PutConnectedBlock(block *wire.Block, height uint64, cumulativeDifficulty *big.Int, undo UndoEntry) {
	hash := block.Header.Hash()

	b.putBlocksByHash(hash, block.Bytes())

	hdrEnc := wire.NewEncoder()
	block.Header.Encode(hdrEnc)
	b.putHeaderByHash(hash, hdrEnc.Bytes())

	b.putMainChainByHeight(height, hash)
	b.putCumulativeDifficulty(hash, cumulativeDifficulty.Bytes())

	for i, tx := range block.Txs {
		txHash := tx.Hash()
		entry := TxIndexEntry{BlockHash: hash, Height: height, IndexInTx: uint32(i)}
		b.putTxIndex(txHash, entry.encode())

		b.putAddressTxIndexEntry(tx.Sender, height, txHash)
		if tx.Recipient != nil {
			b.putAddressTxIndexEntry(*tx.Recipient, height, txHash)
		}
	}

	b.putUndoLog(hash, undo.encode())
}

// PutDisconnectedBlock stages every write implied by disconnecting the
// block at height with hash: removal of the main-chain pointer, the
// tx-index entries, the address-tx-index entries, and the undo log
// entry. The block body/header rows are left in place since they remain
// valid history even once off the main chain.
func (b *Batch) PutDisconnectedBlock(block *wire.Block, height uint64) {
	hash := block.Header.Hash()

	b.deleteMainChainByHeight(height)

	for _, tx := range block.Txs {
		txHash := tx.Hash()
		b.deleteTxIndex(txHash)
		b.deleteAddressTxIndexEntry(tx.Sender, height, txHash)
		if tx.Recipient != nil {
			b.deleteAddressTxIndexEntry(*tx.Recipient, height, txHash)
		}
	}

	b.deleteUndoLog(hash)
}

func (u UndoEntry) encode() []byte {
	enc := wire.NewEncoder()
	enc.WriteVersion(1)
	enc.WriteHash(u.BlockHash)
	enc.WriteBytes(u.Diffs)
	return enc.Bytes()
}

// GetTxIndexEntry resolves where txHash lives on the main chain.
func (db *DB) GetTxIndexEntry(txHash chainhash.Hash) (TxIndexEntry, bool, error) {
	raw, ok, err := db.GetTxIndex(txHash)
	if err != nil || !ok {
		return TxIndexEntry{}, ok, err
	}
	e, err := decodeTxIndexEntry(raw)
	return e, err == nil, err
}
