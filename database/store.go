// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package database implements the node's durable storage layer on top of
// goleveldb. goleveldb has no notion of column families, so each logical
// table from the block store design is modeled as a distinct key
// prefix within one shared LevelDB instance; atomicity across tables is
// provided by a single leveldb.Batch per logical operation.
package database

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/trie"
	"github.com/EXCCoin/exccd/wire"
)

// Key prefixes for the logical tables. A single byte is enough; none of
// these ever needs more than 256 tables.
const (
	prefixStateTrie        byte = 0x01
	prefixBlocksByHash     byte = 0x02
	prefixHeaderByHash     byte = 0x03
	prefixMainChainByHeight byte = 0x04
	prefixCumDiffByHash    byte = 0x05
	prefixTxIndex          byte = 0x06
	prefixAddressTxIndex   byte = 0x07
	prefixEntityUndoLog    byte = 0x08
	prefixPeerReputation   byte = 0x09
)

// DB is the node's durable store: the union of the state trie's node
// table and the block store's column families, all backed by one
// on-disk LevelDB database.
type DB struct {
	ldb *leveldb.DB
}

// Open opens (creating if absent) the LevelDB database rooted at dir.
func Open(dir string) (*DB, error) {
	ldb, err := leveldb.OpenFile(dir, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("database: opening %s: %w", dir, err)
	}
	return &DB{ldb: ldb}, nil
}

// Close releases the underlying LevelDB handle.
func (db *DB) Close() error {
	return db.ldb.Close()
}

// Batch accumulates writes across every table for one atomic commit. It
// satisfies trie.Batch so the trie node store can stage its writes into
// the same atomic unit as block-store metadata.
type Batch struct {
	b *leveldb.Batch
}

// NewBatch returns an empty Batch.
func (db *DB) NewBatch() *Batch {
	return &Batch{b: new(leveldb.Batch)}
}

// Commit atomically applies every write staged in batch.
func (db *DB) Commit(batch *Batch) error {
	return db.ldb.Write(batch.b, nil)
}

// PutNode implements trie.Batch.
func (b *Batch) PutNode(location trie.Location, hash chainhash.Hash, encoded []byte) {
	b.b.Put(trieNodeKey(location, hash), encoded)
}

func (b *Batch) putBlocksByHash(hash chainhash.Hash, encoded []byte) {
	b.b.Put(prefixedKey(prefixBlocksByHash, hash[:]), encoded)
}

func (b *Batch) putHeaderByHash(hash chainhash.Hash, encoded []byte) {
	b.b.Put(prefixedKey(prefixHeaderByHash, hash[:]), encoded)
}

func (b *Batch) putMainChainByHeight(height uint64, hash chainhash.Hash) {
	b.b.Put(prefixedKey(prefixMainChainByHeight, heightKey(height)), hash[:])
}

func (b *Batch) deleteMainChainByHeight(height uint64) {
	b.b.Delete(prefixedKey(prefixMainChainByHeight, heightKey(height)))
}

func (b *Batch) putCumulativeDifficulty(hash chainhash.Hash, encoded []byte) {
	b.b.Put(prefixedKey(prefixCumDiffByHash, hash[:]), encoded)
}

func (b *Batch) putTxIndex(txHash chainhash.Hash, encoded []byte) {
	b.b.Put(prefixedKey(prefixTxIndex, txHash[:]), encoded)
}

func (b *Batch) deleteTxIndex(txHash chainhash.Hash) {
	b.b.Delete(prefixedKey(prefixTxIndex, txHash[:]))
}

func (b *Batch) putAddressTxIndexEntry(addr wire.Address, height uint64, txHash chainhash.Hash) {
	key := append(append([]byte{}, addr[:]...), heightKey(height)...)
	key = append(key, txHash[:]...)
	b.b.Put(prefixedKey(prefixAddressTxIndex, key), []byte{1})
}

func (b *Batch) deleteAddressTxIndexEntry(addr wire.Address, height uint64, txHash chainhash.Hash) {
	key := append(append([]byte{}, addr[:]...), heightKey(height)...)
	key = append(key, txHash[:]...)
	b.b.Delete(prefixedKey(prefixAddressTxIndex, key))
}

func (b *Batch) putUndoLog(hash chainhash.Hash, encoded []byte) {
	b.b.Put(prefixedKey(prefixEntityUndoLog, hash[:]), encoded)
}

func (b *Batch) deleteUndoLog(hash chainhash.Hash) {
	b.b.Delete(prefixedKey(prefixEntityUndoLog, hash[:]))
}

func (b *Batch) putPeerReputation(addr string, encoded []byte) {
	b.b.Put(prefixedKey(prefixPeerReputation, []byte(addr)), encoded)
}

// GetNode implements the trie store's durableGetter contract.
func (db *DB) GetNode(location trie.Location, hash chainhash.Hash) ([]byte, bool, error) {
	v, err := db.ldb.Get(trieNodeKey(location, hash), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetBlock returns the raw encoded block stored under hash.
func (db *DB) GetBlock(hash chainhash.Hash) ([]byte, bool, error) {
	return db.get(prefixedKey(prefixBlocksByHash, hash[:]))
}

// GetHeader returns the raw encoded header stored under hash.
func (db *DB) GetHeader(hash chainhash.Hash) ([]byte, bool, error) {
	return db.get(prefixedKey(prefixHeaderByHash, hash[:]))
}

// GetMainChainHash returns the main-chain block hash at height.
func (db *DB) GetMainChainHash(height uint64) (chainhash.Hash, bool, error) {
	v, ok, err := db.get(prefixedKey(prefixMainChainByHeight, heightKey(height)))
	if err != nil || !ok {
		return chainhash.Zero, ok, err
	}
	var h chainhash.Hash
	copy(h[:], v)
	return h, true, nil
}

// GetCumulativeDifficulty returns the raw encoded cumulative difficulty
// for hash.
func (db *DB) GetCumulativeDifficulty(hash chainhash.Hash) ([]byte, bool, error) {
	return db.get(prefixedKey(prefixCumDiffByHash, hash[:]))
}

// GetTxIndex returns the raw encoded tx index entry for txHash.
func (db *DB) GetTxIndex(txHash chainhash.Hash) ([]byte, bool, error) {
	return db.get(prefixedKey(prefixTxIndex, txHash[:]))
}

// GetPeerReputation returns the raw encoded reputation record for addr.
func (db *DB) GetPeerReputation(addr string) ([]byte, bool, error) {
	return db.get(prefixedKey(prefixPeerReputation, []byte(addr)))
}

// PutPeerReputation writes the reputation record for addr directly,
// outside the block-connect atomic batch; reputation updates happen on
// their own P2P-driven schedule and have no consensus-critical ordering
// requirement with block connection.
func (db *DB) PutPeerReputation(addr string, encoded []byte) error {
	return db.ldb.Put(prefixedKey(prefixPeerReputation, []byte(addr)), encoded, nil)
}

// IterateAddressTxIndex calls fn for every recorded transaction touching
// addr, in ascending height order, until fn returns false.
func (db *DB) IterateAddressTxIndex(addr wire.Address, fn func(height uint64, txHash chainhash.Hash) bool) error {
	prefix := prefixedKey(prefixAddressTxIndex, addr[:])
	iter := db.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		rest := iter.Key()[len(prefix):]
		if len(rest) < 8+chainhash.HashSize {
			continue
		}
		height := decodeHeightKey(rest[:8])
		var txHash chainhash.Hash
		copy(txHash[:], rest[8:8+chainhash.HashSize])
		if !fn(height, txHash) {
			break
		}
	}
	return iter.Error()
}

func (db *DB) get(key []byte) ([]byte, bool, error) {
	v, err := db.ldb.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func trieNodeKey(location trie.Location, hash chainhash.Hash) []byte {
	key := append([]byte(location), ':')
	return prefixedKey(prefixStateTrie, append(key, hash[:]...))
}

func prefixedKey(prefix byte, rest []byte) []byte {
	key := make([]byte, 0, 1+len(rest))
	key = append(key, prefix)
	key = append(key, rest...)
	return key
}

func heightKey(height uint64) []byte {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[7-i] = byte(height >> (8 * i))
	}
	return b[:]
}

func decodeHeightKey(b []byte) uint64 {
	var h uint64
	for _, x := range b {
		h = h<<8 | uint64(x)
	}
	return h
}
