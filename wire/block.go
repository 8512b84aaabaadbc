// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
)

// BlockVersion is the only block encoding version currently defined.
const BlockVersion = 1

// Block pairs a header with its ordered transaction list.
type Block struct {
	Header BlockHeader
	Txs    []*Tx
}

// Encode writes the canonical, version-tagged encoding of the block.
func (b *Block) Encode(e *Encoder) {
	e.WriteVersion(BlockVersion)
	b.Header.Encode(e)
	e.WriteListLen(len(b.Txs))
	for _, tx := range b.Txs {
		tx.Encode(e)
	}
}

// DecodeBlock reads a Block previously written by Encode.
func DecodeBlock(d *Decoder) (*Block, error) {
	version, err := d.ReadVersion()
	if err != nil {
		return nil, err
	}
	if version != BlockVersion {
		return nil, &ErrUnsupportedVersion{TypeName: "Block", Version: version}
	}
	hdr, err := DecodeBlockHeader(d)
	if err != nil {
		return nil, err
	}
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	txs := make([]*Tx, n)
	for i := 0; i < n; i++ {
		tx, err := decodeTxV1InnerTx(d)
		if err != nil {
			return nil, err
		}
		txs[i] = tx
	}
	return &Block{Header: *hdr, Txs: txs}, nil
}

// decodeTxV1InnerTx decodes a Tx that was written inline (without its own
// leading version tag stripped yet) — block bodies encode each Tx with
// Tx.Encode, so its version tag is present and must be read normally.
func decodeTxV1InnerTx(d *Decoder) (*Tx, error) {
	return DecodeTx(d)
}

// Bytes returns the canonical encoding of the block.
func (b *Block) Bytes() []byte {
	e := NewEncoder()
	b.Encode(e)
	return e.Bytes()
}

// CalculateTxRootHash computes the Merkle root of the block's ordered
// transaction hashes using a simple balanced binary tree over ContentHash,
// duplicating the last element on odd levels (Bitcoin-style).
func CalculateTxRootHash(txs []*Tx) chainhash.Hash {
	if len(txs) == 0 {
		return ContentHash(nil)
	}
	level := make([]chainhash.Hash, len(txs))
	for i, tx := range txs {
		level[i] = tx.Hash()
	}
	return merkleRoot(level)
}

func merkleRoot(level []chainhash.Hash) chainhash.Hash {
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]chainhash.Hash, len(level)/2)
		for i := range next {
			buf := make([]byte, 0, chainhash.HashSize*2)
			buf = append(buf, level[2*i][:]...)
			buf = append(buf, level[2*i+1][:]...)
			next[i] = ContentHash(buf)
		}
		level = next
	}
	return level[0]
}
