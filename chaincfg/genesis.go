// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// newGenesisBlock builds the network's height-0 block.  The genesis block
// is valid by definition: it carries no transactions of its own (the
// initial mint is applied out of band by the chain engine when connecting
// it, see GenesisMint) and its difficulty/timestamp only anchor later
// ASERT and timestamp-ordering calculations.
func newGenesisBlock(timestamp int64, startDifficulty uint64) *wire.Block {
	hdr := wire.BlockHeader{
		Version:       1,
		Height:        0,
		Timestamp:     timestamp,
		PreviousHash:  chainhash.Zero,
		TxRootHash:    wire.CalculateTxRootHash(nil),
		StateRootHash: chainhash.Zero, // filled in by the chain engine at genesis connect
		Difficulty:    uint256.NewFromUint64(startDifficulty),
		Coinbase:      wire.ZeroAddress,
		Nonce:         0,
		Identity:      wire.ZeroAddress,
	}
	return &wire.Block{Header: hdr, Txs: nil}
}
