// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"math/big"
	"time"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
)

// ConnectedSource records how a stored block entered the active chain.
type ConnectedSource uint8

// Recognized connection sources.
const (
	SourceGenesis ConnectedSource = iota + 1
	SourceMiner
	SourceBroadcast
	SourceSync
	SourceReorg
)

func (s ConnectedSource) String() string {
	switch s {
	case SourceGenesis:
		return "GENESIS"
	case SourceMiner:
		return "MINER"
	case SourceBroadcast:
		return "BROADCAST"
	case SourceSync:
		return "SYNC"
	case SourceReorg:
		return "REORG"
	default:
		return "UNKNOWN"
	}
}

// StoredBlock is the durable representation of a block as held by the
// block store: the block itself, plus bookkeeping derived at connect
// time.
type StoredBlock struct {
	Block               Block
	CumulativeDifficulty *big.Int
	ReceivedAt           time.Time
	ReceivedFrom         string
	ConnectedSource      ConnectedSource
	TxHashes             []chainhash.Hash
	TxSizes              []int
	TxSenders            []Address
	Events               []BlockEvent
}

// Hash returns the block's hash.
func (sb *StoredBlock) Hash() chainhash.Hash {
	return sb.Block.Header.Hash()
}

// Height returns the block's height.
func (sb *StoredBlock) Height() uint64 {
	return sb.Block.Header.Height
}
