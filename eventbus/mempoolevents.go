// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventbus

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

// AddReason records why a transaction was admitted to the mempool.
type AddReason uint8

// Supported add reasons.
const (
	AddReasonNew AddReason = iota + 1
	AddReasonReorg
)

// RemoveReason records why a transaction left the mempool.
type RemoveReason uint8

// Supported remove reasons.
const (
	RemoveReasonMined RemoveReason = iota + 1
	RemoveReasonRBF
	RemoveReasonStaleNonce
	RemoveReasonExpired
	RemoveReasonInvalid
)

// MempoolTxAddEvent is published whenever a transaction is admitted.
type MempoolTxAddEvent struct {
	Hash   chainhash.Hash
	Tx     *wire.Tx
	Reason AddReason
}

// MempoolTxRemoveEvent is published whenever a transaction leaves.
type MempoolTxRemoveEvent struct {
	Hash   chainhash.Hash
	Reason RemoveReason
}
