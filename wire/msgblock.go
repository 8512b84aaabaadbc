// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

// MsgNewBlock gossips a full block to peers, sent by the transport when
// the chain engine publishes a BlockConnectedEvent with source MINER or
// BROADCAST.
type MsgNewBlock struct {
	Block *Block
}

// Command implements Message.
func (m *MsgNewBlock) Command() MessageType { return MsgTypeNewBlock }

// Encode implements Message.
func (m *MsgNewBlock) Encode(e *Encoder) { m.Block.Encode(e) }

func decodeNewBlock(d *Decoder) (*MsgNewBlock, error) {
	b, err := DecodeBlock(d)
	if err != nil {
		return nil, err
	}
	return &MsgNewBlock{Block: b}, nil
}

// MsgNewMempoolTx gossips a single pending transaction, sent whenever the
// mempool accepts a new tx.
type MsgNewMempoolTx struct {
	Tx *Tx
}

// Command implements Message.
func (m *MsgNewMempoolTx) Command() MessageType { return MsgTypeNewMempoolTx }

// Encode implements Message.
func (m *MsgNewMempoolTx) Encode(e *Encoder) { m.Tx.Encode(e) }

func decodeNewMempoolTx(d *Decoder) (*MsgNewMempoolTx, error) {
	tx, err := DecodeTx(d)
	if err != nil {
		return nil, err
	}
	return &MsgNewMempoolTx{Tx: tx}, nil
}
