// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "github.com/EXCCoin/exccd/chaincfg/chainhash"

// MsgGetMempoolHashes requests the set of pending transaction hashes a
// peer currently holds, used so the requester can diff against its own
// mempool before asking for full transactions.
type MsgGetMempoolHashes struct{}

// Command implements Message.
func (m *MsgGetMempoolHashes) Command() MessageType { return MsgTypeGetMempoolHashes }

// Encode implements Message.
func (m *MsgGetMempoolHashes) Encode(e *Encoder) {}

func decodeGetMempoolHashes(d *Decoder) (*MsgGetMempoolHashes, error) {
	return &MsgGetMempoolHashes{}, nil
}

// MsgMempoolHashes responds with the set of pending transaction hashes.
type MsgMempoolHashes struct {
	Hashes []chainhash.Hash
}

// Command implements Message.
func (m *MsgMempoolHashes) Command() MessageType { return MsgTypeMempoolHashes }

// Encode implements Message.
func (m *MsgMempoolHashes) Encode(e *Encoder) {
	e.WriteListLen(len(m.Hashes))
	for _, h := range m.Hashes {
		e.WriteHash(h)
	}
}

func decodeMempoolHashes(d *Decoder) (*MsgMempoolHashes, error) {
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	hashes := make([]chainhash.Hash, n)
	for i := 0; i < n; i++ {
		h, err := d.ReadHash()
		if err != nil {
			return nil, err
		}
		hashes[i] = h
	}
	return &MsgMempoolHashes{Hashes: hashes}, nil
}

// MsgGetMempoolTransactions requests full transactions for a subset of
// previously-advertised mempool hashes.
type MsgGetMempoolTransactions struct {
	Hashes []chainhash.Hash
}

// Command implements Message.
func (m *MsgGetMempoolTransactions) Command() MessageType { return MsgTypeGetMempoolTransactions }

// Encode implements Message.
func (m *MsgGetMempoolTransactions) Encode(e *Encoder) {
	e.WriteListLen(len(m.Hashes))
	for _, h := range m.Hashes {
		e.WriteHash(h)
	}
}

func decodeGetMempoolTransactions(d *Decoder) (*MsgGetMempoolTransactions, error) {
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	hashes := make([]chainhash.Hash, n)
	for i := 0; i < n; i++ {
		h, err := d.ReadHash()
		if err != nil {
			return nil, err
		}
		hashes[i] = h
	}
	return &MsgGetMempoolTransactions{Hashes: hashes}, nil
}

// MempoolTxPair couples a hash with its full transaction in a
// MsgMempoolTransactions response.
type MempoolTxPair struct {
	Hash chainhash.Hash
	Tx   *Tx
}

// MsgMempoolTransactions responds with (hash, tx) pairs for the requested
// hashes that the responder still holds.
type MsgMempoolTransactions struct {
	Transactions []MempoolTxPair
}

// Command implements Message.
func (m *MsgMempoolTransactions) Command() MessageType { return MsgTypeMempoolTransactions }

// Encode implements Message.
func (m *MsgMempoolTransactions) Encode(e *Encoder) {
	e.WriteListLen(len(m.Transactions))
	for _, p := range m.Transactions {
		e.WriteHash(p.Hash)
		p.Tx.Encode(e)
	}
}

func decodeMempoolTransactions(d *Decoder) (*MsgMempoolTransactions, error) {
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	pairs := make([]MempoolTxPair, n)
	for i := 0; i < n; i++ {
		h, err := d.ReadHash()
		if err != nil {
			return nil, err
		}
		tx, err := DecodeTx(d)
		if err != nil {
			return nil, err
		}
		pairs[i] = MempoolTxPair{Hash: h, Tx: tx}
	}
	return &MsgMempoolTransactions{Transactions: pairs}, nil
}
