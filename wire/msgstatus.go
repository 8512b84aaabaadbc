// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"math/big"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
)

// MsgStatus is exchanged bidirectionally on connect (the handshake) and
// is also reused, unchanged in shape, as the PING/PONG keepalive payload.
type MsgStatus struct {
	NetworkID       uint32
	ProtocolVersion uint32
	SoftwareVersion string
	NodeIdentity    Address
	TotalDifficulty *big.Int
	HeadHash        chainhash.Hash
	HeadHeight      uint64
	Timestamp       int64
	Signature       Signature
}

// Command implements Message.
func (m *MsgStatus) Command() MessageType { return MsgTypeStatus }

// Encode implements Message.
func (m *MsgStatus) Encode(e *Encoder) {
	e.WriteVarUint(uint64(m.NetworkID))
	e.WriteVarUint(uint64(m.ProtocolVersion))
	e.WriteBytes([]byte(m.SoftwareVersion))
	e.buf.Write(m.NodeIdentity[:])
	diffBytes := m.TotalDifficulty.Bytes()
	e.WriteBytes(diffBytes)
	e.WriteHash(m.HeadHash)
	e.WriteVarUint(m.HeadHeight)
	e.WriteVarUint(uint64(m.Timestamp))
	e.buf.Write(m.Signature[:])
}

// SigningBytes returns the payload encoding with the signature zeroed.
func (m *MsgStatus) SigningBytes() []byte {
	cp := *m
	cp.Signature = Signature{}
	e := NewEncoder()
	cp.Encode(e)
	return e.Bytes()
}

func decodeStatus(d *Decoder) (*MsgStatus, error) {
	m := &MsgStatus{}
	nid, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	m.NetworkID = uint32(nid)
	pv, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	m.ProtocolVersion = uint32(pv)
	sv, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	m.SoftwareVersion = string(sv)
	if err := readAddress(d, &m.NodeIdentity); err != nil {
		return nil, err
	}
	diffBytes, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	m.TotalDifficulty = new(big.Int).SetBytes(diffBytes)
	if m.HeadHash, err = d.ReadHash(); err != nil {
		return nil, err
	}
	if m.HeadHeight, err = d.ReadVarUint(); err != nil {
		return nil, err
	}
	ts, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	m.Timestamp = int64(ts)
	sigBuf := make([]byte, SignatureSize)
	if _, err := readFull(d, sigBuf); err != nil {
		return nil, err
	}
	copy(m.Signature[:], sigBuf)
	return m, nil
}

// MsgPing and MsgPong are STATUS-shaped keepalive messages; they share the
// wire encoding exactly and differ only by their message-type tag.
type MsgPing MsgStatus

// Command implements Message.
func (m *MsgPing) Command() MessageType { return MsgTypePing }

// Encode implements Message.
func (m *MsgPing) Encode(e *Encoder) { (*MsgStatus)(m).Encode(e) }

// MsgPong is the STATUS-shaped keepalive reply.
type MsgPong MsgStatus

// Command implements Message.
func (m *MsgPong) Command() MessageType { return MsgTypePong }

// Encode implements Message.
func (m *MsgPong) Encode(e *Encoder) { (*MsgStatus)(m).Encode(e) }
