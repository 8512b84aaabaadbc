// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package directory

import (
	"math/big"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

// PingPayload is the canonical-codec-encoded body of a directory ping: a
// snapshot of this node's reachability and chain state at the moment the
// ping was sent.
type PingPayload struct {
	ListenHost      string
	ListenPort      uint16
	ProtocolVersion uint32
	SoftwareVersion string
	Timestamp       int64
	NetworkID       uint32
	SelfIdentity    wire.Address
	TotalDifficulty *big.Int
	HeadHash        chainhash.Hash
	HeadHeight      uint64
}

// Encode writes p in the canonical codec, field order matching the
// struct declaration.
func (p *PingPayload) Encode(e *wire.Encoder) {
	e.WriteBytes([]byte(p.ListenHost))
	e.WriteVarUint(uint64(p.ListenPort))
	e.WriteVarUint(uint64(p.ProtocolVersion))
	e.WriteBytes([]byte(p.SoftwareVersion))
	e.WriteVarUint(uint64(p.Timestamp))
	e.WriteVarUint(uint64(p.NetworkID))
	e.WriteBytes(p.SelfIdentity[:])
	e.WriteBytes(p.TotalDifficulty.Bytes())
	e.WriteHash(p.HeadHash)
	e.WriteVarUint(p.HeadHeight)
}

// decodePingPayload reverses Encode.
func decodePingPayload(d *wire.Decoder) (*PingPayload, error) {
	p := &PingPayload{}
	host, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	p.ListenHost = string(host)
	port, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	p.ListenPort = uint16(port)
	pv, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	p.ProtocolVersion = uint32(pv)
	sv, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	p.SoftwareVersion = string(sv)
	ts, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	p.Timestamp = int64(ts)
	nid, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	p.NetworkID = uint32(nid)
	identityBytes, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	identity, err := wire.AddressFromBytes(identityBytes)
	if err != nil {
		return nil, err
	}
	p.SelfIdentity = identity
	diff, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	p.TotalDifficulty = new(big.Int).SetBytes(diff)
	if p.HeadHash, err = d.ReadHash(); err != nil {
		return nil, err
	}
	if p.HeadHeight, err = d.ReadVarUint(); err != nil {
		return nil, err
	}
	return p, nil
}

// PeerAdvert is one peer entry as returned by the directory in a ping
// response.
type PeerAdvert struct {
	Identity  wire.Address
	Host      string
	Port      uint16
	UpdatedAt int64
}

// ResponsePayload is the canonical-codec-encoded body of a directory
// ping response: the current peer set the directory knows about.
type ResponsePayload struct {
	Peers []PeerAdvert
}

// Encode writes r in the canonical codec.
func (r *ResponsePayload) Encode(e *wire.Encoder) {
	e.WriteListLen(len(r.Peers))
	for _, p := range r.Peers {
		e.WriteBytes(p.Identity[:])
		e.WriteBytes([]byte(p.Host))
		e.WriteVarUint(uint64(p.Port))
		e.WriteVarUint(uint64(p.UpdatedAt))
	}
}

func decodeResponsePayload(d *wire.Decoder) (*ResponsePayload, error) {
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	r := &ResponsePayload{Peers: make([]PeerAdvert, 0, n)}
	for i := 0; i < n; i++ {
		identityBytes, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		identity, err := wire.AddressFromBytes(identityBytes)
		if err != nil {
			return nil, err
		}
		host, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		port, err := d.ReadVarUint()
		if err != nil {
			return nil, err
		}
		updatedAt, err := d.ReadVarUint()
		if err != nil {
			return nil, err
		}
		r.Peers = append(r.Peers, PeerAdvert{
			Identity:  identity,
			Host:      string(host),
			Port:      uint16(port),
			UpdatedAt: int64(updatedAt),
		})
	}
	return r, nil
}
