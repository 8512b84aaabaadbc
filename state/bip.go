// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"bytes"
	"sort"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

// BipStatus is the lifecycle state of a blockchain improvement proposal.
type BipStatus uint8

// Supported BIP lifecycle states.
const (
	BipStatusPending BipStatus = iota + 1
	BipStatusApproved
	BipStatusRejected
	BipStatusExpired
)

func (s BipStatus) String() string {
	switch s {
	case BipStatusPending:
		return "PENDING"
	case BipStatusApproved:
		return "APPROVED"
	case BipStatusRejected:
		return "REJECTED"
	case BipStatusExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// BipState is the on-chain record of one submitted proposal, keyed by
// the hash of the BIP_CREATE transaction that proposed it. Approvers
// and Disapprovers are ordered sets (kept sorted ascending by address)
// rather than a map: encode() writes them in that fixed order, so the
// bytes that feed the state-root hash never depend on Go's randomized
// map iteration order, and every node that applies the same votes
// computes the same root.
type BipState struct {
	Hash         chainhash.Hash
	Proposer     wire.Address
	Payload      wire.Payload
	Status       BipStatus
	CreatedAt    int64
	ExpiresAt    int64
	Approvers    []wire.Address
	Disapprovers []wire.Address
	Approvals    uint32
}

func addressLess(a, b wire.Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// HasVoted reports whether addr already appears as an approver or
// disapprover.
func (b BipState) HasVoted(addr wire.Address) bool {
	return containsAddress(b.Approvers, addr) || containsAddress(b.Disapprovers, addr)
}

func containsAddress(set []wire.Address, addr wire.Address) bool {
	i := sort.Search(len(set), func(i int) bool { return !addressLess(set[i], addr) })
	return i < len(set) && set[i] == addr
}

func insertAddress(set []wire.Address, addr wire.Address) []wire.Address {
	i := sort.Search(len(set), func(i int) bool { return !addressLess(set[i], addr) })
	if i < len(set) && set[i] == addr {
		return set
	}
	set = append(set, wire.Address{})
	copy(set[i+1:], set[i:])
	set[i] = addr
	return set
}

// CastVote records addr's vote, inserting it into the approver or
// disapprover set in sorted order, and sets Approvals to the new number
// of approvers. Callers must reject a repeat vote via HasVoted before calling.
func (b *BipState) CastVote(addr wire.Address, approve bool) {
	if approve {
		b.Approvers = insertAddress(b.Approvers, addr)
	} else {
		b.Disapprovers = insertAddress(b.Disapprovers, addr)
	}
	b.Approvals = uint32(len(b.Approvers))
}

func (b BipState) encode() []byte {
	e := wire.NewEncoder()
	e.WriteVersion(1)
	e.WriteHash(b.Hash)
	e.WriteBytes(b.Proposer[:])
	wire.EncodePayload(e, b.Payload)
	e.WriteVarUint(uint64(b.Status))
	e.WriteVarUint(uint64(b.CreatedAt))
	e.WriteVarUint(uint64(b.ExpiresAt))
	e.WriteListLen(len(b.Approvers))
	for _, addr := range b.Approvers {
		e.WriteBytes(addr[:])
	}
	e.WriteListLen(len(b.Disapprovers))
	for _, addr := range b.Disapprovers {
		e.WriteBytes(addr[:])
	}
	e.WriteVarUint(uint64(b.Approvals))
	return e.Bytes()
}

func decodeBipState(raw []byte) (BipState, error) {
	d := wire.NewDecoder(raw)
	if v, err := d.ReadVersion(); err != nil {
		return BipState{}, err
	} else if v != 1 {
		return BipState{}, &wire.ErrUnsupportedVersion{TypeName: "state.BipState", Version: v}
	}
	var b BipState
	var err error

	if b.Hash, err = d.ReadHash(); err != nil {
		return BipState{}, err
	}

	addrBytes, err := d.ReadBytes()
	if err != nil {
		return BipState{}, err
	}
	copy(b.Proposer[:], addrBytes)

	if b.Payload, err = wire.DecodePayload(d); err != nil {
		return BipState{}, err
	}

	status, err := d.ReadVarUint()
	if err != nil {
		return BipState{}, err
	}
	b.Status = BipStatus(status)

	createdAt, err := d.ReadVarUint()
	if err != nil {
		return BipState{}, err
	}
	b.CreatedAt = int64(createdAt)

	expiresAt, err := d.ReadVarUint()
	if err != nil {
		return BipState{}, err
	}
	b.ExpiresAt = int64(expiresAt)

	approvers, err := d.ReadListLen()
	if err != nil {
		return BipState{}, err
	}
	b.Approvers = make([]wire.Address, approvers)
	for i := 0; i < approvers; i++ {
		ab, err := d.ReadBytes()
		if err != nil {
			return BipState{}, err
		}
		copy(b.Approvers[i][:], ab)
	}

	disapprovers, err := d.ReadListLen()
	if err != nil {
		return BipState{}, err
	}
	b.Disapprovers = make([]wire.Address, disapprovers)
	for i := 0; i < disapprovers; i++ {
		ab, err := d.ReadBytes()
		if err != nil {
			return BipState{}, err
		}
		copy(b.Disapprovers[i][:], ab)
	}

	approvals, err := d.ReadVarUint()
	if err != nil {
		return BipState{}, err
	}
	b.Approvals = uint32(approvals)

	return b, nil
}

func bipStorageKey(hash chainhash.Hash) []byte {
	key := make([]byte, 0, 1+chainhash.HashSize)
	key = append(key, 'p')
	return append(key, hash[:]...)
}

// GetBip returns the (possibly staged) BIP record for hash.
func (ws *WorldState) GetBip(hash chainhash.Hash) (BipState, bool, error) {
	if d, ok := ws.bips[hash]; ok {
		return d.NewValue, true, nil
	}
	raw, ok, err := ws.trieGet(bipStorageKey(hash))
	if err != nil || !ok {
		return BipState{}, false, err
	}
	b, err := decodeBipState(raw)
	return b, err == nil, err
}

// PutBip inserts or updates a BIP record.
func (ws *WorldState) PutBip(b BipState) error {
	cur, existed, err := ws.GetBip(b.Hash)
	if err != nil {
		return err
	}
	d, ok := ws.bips[b.Hash]
	if !ok {
		d = &Diff[BipState]{OldValue: cur, HadOld: existed}
	}
	d.NewValue = b
	ws.bips[b.Hash] = d
	return nil
}
