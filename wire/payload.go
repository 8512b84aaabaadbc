// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/EXCCoin/exccd/math/uint256"
)

// PayloadType tags the polymorphic contents of a BIP_CREATE transaction's
// payload, or the vote direction of a BIP_VOTE transaction's payload.  Each
// variant is a distinct struct with its own codec, registered below in a
// dispatch table keyed by this code — no subtype hierarchy is used.
type PayloadType uint8

// Supported payload variants.
const (
	PayloadTokenCreate PayloadType = iota + 1
	PayloadAuthorityAdd
	PayloadAuthorityRemove
	PayloadValidatorAdd
	PayloadValidatorRemove
	PayloadAliasRegister
	PayloadNetworkParamsSet
	PayloadVote
)

// Payload is a tagged sum type carried by a BIP_CREATE or BIP_VOTE
// transaction.
type Payload interface {
	Type() PayloadType
	encode(e *Encoder)
}

// EncodePayload writes p (which may be nil) using the canonical
// optional-then-tagged encoding shared by every payload-carrying type.
func EncodePayload(e *Encoder, p Payload) { encodePayload(e, p) }

// DecodePayload reads a payload written by EncodePayload.
func DecodePayload(d *Decoder) (Payload, error) { return decodePayload(d) }

func encodePayload(e *Encoder, p Payload) {
	if p == nil {
		e.buf.WriteByte(emptyMarker)
		return
	}
	e.buf.WriteByte(presentMarker)
	e.buf.WriteByte(byte(p.Type()))
	p.encode(e)
}

func decodePayload(d *Decoder) (Payload, error) {
	present, err := d.readMarker()
	if err != nil || !present {
		return nil, err
	}
	tb, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch PayloadType(tb) {
	case PayloadTokenCreate:
		return decodeTokenCreatePayload(d)
	case PayloadAuthorityAdd:
		return decodeAuthorityAddPayload(d)
	case PayloadAuthorityRemove:
		return decodeAuthorityRemovePayload(d)
	case PayloadValidatorAdd:
		return decodeValidatorAddPayload(d)
	case PayloadValidatorRemove:
		return decodeValidatorRemovePayload(d)
	case PayloadAliasRegister:
		return decodeAliasRegisterPayload(d)
	case PayloadNetworkParamsSet:
		return decodeNetworkParamsSetPayload(d)
	case PayloadVote:
		return decodeVotePayload(d)
	default:
		return nil, fmt.Errorf("wire: unknown payload type %d", tb)
	}
}

// TokenCreatePayload requests creation of a new token, subject to BIP
// approval by the current authority set.
type TokenCreatePayload struct {
	Name             string
	SmallestUnitName string
	Decimals         uint8
	MaxSupply        *uint256.Uint256 // nil means unbounded
	UserBurnable     bool
	URLs             []string
}

func (p *TokenCreatePayload) Type() PayloadType { return PayloadTokenCreate }

func (p *TokenCreatePayload) encode(e *Encoder) {
	e.WriteBytes([]byte(p.Name))
	e.WriteBytes([]byte(p.SmallestUnitName))
	e.buf.WriteByte(p.Decimals)
	if p.MaxSupply == nil {
		e.buf.WriteByte(emptyMarker)
	} else {
		e.buf.WriteByte(presentMarker)
		b := p.MaxSupply.Bytes()
		e.WriteBytes(b[:])
	}
	if p.UserBurnable {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
	e.WriteListLen(len(p.URLs))
	for _, u := range p.URLs {
		e.WriteBytes([]byte(u))
	}
}

func decodeTokenCreatePayload(d *Decoder) (*TokenCreatePayload, error) {
	p := &TokenCreatePayload{}
	name, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	p.Name = string(name)
	unit, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	p.SmallestUnitName = string(unit)
	dec, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	p.Decimals = dec
	hasMax, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if hasMax == presentMarker {
		b, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		p.MaxSupply = uint256.FromBytes(b)
	}
	burnable, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	p.UserBurnable = burnable == 1
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	p.URLs = make([]string, n)
	for i := 0; i < n; i++ {
		u, err := d.ReadBytes()
		if err != nil {
			return nil, err
		}
		p.URLs[i] = string(u)
	}
	return p, nil
}

// AuthorityAddPayload requests adding an address to the authority set.
type AuthorityAddPayload struct {
	Address Address
}

func (p *AuthorityAddPayload) Type() PayloadType { return PayloadAuthorityAdd }
func (p *AuthorityAddPayload) encode(e *Encoder)  { e.buf.Write(p.Address[:]) }
func decodeAuthorityAddPayload(d *Decoder) (*AuthorityAddPayload, error) {
	var a Address
	if err := readAddress(d, &a); err != nil {
		return nil, err
	}
	return &AuthorityAddPayload{Address: a}, nil
}

// AuthorityRemovePayload requests removing an address from the authority
// set.
type AuthorityRemovePayload struct {
	Address Address
}

func (p *AuthorityRemovePayload) Type() PayloadType { return PayloadAuthorityRemove }
func (p *AuthorityRemovePayload) encode(e *Encoder)  { e.buf.Write(p.Address[:]) }
func decodeAuthorityRemovePayload(d *Decoder) (*AuthorityRemovePayload, error) {
	var a Address
	if err := readAddress(d, &a); err != nil {
		return nil, err
	}
	return &AuthorityRemovePayload{Address: a}, nil
}

// ValidatorAddPayload requests adding an address to the validator set.
type ValidatorAddPayload struct {
	Address Address
}

func (p *ValidatorAddPayload) Type() PayloadType { return PayloadValidatorAdd }
func (p *ValidatorAddPayload) encode(e *Encoder)  { e.buf.Write(p.Address[:]) }
func decodeValidatorAddPayload(d *Decoder) (*ValidatorAddPayload, error) {
	var a Address
	if err := readAddress(d, &a); err != nil {
		return nil, err
	}
	return &ValidatorAddPayload{Address: a}, nil
}

// ValidatorRemovePayload requests removing an address from the validator
// set.
type ValidatorRemovePayload struct {
	Address Address
}

func (p *ValidatorRemovePayload) Type() PayloadType { return PayloadValidatorRemove }
func (p *ValidatorRemovePayload) encode(e *Encoder)  { e.buf.Write(p.Address[:]) }
func decodeValidatorRemovePayload(d *Decoder) (*ValidatorRemovePayload, error) {
	var a Address
	if err := readAddress(d, &a); err != nil {
		return nil, err
	}
	return &ValidatorRemovePayload{Address: a}, nil
}

// AliasRegisterPayload requests binding a human-readable alias to an
// address.
type AliasRegisterPayload struct {
	Alias   string
	Address Address
}

func (p *AliasRegisterPayload) Type() PayloadType { return PayloadAliasRegister }
func (p *AliasRegisterPayload) encode(e *Encoder) {
	e.WriteBytes([]byte(p.Alias))
	e.buf.Write(p.Address[:])
}
func decodeAliasRegisterPayload(d *Decoder) (*AliasRegisterPayload, error) {
	alias, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	var a Address
	if err := readAddress(d, &a); err != nil {
		return nil, err
	}
	return &AliasRegisterPayload{Alias: string(alias), Address: a}, nil
}

// NetworkParamsSetPayload requests mutating the single NetworkParamsState
// cell.  The chain engine applies every field as given: there is no
// per-field flag, so a zero-valued field sets that parameter to zero.
// This matches the "changes only via accepted BIP_NETWORK_PARAMS_SET"
// invariant of the spec.
type NetworkParamsSetPayload struct {
	BlockReward          *uint256.Uint256
	TargetMiningTimeMs   uint64
	AsertHalfLifeBlocks  uint64
	MinDifficulty        uint64
	MinTxBaseFee         *uint256.Uint256
	MinTxByteFee         *uint256.Uint256
}

func (p *NetworkParamsSetPayload) Type() PayloadType { return PayloadNetworkParamsSet }
func (p *NetworkParamsSetPayload) encode(e *Encoder) {
	rb := p.BlockReward.Bytes()
	e.WriteBytes(rb[:])
	e.WriteVarUint(p.TargetMiningTimeMs)
	e.WriteVarUint(p.AsertHalfLifeBlocks)
	e.WriteVarUint(p.MinDifficulty)
	bf := p.MinTxBaseFee.Bytes()
	e.WriteBytes(bf[:])
	yf := p.MinTxByteFee.Bytes()
	e.WriteBytes(yf[:])
}
func decodeNetworkParamsSetPayload(d *Decoder) (*NetworkParamsSetPayload, error) {
	p := &NetworkParamsSetPayload{}
	b, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	p.BlockReward = uint256.FromBytes(b)
	if p.TargetMiningTimeMs, err = d.ReadVarUint(); err != nil {
		return nil, err
	}
	if p.AsertHalfLifeBlocks, err = d.ReadVarUint(); err != nil {
		return nil, err
	}
	if p.MinDifficulty, err = d.ReadVarUint(); err != nil {
		return nil, err
	}
	b, err = d.ReadBytes()
	if err != nil {
		return nil, err
	}
	p.MinTxBaseFee = uint256.FromBytes(b)
	b, err = d.ReadBytes()
	if err != nil {
		return nil, err
	}
	p.MinTxByteFee = uint256.FromBytes(b)
	return p, nil
}

// VotePayload is the payload of a BIP_VOTE transaction.
type VotePayload struct {
	Approve bool
}

func (p *VotePayload) Type() PayloadType { return PayloadVote }
func (p *VotePayload) encode(e *Encoder) {
	if p.Approve {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
}
func decodeVotePayload(d *Decoder) (*VotePayload, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	return &VotePayload{Approve: b == 1}, nil
}

func readAddress(d *Decoder, a *Address) error {
	buf := make([]byte, AddressSize)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return err
	}
	copy(a[:], buf)
	return nil
}
