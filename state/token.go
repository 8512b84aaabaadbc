// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// TokenState is the record stored for a token created by a BIP_CREATE
// token-create payload once its BIP is approved.
type TokenState struct {
	Address          wire.Address
	Name             string
	SmallestUnitName string
	Decimals         uint8
	MaxSupply        *uint256.Uint256
	CurrentSupply    *uint256.Uint256
	UserBurnable     bool
	URLs             []string
	Creator          wire.Address
}

func (t TokenState) encode() []byte {
	e := wire.NewEncoder()
	e.WriteVersion(1)
	e.WriteBytes(t.Address[:])
	e.WriteBytes([]byte(t.Name))
	e.WriteBytes([]byte(t.SmallestUnitName))
	e.WriteVarUint(uint64(t.Decimals))
	e.WriteOptionalBytes(maxSupplyBytes(t.MaxSupply))
	e.WriteBytes(currentSupplyBytes(t.CurrentSupply))
	if t.UserBurnable {
		e.WriteVarUint(1)
	} else {
		e.WriteVarUint(0)
	}
	e.WriteListLen(len(t.URLs))
	for _, u := range t.URLs {
		e.WriteBytes([]byte(u))
	}
	e.WriteBytes(t.Creator[:])
	return e.Bytes()
}

func maxSupplyBytes(v *uint256.Uint256) []byte {
	if v == nil {
		return nil
	}
	b := v.Bytes()
	return b[:]
}

func currentSupplyBytes(v *uint256.Uint256) []byte { return maxSupplyBytes(v) }

func decodeTokenState(b []byte) (TokenState, error) {
	d := wire.NewDecoder(b)
	if v, err := d.ReadVersion(); err != nil {
		return TokenState{}, err
	} else if v != 1 {
		return TokenState{}, &wire.ErrUnsupportedVersion{TypeName: "state.TokenState", Version: v}
	}
	var t TokenState
	var err error
	var raw []byte

	if raw, err = d.ReadBytes(); err != nil {
		return TokenState{}, err
	}
	copy(t.Address[:], raw)

	if raw, err = d.ReadBytes(); err != nil {
		return TokenState{}, err
	}
	t.Name = string(raw)

	if raw, err = d.ReadBytes(); err != nil {
		return TokenState{}, err
	}
	t.SmallestUnitName = string(raw)

	dec, err := d.ReadVarUint()
	if err != nil {
		return TokenState{}, err
	}
	t.Decimals = uint8(dec)

	if raw, err = d.ReadOptionalBytes(); err != nil {
		return TokenState{}, err
	}
	if raw != nil {
		t.MaxSupply = uint256.FromBytes(raw)
	}

	if raw, err = d.ReadBytes(); err != nil {
		return TokenState{}, err
	}
	t.CurrentSupply = uint256.FromBytes(raw)

	burnable, err := d.ReadVarUint()
	if err != nil {
		return TokenState{}, err
	}
	t.UserBurnable = burnable != 0

	n, err := d.ReadListLen()
	if err != nil {
		return TokenState{}, err
	}
	t.URLs = make([]string, n)
	for i := range t.URLs {
		if raw, err = d.ReadBytes(); err != nil {
			return TokenState{}, err
		}
		t.URLs[i] = string(raw)
	}

	if raw, err = d.ReadBytes(); err != nil {
		return TokenState{}, err
	}
	copy(t.Creator[:], raw)

	return t, nil
}

func tokenStorageKey(token wire.Address) []byte {
	key := make([]byte, 0, 1+20)
	key = append(key, 'T')
	return append(key, token[:]...)
}

// GetToken returns the (possibly staged) token record for token.
func (ws *WorldState) GetToken(token wire.Address) (TokenState, bool, error) {
	if d, ok := ws.tokens[token]; ok {
		return d.NewValue, true, nil
	}
	raw, ok, err := ws.trieGet(tokenStorageKey(token))
	if err != nil || !ok {
		return TokenState{}, false, err
	}
	t, err := decodeTokenState(raw)
	return t, err == nil, err
}

// PutToken inserts or updates token's record.
func (ws *WorldState) PutToken(t TokenState) error {
	cur, existed, err := ws.GetToken(t.Address)
	if err != nil {
		return err
	}
	d, ok := ws.tokens[t.Address]
	if !ok {
		d = &Diff[TokenState]{OldValue: cur, HadOld: existed}
	}
	d.NewValue = t
	ws.tokens[t.Address] = d
	return nil
}
