// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// NetworkParamsState holds the subset of chaincfg.Params that is
// mutable on-chain via an approved NETWORK_PARAMS_SET BIP. Everything
// else (network magic, DNS seeds, genesis data) is immutable and lives
// only in chaincfg.Params.
type NetworkParamsState struct {
	BlockReward         *uint256.Uint256
	TargetMiningTimeMs  uint64
	AsertHalfLifeBlocks uint64
	MinDifficulty       *uint256.Uint256
	MinTxBaseFee        *uint256.Uint256
	MinTxByteFee        *uint256.Uint256
}

const paramsStorageKeyLiteral = "params"

func paramsStorageKey() []byte { return []byte(paramsStorageKeyLiteral) }

func (p NetworkParamsState) encode() []byte {
	e := wire.NewEncoder()
	e.WriteVersion(1)
	rb := p.BlockReward.Bytes()
	e.WriteBytes(rb[:])
	e.WriteVarUint(p.TargetMiningTimeMs)
	e.WriteVarUint(p.AsertHalfLifeBlocks)
	mb := p.MinDifficulty.Bytes()
	e.WriteBytes(mb[:])
	bf := p.MinTxBaseFee.Bytes()
	e.WriteBytes(bf[:])
	yf := p.MinTxByteFee.Bytes()
	e.WriteBytes(yf[:])
	return e.Bytes()
}

func decodeNetworkParamsState(b []byte) (NetworkParamsState, error) {
	d := wire.NewDecoder(b)
	if v, err := d.ReadVersion(); err != nil {
		return NetworkParamsState{}, err
	} else if v != 1 {
		return NetworkParamsState{}, &wire.ErrUnsupportedVersion{TypeName: "state.NetworkParamsState", Version: v}
	}
	var p NetworkParamsState
	var err error
	var raw []byte

	if raw, err = d.ReadBytes(); err != nil {
		return NetworkParamsState{}, err
	}
	p.BlockReward = uint256.FromBytes(raw)

	if p.TargetMiningTimeMs, err = d.ReadVarUint(); err != nil {
		return NetworkParamsState{}, err
	}
	if p.AsertHalfLifeBlocks, err = d.ReadVarUint(); err != nil {
		return NetworkParamsState{}, err
	}

	if raw, err = d.ReadBytes(); err != nil {
		return NetworkParamsState{}, err
	}
	p.MinDifficulty = uint256.FromBytes(raw)

	if raw, err = d.ReadBytes(); err != nil {
		return NetworkParamsState{}, err
	}
	p.MinTxBaseFee = uint256.FromBytes(raw)

	if raw, err = d.ReadBytes(); err != nil {
		return NetworkParamsState{}, err
	}
	p.MinTxByteFee = uint256.FromBytes(raw)

	return p, nil
}

// GetParams returns the current (possibly staged) network parameters.
// It falls back to fallback when no params row has ever been written,
// i.e. prior to the first accepted NETWORK_PARAMS_SET BIP.
func (ws *WorldState) GetParams(fallback NetworkParamsState) (NetworkParamsState, error) {
	if ws.params != nil {
		return ws.params.NewValue, nil
	}
	raw, ok, err := ws.trieGet(paramsStorageKey())
	if err != nil {
		return NetworkParamsState{}, err
	}
	if !ok {
		return fallback, nil
	}
	return decodeNetworkParamsState(raw)
}

// SetParams stages a new network parameters value.
func (ws *WorldState) SetParams(fallback, newParams NetworkParamsState) error {
	cur, err := ws.GetParams(fallback)
	if err != nil {
		return err
	}
	if ws.params == nil {
		ws.params = &Diff[NetworkParamsState]{OldValue: cur, HadOld: true}
	}
	ws.params.NewValue = newParams
	return nil
}
