// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/wire"
)

// extractBlockEvents derives the block-level event log from everything
// staged on ws this block. Order is not consensus-critical; it only
// drives logging and light-client notifications.
func extractBlockEvents(ws *state.WorldState, coinbase wire.Address, totalFees *uint256.Uint256, rewardPaid *uint256.Uint256) []wire.BlockEvent {
	var events []wire.BlockEvent

	if !rewardPaid.IsZero() {
		events = append(events, wire.BlockEvent{
			Type:    wire.EventBlockReward,
			Address: coinbase,
			Amount:  rewardPaid,
		})
	}
	if !totalFees.IsZero() {
		events = append(events, wire.BlockEvent{
			Type:    wire.EventFeesCollected,
			Address: coinbase,
			Amount:  totalFees,
		})
	}

	for _, d := range ws.TokenDiffs() {
		if !d.HadOld {
			events = append(events, wire.BlockEvent{
				Type:         wire.EventTokenCreated,
				TokenAddress: d.Address,
				Amount:       d.NewValue.CurrentSupply,
			})
			continue
		}
		if d.OldValue.CurrentSupply.Cmp(d.NewValue.CurrentSupply) != 0 {
			events = append(events, wire.BlockEvent{
				Type:         wire.EventTokenSupplyChanged,
				TokenAddress: d.Address,
				Amount:       d.NewValue.CurrentSupply,
			})
		}
	}

	for _, d := range ws.AuthorityDiffs() {
		if d.NewValue && !d.OldValue {
			events = append(events, wire.BlockEvent{Type: wire.EventAuthorityAdded, Address: d.Address})
		} else if !d.NewValue && d.OldValue {
			events = append(events, wire.BlockEvent{Type: wire.EventAuthorityRemoved, Address: d.Address})
		}
	}

	for _, d := range ws.AliasDiffs() {
		if !d.NewValue.IsZero() {
			events = append(events, wire.BlockEvent{Type: wire.EventAddressAliasRegistered, Alias: d.Alias, Address: d.NewValue})
		} else if d.HadOld {
			events = append(events, wire.BlockEvent{Type: wire.EventAddressAliasRemoved, Alias: d.Alias, Address: d.OldValue})
		}
	}

	for _, d := range ws.BipDiffs() {
		if d.NewValue.Status != d.OldValue.Status {
			events = append(events, wire.BlockEvent{
				Type:      wire.EventBipStateChange,
				BipHash:   d.Hash,
				BipStatus: d.NewValue.Status.String(),
			})
		}
	}

	if newParams, changed := ws.ParamsDiff(); changed {
		_ = newParams
		events = append(events, wire.BlockEvent{Type: wire.EventNetworkParamsChanged})
	}

	return events
}
