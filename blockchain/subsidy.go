// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/EXCCoin/exccd/chaincfg"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/wire"
)

// calculateCoinbaseReward computes the amount actually paid to the
// coinbase address for a block: the lesser of the block reward in ws's
// network parameters and what remains in the reward pool, plus every fee
// collected from the block's transactions. If the pool cannot cover the
// full block reward, the shortfall is simply unpaid — this is not a
// failure.
func calculateCoinbaseReward(ws *state.WorldState, params *chaincfg.Params, totalFees *uint256.Uint256) (*uint256.Uint256, error) {
	poolBalance, err := ws.GetBalance(params.BlockRewardPoolAddress, wire.NativeTokenAddress)
	if err != nil {
		return nil, err
	}
	netParams, err := ws.GetParams(fallbackNetworkParams(params))
	if err != nil {
		return nil, err
	}
	fromPool := netParams.BlockReward.Min(poolBalance.Value())
	return fromPool.Add(totalFees), nil
}
