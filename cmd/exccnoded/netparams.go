// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/EXCCoin/exccd/chaincfg"
)

// netParamsByName resolves the --network option to the corresponding
// *chaincfg.Params, the account-model/ASERT-difficulty successor to the
// teacher's own mainNetParams/testNetParams/simNetParams selection
// table at the repository root: chaincfg itself now owns every
// network-specific constant (genesis block, ASERT anchor, governance
// defaults), so this file's only remaining job is the name-to-*Params
// lookup main.go needs before the store/chain/peer stack can be
// constructed.
func netParamsByName(name string) (*chaincfg.Params, error) {
	switch name {
	case "mainnet":
		return chaincfg.MainNetParams(), nil
	case "testnet":
		return chaincfg.TestNetParams(), nil
	case "simnet":
		return chaincfg.SimNetParams(), nil
	case "regnet":
		return chaincfg.RegNetParams(), nil
	default:
		return nil, fmt.Errorf("unknown network %q", name)
	}
}
