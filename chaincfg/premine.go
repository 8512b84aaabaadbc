// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// genesisMintMainNet is the genesis mint ledger for the main network.
func genesisMintMainNet() []GenesisMintEntry {
	return []GenesisMintEntry{}
}

// genesisMintTestNet is the genesis mint ledger for the test network; a
// single funded faucet address makes manual testnet testing possible.
func genesisMintTestNet() []GenesisMintEntry {
	return []GenesisMintEntry{
		{Address: testFaucetAddress, Amount: uint256.NewFromUint64(1_000_000 * 1e8)},
	}
}

// genesisMintSimNet is the genesis mint ledger for the simulation
// network; every well-known sim address used by the repo's integration
// tests is pre-funded.
func genesisMintSimNet() []GenesisMintEntry {
	return []GenesisMintEntry{
		{Address: simAddressA, Amount: uint256.NewFromUint64(1000 * 1e8)},
		{Address: simAddressB, Amount: uint256.NewFromUint64(1000 * 1e8)},
	}
}

// genesisMintRegNet mirrors genesisMintSimNet for the regression-test
// network.
func genesisMintRegNet() []GenesisMintEntry {
	return genesisMintSimNet()
}

var (
	testFaucetAddress = wire.Address{0x01}
	simAddressA        = wire.Address{0xaa}
	simAddressB         = wire.Address{0xbb}
)
