// Copyright (c) 2018 The ExchangeCoin team
// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// TestNetParams returns the network parameters for the test network.
func TestNetParams() *Params {
	const genesisTimestamp = 1548633600
	const genesisBits = 0x1e00ffff

	p := &Params{
		Name:        "testnet",
		Net:         0x54455354, // "TEST"
		DefaultPort: "19666",
		DNSSeeds: []DNSSeed{
			{Host: "testnet-seed.excc.co"},
		},

		MaxTxSize:              393216,
		MaxTxCountPerBlockBase: 20000,
		MaxBlockSizeBytesBase:  393216,

		BlockReward:            uint256.NewFromUint64(38 * 1e8),
		BlockRewardPoolAddress: wire.ZeroAddress,
		TargetMiningTimeMs:     60000,
		AsertHalfLifeBlocks:    144,
		AsertAnchorHeight:      0,
		MinDifficulty:          uint256.NewFromUint64(genesisBits),
		MinTxBaseFee:           uint256.NewFromUint64(0),
		MinTxByteFee:           uint256.NewFromUint64(0),

		BipExpirationPeriodMs:   24 * 60 * 60 * 1000,
		BipApprovalThresholdBps: 6667,

		ClockSkewToleranceMs: 2 * 60 * 60 * 1000,
		ProtocolVersion:      1 << 16,
		DirectoryHost:        "https://testnet-directory.excc.co",
	}

	p.GenesisBlock = newGenesisBlock(genesisTimestamp, genesisBits)
	p.GenesisHash = p.GenesisBlock.Header.Hash()
	p.GenesisMint = genesisMintTestNet()

	return p
}

// TestNet is the singleton used by test-network callers, built once at
// package initialization.
var TestNet = TestNetParams()
