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

// MainNetParams returns the network parameters for the main ExchangeCoin
// network.
func MainNetParams() *Params {
	// Monday, 16-Jul-18 09:00:00 UTC, the teacher's original mainnet
	// genesis time, in Unix milliseconds like every header timestamp.
	const genesisTimestamp = 1531731600 * 1000
	const genesisBits = 0x1d00ffff

	p := &Params{
		Name:        "mainnet",
		Net:         0x455843, // "EXC"
		DefaultPort: "9666",
		DNSSeeds: []DNSSeed{
			{Host: "seed.excc.co", OnionSupported: true},
			{Host: "seed.xchange.me", OnionSupported: true},
			{Host: "excc-seed.pragmaticcoders.com", OnionSupported: true},
		},

		MaxTxSize:              393216,
		MaxTxCountPerBlockBase: 20000,
		MaxBlockSizeBytesBase:  393216,

		BlockReward:            uint256.NewFromUint64(38 * 1e8),
		BlockRewardPoolAddress: wire.ZeroAddress,
		TargetMiningTimeMs:     120000,
		AsertHalfLifeBlocks:    288,
		AsertAnchorHeight:      0,
		MinDifficulty:          uint256.NewFromUint64(genesisBits),
		MinTxBaseFee:           uint256.NewFromUint64(1000),
		MinTxByteFee:           uint256.NewFromUint64(1),

		BipExpirationPeriodMs:   14 * 24 * 60 * 60 * 1000, // two weeks
		BipApprovalThresholdBps: 6667,

		ClockSkewToleranceMs: 2 * 60 * 60 * 1000,
		ProtocolVersion:      1 << 16,
		DirectoryHost:        "https://directory.excc.co",
	}

	p.GenesisBlock = newGenesisBlock(genesisTimestamp, genesisBits)
	p.GenesisHash = p.GenesisBlock.Header.Hash()
	p.GenesisMint = genesisMintMainNet()

	return p
}

// MainNet is the singleton used by production callers, built once at
// package initialization and shared by reference, matching §9's guidance
// against package-level mutable configuration.
var MainNet = MainNetParams()
