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

// RegNetParams returns the network parameters for the regression test
// network used by deterministic integration tests. It sets no
// InitialAuthorities, so the authority set starts empty.
func RegNetParams() *Params {
	const genesisTimestamp = 1296688602
	const genesisBits = 0x207fffff

	p := &Params{
		Name:        "regnet",
		Net:         0x52454731, // "REG1"
		DefaultPort: "18555",
		DNSSeeds:    nil,

		MaxTxSize:              393216,
		MaxTxCountPerBlockBase: 20000,
		MaxBlockSizeBytesBase:  393216,

		BlockReward:            uint256.NewFromUint64(50 * 1e8),
		BlockRewardPoolAddress: wire.ZeroAddress,
		TargetMiningTimeMs:     1000,
		AsertHalfLifeBlocks:    10,
		AsertAnchorHeight:      0,
		MinDifficulty:          uint256.NewFromUint64(genesisBits),
		MinTxBaseFee:           uint256.NewFromUint64(0),
		MinTxByteFee:           uint256.NewFromUint64(0),

		BipExpirationPeriodMs:   60 * 1000,
		BipApprovalThresholdBps: 5000,

		ClockSkewToleranceMs: 2 * 60 * 60 * 1000,
		ProtocolVersion:      1 << 16,
		DirectoryHost:        "",
	}

	p.GenesisBlock = newGenesisBlock(genesisTimestamp, genesisBits)
	p.GenesisHash = p.GenesisBlock.Header.Hash()
	p.GenesisMint = genesisMintRegNet()

	return p
}

// RegNet is the singleton used by regression-test callers, built once at
// package initialization.
var RegNet = RegNetParams()
