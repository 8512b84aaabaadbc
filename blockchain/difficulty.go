// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
)

// meetsTarget reports whether digest, read as a big-endian 256-bit
// number, is at or below target — the standard lower-hash-is-harder
// proof-of-work check.
func meetsTarget(digest chainhash.Hash, target *uint256.Uint256) bool {
	digestInt := new(big.Int).SetBytes(digest[:])
	return digestInt.Cmp(target.Big()) <= 0
}

// calcASERTDifficulty computes the target for a block at height h following
// the absolutely scheduled exponentially rising/falling target (ASERT)
// rule: the new target is the anchor's target scaled by
// 2^((actualElapsed-idealElapsed)/halfLife), evaluated with fixed-point
// arithmetic so the result is identical on every node regardless of
// floating-point environment.
//
//	actualElapsed = parentTimestamp - anchorTimestamp
//	idealElapsed  = (h - anchorHeight) * targetMiningTimeMs
//	halfLife      = asertHalfLifeBlocks * targetMiningTimeMs
//
// The result is clamped to [minDifficulty, 2^256-1].
func calcASERTDifficulty(anchorTarget *uint256.Uint256, anchorTimestamp, anchorHeight int64,
	parentTimestamp int64, h uint64, targetMiningTimeMs, asertHalfLifeBlocks uint64,
	minDifficulty *uint256.Uint256) *uint256.Uint256 {

	actualElapsed := parentTimestamp - anchorTimestamp
	idealElapsed := (int64(h) - anchorHeight) * int64(targetMiningTimeMs)
	halfLife := int64(asertHalfLifeBlocks * targetMiningTimeMs)
	if halfLife <= 0 {
		halfLife = 1
	}

	exponent := actualElapsed - idealElapsed

	// Split the exponent into an integer number of half-lives and a
	// fractional remainder in [0, halfLife), so 2^exponent/halfLife can be
	// evaluated as (1 << shifts) * 2^(frac/halfLife) with frac/halfLife
	// computed to 16 bits of fixed-point precision via a linear
	// approximation of 2^x on [0,1), avoiding floating point.
	shifts := exponent / halfLife
	frac := exponent % halfLife
	if frac < 0 {
		frac += halfLife
		shifts--
	}

	// fixedPointFactor approximates 2^(frac/halfLife) scaled by 1<<16.
	fixedPointFactor := asertFixedPointPow2(frac, halfLife)

	target := anchorTarget.Big()
	target = new(big.Int).Mul(target, big.NewInt(int64(fixedPointFactor)))
	target = target.Rsh(target, 16)

	if shifts > 0 {
		if shifts > 256 {
			shifts = 256
		}
		target = new(big.Int).Lsh(target, uint(shifts))
	} else if shifts < 0 {
		neg := -shifts
		if neg > 256 {
			neg = 256
		}
		target = new(big.Int).Rsh(target, uint(neg))
	}

	return clampTarget(target, minDifficulty)
}

// asertFixedPointPow2 approximates 2^(numerator/denominator) * 2^16 for
// numerator in [0, denominator) as 2^16 + floor(numerator*2^16/denominator),
// a linear interpolation between 2^0 and 2^1 — adequate precision for consensus
// difficulty retargeting, which self-corrects every block.
func asertFixedPointPow2(numerator, denominator int64) int64 {
	if denominator == 0 {
		return 1 << 16
	}
	// 2^(n/d) for n/d in [0,1) interpolated linearly between 2^0=1 and
	// 2^1=2, both scaled by 1<<16.
	const one = int64(1) << 16
	frac := (numerator * one) / denominator
	return one + frac
}

// blockWork converts a raw target into a chain-work contribution: the
// amount of cumulative difficulty a block with this target adds to its
// chain, analogous to Bitcoin's chainwork accumulation but expressed
// directly over the raw 256-bit target used here instead of compact
// bits.
func blockWork(target *uint256.Uint256) *big.Int {
	maxTarget := new(big.Int).Lsh(big.NewInt(1), 256)
	denom := new(big.Int).Add(target.Big(), big.NewInt(1))
	return new(big.Int).Div(maxTarget, denom)
}

func clampTarget(target *big.Int, minDifficulty *uint256.Uint256) *uint256.Uint256 {
	maxTarget := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	min := minDifficulty.Big()

	if target.Cmp(min) < 0 {
		target = min
	}
	if target.Cmp(maxTarget) > 0 {
		target = maxTarget
	}

	out, err := uint256.NewFromBig(target)
	if err != nil {
		// target was clamped into [min, maxTarget] above, both of which
		// fit in 256 bits, so this can never happen.
		panic(err)
	}
	return out
}
