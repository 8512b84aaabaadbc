// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"math/big"

	"github.com/EXCCoin/exccd/math/uint256"
)

// rbfBumpSatisfied reports whether candidateFee strictly exceeds
// existingFee * RBFBumpRatioNum/RBFBumpRatioDenom, i.e. candidateFee *
// RBFBumpRatioDenom > existingFee * RBFBumpRatioNum evaluated as exact
// big.Int cross-multiplication so no rounding ever favors the spammer.
func rbfBumpSatisfied(existingFee, candidateFee *uint256.Uint256) bool {
	lhs := new(big.Int).Mul(candidateFee.Big(), big.NewInt(RBFBumpRatioDenom))
	rhs := new(big.Int).Mul(existingFee.Big(), big.NewInt(RBFBumpRatioNum))
	return lhs.Cmp(rhs) > 0
}
