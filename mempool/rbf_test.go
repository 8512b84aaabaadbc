// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/EXCCoin/exccd/math/uint256"
)

func TestRBFBumpSatisfiedExactThreshold(t *testing.T) {
	existing := uint256.NewFromUint64(100)
	// Exactly 1.10x is not a strict improvement.
	if rbfBumpSatisfied(existing, uint256.NewFromUint64(110)) {
		t.Fatalf("exact 11/10 multiple should not satisfy a strict bump")
	}
	if !rbfBumpSatisfied(existing, uint256.NewFromUint64(111)) {
		t.Fatalf("111 over 100 should satisfy the bump")
	}
}

func TestRBFBumpSatisfiedBelowThreshold(t *testing.T) {
	existing := uint256.NewFromUint64(1000)
	if rbfBumpSatisfied(existing, uint256.NewFromUint64(1050)) {
		t.Fatalf("1050 over 1000 is only a 5% bump, should not satisfy")
	}
}

func TestRBFBumpSatisfiedZeroExistingFee(t *testing.T) {
	existing := uint256.Zero()
	if !rbfBumpSatisfied(existing, uint256.NewFromUint64(1)) {
		t.Fatalf("any positive fee should beat a zero existing fee")
	}
}
