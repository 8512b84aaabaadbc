// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package uint256 implements a fixed-width, non-negative 256-bit integer
// used for balances, supplies, and other consensus-bearing amounts.  It is
// a thin, allocation-conscious wrapper around math/big.Int that forbids
// negative values and enforces a 32-byte wire representation.
package uint256

import (
	"fmt"
	"math/big"
)

// byteLen is the fixed encoded width of a Uint256 value.
const byteLen = 32

var (
	// maxUint256 is 2^256 - 1, the largest representable value.
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// Uint256 is a non-negative integer bounded to 256 bits.  The zero value is
// a valid representation of zero.
type Uint256 struct {
	v big.Int
}

// Zero returns a new Uint256 set to zero.
func Zero() *Uint256 {
	return new(Uint256)
}

// NewFromUint64 returns a new Uint256 initialized from a uint64.
func NewFromUint64(n uint64) *Uint256 {
	u := new(Uint256)
	u.v.SetUint64(n)
	return u
}

// NewFromBig returns a new Uint256 from a big.Int, which must be
// non-negative and fit in 256 bits.
func NewFromBig(n *big.Int) (*Uint256, error) {
	if n.Sign() < 0 {
		return nil, fmt.Errorf("uint256: negative value %s", n)
	}
	if n.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("uint256: value %s overflows 256 bits", n)
	}
	u := new(Uint256)
	u.v.Set(n)
	return u, nil
}

// Big returns a copy of the value as a big.Int.
func (u *Uint256) Big() *big.Int {
	if u == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(&u.v)
}

// Uint64 returns the low 64 bits of the value.  Callers that need the full
// range should use Big instead.
func (u *Uint256) Uint64() uint64 {
	if u == nil {
		return 0
	}
	return u.v.Uint64()
}

// IsZero reports whether the value is zero.
func (u *Uint256) IsZero() bool {
	return u == nil || u.v.Sign() == 0
}

// Cmp compares u to o, returning -1, 0, or 1.
func (u *Uint256) Cmp(o *Uint256) int {
	return u.Big().Cmp(o.Big())
}

// Add returns a new Uint256 holding u+o.  It panics on overflow past 256
// bits since that can never happen for consensus-bearing balances derived
// from valid blocks.
func (u *Uint256) Add(o *Uint256) *Uint256 {
	sum := new(big.Int).Add(u.Big(), o.Big())
	out, err := NewFromBig(sum)
	if err != nil {
		panic(err)
	}
	return out
}

// Sub returns a new Uint256 holding u-o.  It returns an error if the result
// would be negative.
func (u *Uint256) Sub(o *Uint256) (*Uint256, error) {
	diff := new(big.Int).Sub(u.Big(), o.Big())
	return NewFromBig(diff)
}

// Mul returns a new Uint256 holding u*o.
func (u *Uint256) Mul(o *Uint256) *Uint256 {
	prod := new(big.Int).Mul(u.Big(), o.Big())
	out, err := NewFromBig(prod)
	if err != nil {
		panic(err)
	}
	return out
}

// Min returns the smaller of u and o.
func (u *Uint256) Min(o *Uint256) *Uint256 {
	if u.Cmp(o) <= 0 {
		return u
	}
	return o
}

// String returns the base-10 string representation.
func (u *Uint256) String() string {
	return u.Big().String()
}

// Bytes returns the canonical 32-byte big-endian encoding.
func (u *Uint256) Bytes() [byteLen]byte {
	var out [byteLen]byte
	b := u.Big().Bytes()
	copy(out[byteLen-len(b):], b)
	return out
}

// SetBytes decodes a 32-byte big-endian encoding into u.
func (u *Uint256) SetBytes(b []byte) {
	u.v.SetBytes(b)
}

// FromBytes decodes a (possibly short, minimally-encoded) big-endian byte
// slice into a new Uint256.
func FromBytes(b []byte) *Uint256 {
	u := new(Uint256)
	u.v.SetBytes(b)
	return u
}
