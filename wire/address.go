// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/hex"
	"fmt"
)

// AddressSize is the number of bytes in an Address.
const AddressSize = 20

// Address is a 20-byte identifier derived deterministically from a public
// key.  It is used as the key for every account-indexed state entity
// (balances, nonces, aliases, authority/validator membership).
type Address [AddressSize]byte

// ZeroAddress is the reserved null address used as a mint/burn sink.
var ZeroAddress = Address{}

// NativeTokenAddress is the reserved sentinel token address that denotes
// the chain's native asset rather than an issued token.
var NativeTokenAddress = Address{0xff}

// String returns the hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the reserved null address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// AddressFromBytes builds an Address from a byte slice of exactly
// AddressSize bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressSize {
		return a, fmt.Errorf("wire: invalid address length %d, want %d", len(b), AddressSize)
	}
	copy(a[:], b)
	return a, nil
}

// SignatureSize is the number of bytes in a recoverable Signature.
const SignatureSize = 65

// Signature is a fixed-length recoverable signature: combined with the
// signed hash it yields the signer's Address.  The concrete scheme
// (secp256k1 recoverable ECDSA, Schnorr, etc.) is abstracted behind the
// crypto.Verifier interface; this type only carries the encoded bytes.
type Signature [SignatureSize]byte

// IsZero reports whether the signature is unset.
func (s Signature) IsZero() bool {
	return s == Signature{}
}
