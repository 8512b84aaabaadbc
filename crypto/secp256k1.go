// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"fmt"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/blake2b"
)

// addressFromPubKey derives an Address by truncating the BLAKE2b-256
// digest of the compressed public key to AddressSize bytes, the same
// content-hash function wire.ContentHash uses elsewhere, so address
// derivation never depends on a second hash family.
func addressFromPubKey(pub *secp256k1.PublicKey) wire.Address {
	digest := blake2b.Sum256(pub.SerializeCompressed())
	var addr wire.Address
	copy(addr[:], digest[:wire.AddressSize])
	return addr
}

// PrivateKeySigner is the node's Signer implementation: recoverable
// ECDSA over secp256k1, the curve the teacher's wallet/mining code signs
// with. SignCompact's 65-byte output (1 recovery byte + r + s) is
// exactly wire.SignatureSize, which is why Signature is sized the way
// it is.
type PrivateKeySigner struct {
	key  *secp256k1.PrivateKey
	addr wire.Address
}

// NewPrivateKeySigner wraps key, typically loaded from node_identity_file.
func NewPrivateKeySigner(key *secp256k1.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{key: key, addr: addressFromPubKey(key.PubKey())}
}

func (s *PrivateKeySigner) Sign(hash chainhash.Hash) (wire.Signature, error) {
	compact := ecdsa.SignCompact(s.key, hash[:], true)
	var sig wire.Signature
	if len(compact) != wire.SignatureSize {
		return sig, fmt.Errorf("crypto: unexpected compact signature length %d", len(compact))
	}
	copy(sig[:], compact)
	return sig, nil
}

func (s *PrivateKeySigner) Address() wire.Address {
	return s.addr
}

// RecoveryVerifier is the node's Verifier implementation, recovering the
// signing address from a recoverable compact signature with no separate
// public key needed.
type RecoveryVerifier struct{}

// NewRecoveryVerifier returns a stateless Verifier.
func NewRecoveryVerifier() RecoveryVerifier { return RecoveryVerifier{} }

func (RecoveryVerifier) RecoverAddress(hash chainhash.Hash, sig wire.Signature) (wire.Address, error) {
	pub, _, err := ecdsa.RecoverCompact(sig[:], hash[:])
	if err != nil {
		return wire.Address{}, fmt.Errorf("crypto: recover address: %w", err)
	}
	return addressFromPubKey(pub), nil
}
