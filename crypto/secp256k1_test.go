// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"testing"

	"github.com/EXCCoin/exccd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func mustKey(t *testing.T) *secp256k1.PrivateKey {
	t.Helper()
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func TestPrivateKeySignerRoundTrip(t *testing.T) {
	signer := NewPrivateKeySigner(mustKey(t))
	verifier := NewRecoveryVerifier()

	hash := wire.ContentHash([]byte("block header bytes"))
	sig, err := signer.Sign(hash)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	recovered, err := verifier.RecoverAddress(hash, sig)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if recovered != signer.Address() {
		t.Fatalf("recovered address %s, want %s", recovered, signer.Address())
	}
}

func TestRecoveryVerifierRejectsWrongHash(t *testing.T) {
	signer := NewPrivateKeySigner(mustKey(t))
	verifier := NewRecoveryVerifier()

	sig, err := signer.Sign(wire.ContentHash([]byte("original")))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	recovered, err := verifier.RecoverAddress(wire.ContentHash([]byte("tampered")), sig)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if recovered == signer.Address() {
		t.Fatalf("recovered address matched despite signing a different hash")
	}
}

func TestDistinctKeysYieldDistinctAddresses(t *testing.T) {
	a := NewPrivateKeySigner(mustKey(t))
	b := NewPrivateKeySigner(mustKey(t))
	if a.Address() == b.Address() {
		t.Fatalf("two independently generated keys produced the same address")
	}
}
