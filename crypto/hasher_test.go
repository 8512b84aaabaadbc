// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import "testing"

func TestBlake2bHasherDeterministic(t *testing.T) {
	h := NewBlake2bHasher()
	header := []byte("mining bytes prefix")

	a, err := h.Hash(header, 7)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash(header, 7)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a != b {
		t.Fatalf("hasher not deterministic: %x != %x", a, b)
	}
}

func TestBlake2bHasherNonceSensitive(t *testing.T) {
	h := NewBlake2bHasher()
	header := []byte("mining bytes prefix")

	a, err := h.Hash(header, 1)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash(header, 2)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatalf("hasher produced identical digests for different nonces")
	}
}
