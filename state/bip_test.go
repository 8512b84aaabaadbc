// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

func addr(b byte) wire.Address {
	var a wire.Address
	a[0] = b
	return a
}

// castVoteInOrder feeds addrs through CastVote in the given order and
// returns the resulting BipState.
func castVoteInOrder(approve bool, addrs ...wire.Address) BipState {
	var b BipState
	for _, a := range addrs {
		b.CastVote(a, approve)
	}
	return b
}

// TestCastVoteOrdersApprovers verifies Approvers stays sorted by address
// regardless of the order votes arrive in, so encode() never depends on
// cast order (and, transitively, never on map iteration order).
func TestCastVoteOrdersApprovers(t *testing.T) {
	forward := castVoteInOrder(true, addr(1), addr(2), addr(3))
	reverse := castVoteInOrder(true, addr(3), addr(2), addr(1))

	if len(forward.Approvers) != 3 || len(reverse.Approvers) != 3 {
		t.Fatalf("expected 3 approvers each, got %d and %d\n%s\n%s",
			len(forward.Approvers), len(reverse.Approvers),
			spew.Sdump(forward), spew.Sdump(reverse))
	}
	for i := range forward.Approvers {
		if forward.Approvers[i] != reverse.Approvers[i] {
			t.Fatalf("approver order diverged at index %d:\n%s\n%s", i,
				spew.Sdump(forward.Approvers), spew.Sdump(reverse.Approvers))
		}
	}
	if forward.Approvals != 3 {
		t.Fatalf("expected Approvals=3, got %d", forward.Approvals)
	}
}

// TestEncodeDeterministicAcrossVoteOrder verifies two BipStates that
// received the same votes in different orders serialize to identical
// bytes, which is what keeps the state-root hash agreeing across nodes.
func TestEncodeDeterministicAcrossVoteOrder(t *testing.T) {
	forward := castVoteInOrder(true, addr(10), addr(20), addr(30))
	reverse := castVoteInOrder(true, addr(30), addr(10), addr(20))
	forward.Hash = chainhash.Hash{1}
	reverse.Hash = chainhash.Hash{1}

	a, b := forward.encode(), reverse.encode()
	if string(a) != string(b) {
		t.Fatalf("encode() diverged across vote order:\na=%s\nb=%s", spew.Sdump(a), spew.Sdump(b))
	}
}

// TestHasVoted verifies both approvers and disapprovers count as having
// voted, and that an address that never voted does not.
func TestHasVoted(t *testing.T) {
	var b BipState
	b.CastVote(addr(1), true)
	b.CastVote(addr(2), false)

	if !b.HasVoted(addr(1)) {
		t.Fatal("expected addr(1) (approver) to have voted")
	}
	if !b.HasVoted(addr(2)) {
		t.Fatal("expected addr(2) (disapprover) to have voted")
	}
	if b.HasVoted(addr(3)) {
		t.Fatal("expected addr(3) to not have voted")
	}
}

// TestBipStateEncodeDecodeRoundTrip verifies encode/decodeBipState
// preserves every field, including the ordered approver/disapprover sets.
func TestBipStateEncodeDecodeRoundTrip(t *testing.T) {
	want := BipState{
		Hash:      chainhash.Hash{7},
		Proposer:  addr(1),
		Payload:   &wire.AuthorityAddPayload{Address: addr(2)},
		Status:    BipStatusPending,
		CreatedAt: 1000,
		ExpiresAt: 2000,
	}
	want.CastVote(addr(1), true)
	want.CastVote(addr(5), true)
	want.CastVote(addr(3), false)

	got, err := decodeBipState(want.encode())
	if err != nil {
		t.Fatalf("decodeBipState: %v", err)
	}

	if got.Hash != want.Hash || got.Proposer != want.Proposer || got.Status != want.Status ||
		got.CreatedAt != want.CreatedAt || got.ExpiresAt != want.ExpiresAt || got.Approvals != want.Approvals {
		t.Fatalf("round trip mismatch:\nwant=%s\ngot=%s", spew.Sdump(want), spew.Sdump(got))
	}
	if len(got.Approvers) != len(want.Approvers) || len(got.Disapprovers) != len(want.Disapprovers) {
		t.Fatalf("round trip set length mismatch:\nwant=%s\ngot=%s", spew.Sdump(want), spew.Sdump(got))
	}
	for i := range want.Approvers {
		if got.Approvers[i] != want.Approvers[i] {
			t.Fatalf("approver[%d] mismatch:\nwant=%s\ngot=%s", i, spew.Sdump(want.Approvers), spew.Sdump(got.Approvers))
		}
	}
}
