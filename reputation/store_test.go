// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reputation

import (
	"math"
	"testing"

	"github.com/EXCCoin/exccd/wire"
)

type fakeStore struct {
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) GetPeerReputation(addr string) ([]byte, bool, error) {
	b, ok := f.data[addr]
	return b, ok, nil
}

func (f *fakeStore) PutPeerReputation(addr string, encoded []byte) error {
	f.data[addr] = encoded
	return nil
}

func testIdentity() wire.Address {
	var a wire.Address
	a[0] = 0x11
	return a
}

func TestStoreGetUnknownIdentityReturnsZeroRecord(t *testing.T) {
	s := NewStore(newFakeStore())
	rec, err := s.Get(testIdentity(), 100)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec != (Record{}) {
		t.Fatalf("expected zero record, got %+v", rec)
	}
}

func TestStoreRecordFailureIsPersisted(t *testing.T) {
	s := NewStore(newFakeStore())
	id := testIdentity()

	if err := s.RecordFailure(id, 10); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	rec, err := s.Get(id, 10)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.FailureCount != 1 || rec.LastFailureEpoch != 10 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestStoreRecordSuccessClearsFailures(t *testing.T) {
	s := NewStore(newFakeStore())
	id := testIdentity()

	if err := s.RecordFailure(id, 1); err != nil {
		t.Fatalf("RecordFailure: %v", err)
	}
	if err := s.RecordSuccess(id, 2); err != nil {
		t.Fatalf("RecordSuccess: %v", err)
	}
	rec, err := s.Get(id, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.FailureCount != 0 || rec.LastSuccessEpoch != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestStoreBanAndExpiration(t *testing.T) {
	s := NewStore(newFakeStore())
	id := testIdentity()

	if err := s.Ban(id, 0); err != nil {
		t.Fatalf("Ban: %v", err)
	}
	score, err := s.ReliabilityScore(id, 1)
	if err != nil {
		t.Fatalf("ReliabilityScore: %v", err)
	}
	if score != math.MinInt32 {
		t.Fatalf("banned peer should have MinInt32 score, got %d", score)
	}

	// Get after the ban duration should transparently lift it and persist
	// the expiration.
	rec, err := s.Get(id, BanDurationSeconds)
	if err != nil {
		t.Fatalf("Get after expiration: %v", err)
	}
	if rec.Banned() {
		t.Fatalf("ban should have expired")
	}
}

func TestStoreTracksIdentitiesIndependently(t *testing.T) {
	s := NewStore(newFakeStore())
	a, b := testIdentity(), testIdentity()
	b[0] = 0x22

	if err := s.RecordFailure(a, 1); err != nil {
		t.Fatalf("RecordFailure(a): %v", err)
	}
	recB, err := s.Get(b, 1)
	if err != nil {
		t.Fatalf("Get(b): %v", err)
	}
	if recB.FailureCount != 0 {
		t.Fatalf("identity b should be unaffected by identity a's failure, got %+v", recB)
	}
}
