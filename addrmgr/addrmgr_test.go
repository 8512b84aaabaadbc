// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"testing"
	"time"

	"github.com/EXCCoin/exccd/wire"
)

func addr(b byte) wire.Address {
	var a wire.Address
	a[0] = b
	return a
}

func TestAddOrUpdateThenGetAddress(t *testing.T) {
	m := New()
	m.AddOrUpdate(addr(1), "10.0.0.1", 9000)

	ka, ok := m.GetAddress(nil)
	if !ok {
		t.Fatalf("expected a dialable candidate")
	}
	if ka.Identity != addr(1) || ka.Host != "10.0.0.1" || ka.Port != 9000 {
		t.Fatalf("unexpected candidate: %+v", ka)
	}
}

func TestAddOrUpdatePreservesAttemptHistory(t *testing.T) {
	m := New()
	m.AddOrUpdate(addr(1), "10.0.0.1", 9000)
	// Attempt far enough in the past that the retry interval has elapsed.
	m.MarkAttempt(addr(1), time.Now().Add(-2*MinRetryInterval))
	m.AddOrUpdate(addr(1), "10.0.0.2", 9001)

	ka, ok := m.GetAddress(nil)
	if !ok {
		t.Fatalf("expected a candidate")
	}
	if ka.Host != "10.0.0.2" || ka.Port != 9001 {
		t.Fatalf("host/port not refreshed: %+v", ka)
	}
	if ka.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1 preserved across AddOrUpdate", ka.Attempts)
	}
}

func TestGetAddressExcludesSpecifiedIdentities(t *testing.T) {
	m := New()
	m.AddOrUpdate(addr(1), "10.0.0.1", 9000)
	m.AddOrUpdate(addr(2), "10.0.0.2", 9001)

	excluded := map[wire.Address]struct{}{addr(1): {}}
	ka, ok := m.GetAddress(excluded)
	if !ok {
		t.Fatalf("expected the non-excluded candidate")
	}
	if ka.Identity != addr(2) {
		t.Fatalf("got %s, want identity 2", ka.Identity)
	}
}

func TestGetAddressRespectsMinRetryInterval(t *testing.T) {
	m := New()
	m.AddOrUpdate(addr(1), "10.0.0.1", 9000)
	m.MarkAttempt(addr(1), time.Now())

	if _, ok := m.GetAddress(nil); ok {
		t.Fatalf("candidate attempted moments ago should not be dialable yet")
	}
}

func TestMarkGoodResetsAttempts(t *testing.T) {
	m := New()
	m.AddOrUpdate(addr(1), "10.0.0.1", 9000)
	now := time.Now()
	m.MarkAttempt(addr(1), now)
	m.MarkGood(addr(1), now)

	if got := m.addrs[addr(1)].Attempts; got != 0 {
		t.Fatalf("Attempts = %d after MarkGood, want 0", got)
	}

	// MarkGood resets Attempts but LastAttempt (set moments ago) still
	// blocks a new dial until MinRetryInterval elapses.
	if _, ok := m.GetAddress(nil); ok {
		t.Fatalf("candidate should still be inside the retry interval")
	}
}

func TestRemoveDropsAddress(t *testing.T) {
	m := New()
	m.AddOrUpdate(addr(1), "10.0.0.1", 9000)
	m.Remove(addr(1))

	if m.Count() != 0 {
		t.Fatalf("Count() = %d, want 0 after Remove", m.Count())
	}
	if _, ok := m.GetAddress(nil); ok {
		t.Fatalf("removed address should not be a candidate")
	}
}

func TestGetAddressEmptyManager(t *testing.T) {
	m := New()
	if _, ok := m.GetAddress(nil); ok {
		t.Fatalf("empty manager should have no candidates")
	}
}
