// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reputation

import (
	"math"
	"testing"
)

func TestRecordSuccessClearsFailures(t *testing.T) {
	r := Record{FailureCount: 5}
	r = r.RecordSuccess(100)
	if r.FailureCount != 0 || r.LastSuccessEpoch != 100 {
		t.Fatalf("unexpected record after success: %+v", r)
	}
}

func TestRecordFailureIncrementsAndSaturates(t *testing.T) {
	r := Record{}
	r = r.RecordFailure(10)
	if r.FailureCount != 1 || r.LastFailureEpoch != 10 {
		t.Fatalf("unexpected record after first failure: %+v", r)
	}

	r = Record{FailureCount: MaxFailureCount}
	r = r.RecordFailure(20)
	if r.FailureCount != MaxFailureCount {
		t.Fatalf("failure count exceeded the cap: %d", r.FailureCount)
	}
}

func TestBanBlocksFurtherSuccessAndFailureUpdates(t *testing.T) {
	r := Record{}.Ban(5)
	if !r.Banned() {
		t.Fatalf("expected record to be banned")
	}

	afterSuccess := r.RecordSuccess(6)
	if afterSuccess != r {
		t.Fatalf("RecordSuccess mutated a banned record: %+v", afterSuccess)
	}
	afterFailure := r.RecordFailure(7)
	if afterFailure != r {
		t.Fatalf("RecordFailure mutated a banned record: %+v", afterFailure)
	}
}

func TestCheckExpirationLiftsBanAfterDuration(t *testing.T) {
	r := Record{}.Ban(0)
	still := r.CheckExpiration(BanDurationSeconds - 1)
	if !still.Banned() {
		t.Fatalf("ban lifted before duration elapsed")
	}

	lifted := r.CheckExpiration(BanDurationSeconds)
	if lifted.Banned() {
		t.Fatalf("ban not lifted after duration elapsed")
	}
	if lifted.FailureCount != 0 {
		t.Fatalf("expired ban should reset failure count, got %d", lifted.FailureCount)
	}
}

func TestReliabilityScore(t *testing.T) {
	if got := (Record{}).ReliabilityScore(); got != 1000 {
		t.Fatalf("fresh record score = %d, want 1000", got)
	}
	if got := (Record{FailureCount: 200}).ReliabilityScore(); got != 800 {
		t.Fatalf("score with 200 failures = %d, want 800", got)
	}
	if got := (Record{FailureCount: 5000}).ReliabilityScore(); got != 0 {
		t.Fatalf("score caps failure count at 1000, got %d", got)
	}
	if got := (Record{}.Ban(0)).ReliabilityScore(); got != math.MinInt32 {
		t.Fatalf("banned record score = %d, want MinInt32", got)
	}
}
