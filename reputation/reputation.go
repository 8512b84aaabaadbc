// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reputation implements per-peer reliability tracking: a
// persistent failure/success counter per peer identity, an explicit Ban,
// and an automatic unban after a cooldown period. Failures alone never
// ban a peer: RecordFailure saturates at MaxFailureCount.
package reputation

import "math"

// SentinelBanned is the failureCount value that marks a peer as banned,
// distinct from any count reachable by ordinary failures.
const SentinelBanned uint32 = math.MaxUint32

// MaxFailureCount bounds the ordinary (non-banned) failure counter.
const MaxFailureCount uint32 = 1000

// BanDurationSeconds is how long a ban lasts before check_expiration
// lifts it automatically.
const BanDurationSeconds int64 = 12 * 60 * 60

// Record is one peer's reputation state.
type Record struct {
	FailureCount     uint32
	LastFailureEpoch int64
	LastSuccessEpoch int64
}

// Banned reports whether the record currently marks its peer as banned.
func (r Record) Banned() bool {
	return r.FailureCount == SentinelBanned
}

// RecordSuccess clears the failure counter and stamps the success time,
// if the peer is not currently banned (a ban can only be lifted by
// CheckExpiration).
func (r Record) RecordSuccess(now int64) Record {
	if r.Banned() {
		return r
	}
	r.FailureCount = 0
	r.LastSuccessEpoch = now
	return r
}

// RecordFailure increments the failure counter, saturating at
// MaxFailureCount, if the peer is not currently banned.
func (r Record) RecordFailure(now int64) Record {
	if r.Banned() {
		return r
	}
	if r.FailureCount < MaxFailureCount {
		r.FailureCount++
	}
	r.LastFailureEpoch = now
	return r
}

// Ban marks the peer banned as of now.
func (r Record) Ban(now int64) Record {
	r.FailureCount = SentinelBanned
	r.LastFailureEpoch = now
	return r
}

// CheckExpiration lifts a ban that has lasted at least BanDurationSeconds,
// resetting the failure counter but preserving both timestamps.
func (r Record) CheckExpiration(now int64) Record {
	if r.Banned() && now-r.LastFailureEpoch >= BanDurationSeconds {
		r.FailureCount = 0
	}
	return r
}

// ReliabilityScore returns math.MinInt32 for a banned peer, otherwise
// 1000 minus the (capped) failure count.
func (r Record) ReliabilityScore() int32 {
	if r.Banned() {
		return math.MinInt32
	}
	count := r.FailureCount
	if count > 1000 {
		count = 1000
	}
	return 1000 - int32(count)
}
