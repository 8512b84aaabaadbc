// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reputation

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/EXCCoin/exccd/wire"
)

const recordVersion = 1

// recordSize is 1 (version) + 4 (failureCount) + 8 (lastFailureEpoch) +
// 8 (lastSuccessEpoch).
const recordSize = 1 + 4 + 8 + 8

func encodeRecord(r Record) []byte {
	b := make([]byte, recordSize)
	b[0] = recordVersion
	binary.BigEndian.PutUint32(b[1:5], r.FailureCount)
	binary.BigEndian.PutUint64(b[5:13], uint64(r.LastFailureEpoch))
	binary.BigEndian.PutUint64(b[13:21], uint64(r.LastSuccessEpoch))
	return b
}

func decodeRecord(b []byte) (Record, error) {
	if len(b) != recordSize {
		return Record{}, fmt.Errorf("reputation: malformed record: %d bytes", len(b))
	}
	if b[0] != recordVersion {
		return Record{}, fmt.Errorf("reputation: unsupported record version %d", b[0])
	}
	return Record{
		FailureCount:     binary.BigEndian.Uint32(b[1:5]),
		LastFailureEpoch: int64(binary.BigEndian.Uint64(b[5:13])),
		LastSuccessEpoch: int64(binary.BigEndian.Uint64(b[13:21])),
	}, nil
}

// peerStore is the durable backing a Store reads through and writes to.
// It is satisfied by *database.DB; the interface exists so tests can
// supply an in-memory fake without opening a real LevelDB instance.
type peerStore interface {
	GetPeerReputation(addr string) ([]byte, bool, error)
	PutPeerReputation(addr string, encoded []byte) error
}

// Store tracks reputation records for every peer identity seen, backed
// by durable per-identity compare-and-set: each identity's record lives
// behind its own mutex-guarded slot, matching the concurrency model's
// "per-identity compare-and-set via a concurrent map plus write-through
// persistence" shared-resource policy.
type Store struct {
	db peerStore

	mu    sync.Mutex
	slots map[wire.Address]*sync.Mutex
}

// NewStore wraps db for reputation tracking.
func NewStore(db peerStore) *Store {
	return &Store{db: db, slots: make(map[wire.Address]*sync.Mutex)}
}

func (s *Store) slotFor(identity wire.Address) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.slots[identity]
	if !ok {
		m = &sync.Mutex{}
		s.slots[identity] = m
	}
	return m
}

func (s *Store) key(identity wire.Address) string {
	return identity.String()
}

// Get returns identity's current record, with any due ban-expiration
// already applied, and persists the expiration if it just occurred.
func (s *Store) Get(identity wire.Address, now int64) (Record, error) {
	slot := s.slotFor(identity)
	slot.Lock()
	defer slot.Unlock()
	return s.getLocked(identity, now)
}

func (s *Store) getLocked(identity wire.Address, now int64) (Record, error) {
	raw, ok, err := s.db.GetPeerReputation(s.key(identity))
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, nil
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return Record{}, err
	}
	expired := rec.CheckExpiration(now)
	if expired != rec {
		if err := s.db.PutPeerReputation(s.key(identity), encodeRecord(expired)); err != nil {
			return Record{}, err
		}
	}
	return expired, nil
}

// RecordSuccess applies Record.RecordSuccess and persists the result.
func (s *Store) RecordSuccess(identity wire.Address, now int64) error {
	return s.update(identity, now, Record.RecordSuccess)
}

// RecordFailure applies Record.RecordFailure and persists the result.
func (s *Store) RecordFailure(identity wire.Address, now int64) error {
	return s.update(identity, now, Record.RecordFailure)
}

// Ban applies Record.Ban and persists the result.
func (s *Store) Ban(identity wire.Address, now int64) error {
	return s.update(identity, now, Record.Ban)
}

func (s *Store) update(identity wire.Address, now int64, apply func(Record, int64) Record) error {
	slot := s.slotFor(identity)
	slot.Lock()
	defer slot.Unlock()

	cur, err := s.getLocked(identity, now)
	if err != nil {
		return err
	}
	next := apply(cur, now)
	return s.db.PutPeerReputation(s.key(identity), encodeRecord(next))
}

// ReliabilityScore returns identity's current reliability score, per
// Record.ReliabilityScore, applying any due ban-expiration first.
func (s *Store) ReliabilityScore(identity wire.Address, now int64) (int32, error) {
	rec, err := s.Get(identity, now)
	if err != nil {
		return 0, err
	}
	return rec.ReliabilityScore(), nil
}
