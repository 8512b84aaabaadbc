// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie

import (
	"fmt"
	"sync"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/lru"
)

// Location identifies which logical trie a node belongs to: the node
// store is shared by the world-state trie and any per-block auxiliary
// tries, keyed by a caller-chosen namespace so unrelated tries never
// collide even though both are content-addressed by the same hash
// function.
type Location string

const (
	// LocationWorldState is the namespace for the canonical world-state
	// trie referenced by BlockHeader.StateRootHash.
	LocationWorldState Location = "state"
)

// Batch accumulates node writes destined for a single atomic durable
// commit. The concrete implementation is supplied by the backing Store.
type Batch interface {
	PutNode(location Location, hash chainhash.Hash, encoded []byte)
}

// Store is the content-addressed node store backing every trie. Writes
// are staged in a pending, in-memory buffer, which Get consults first,
// and become durable only once CommitToBatch succeeds and the caller
// commits the batch; Rollback discards the pending buffer with no other
// side effect.
type Store interface {
	// Get resolves the node stored at (location, hash), consulting the
	// pending buffer, then the cache, then durable storage, in that
	// order. The boolean result is false if no such node exists.
	Get(location Location, hash chainhash.Hash) ([]byte, bool, error)

	// Put stages a node write in the pending buffer. It is not visible
	// to durable storage until CommitToBatch is called and the returned
	// batch is committed by the caller.
	Put(location Location, hash chainhash.Hash, encoded []byte)

	// CommitToBatch copies all pending writes into batch. It neither
	// clears the pending buffer nor fills the read cache; MarkCommitted
	// does both once the caller has committed the batch.
	CommitToBatch(batch Batch) error

	// MarkCommitted promotes the pending writes into the read cache and
	// clears the pending buffer after the caller has durably committed
	// the batch populated by CommitToBatch.
	MarkCommitted()

	// Rollback discards all pending writes without touching the cache
	// or durable storage.
	Rollback()
}

type nodeKey struct {
	location Location
	hash     chainhash.Hash
}

// durableGetter abstracts the durable backing store so Store can be
// tested without a real on-disk database.
type durableGetter interface {
	GetNode(location Location, hash chainhash.Hash) ([]byte, bool, error)
}

// CacheStore is the standard Store implementation: a pending-write
// buffer over an LRU cache over a durable backing store.
type CacheStore struct {
	mu      sync.RWMutex
	pending map[nodeKey][]byte
	cache   *lru.Cache
	durable durableGetter
}

// NewCacheStore returns a Store backed by durable and caching up to
// cacheSize resolved nodes.
func NewCacheStore(durable durableGetter, cacheSize int) *CacheStore {
	return &CacheStore{
		pending: make(map[nodeKey][]byte),
		cache:   lru.New(cacheSize),
		durable: durable,
	}
}

func (s *CacheStore) Get(location Location, hash chainhash.Hash) ([]byte, bool, error) {
	key := nodeKey{location, hash}

	s.mu.RLock()
	if b, ok := s.pending[key]; ok {
		s.mu.RUnlock()
		return b, true, nil
	}
	s.mu.RUnlock()

	if v, ok := s.cache.Get(key); ok {
		return v.([]byte), true, nil
	}

	b, ok, err := s.durable.GetNode(location, hash)
	if err != nil {
		return nil, false, fmt.Errorf("trie: resolving %s/%s: %w", location, hash, err)
	}
	if !ok {
		return nil, false, nil
	}
	s.cache.Add(key, b)
	return b, true, nil
}

func (s *CacheStore) Put(location Location, hash chainhash.Hash, encoded []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[nodeKey{location, hash}] = encoded
}

func (s *CacheStore) CommitToBatch(batch Batch) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, b := range s.pending {
		batch.PutNode(key.location, key.hash, b)
	}
	return nil
}

func (s *CacheStore) MarkCommitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, b := range s.pending {
		s.cache.Add(key, b)
	}
	s.pending = make(map[nodeKey][]byte)
}

func (s *CacheStore) Rollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[nodeKey][]byte)
}
