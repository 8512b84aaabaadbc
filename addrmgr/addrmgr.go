// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addrmgr tracks the set of known peer addresses and how
// recently/successfully each has been dialed, so the connection manager
// can pick a good candidate without redialing a peer that just failed.
package addrmgr

import (
	"sync"
	"time"

	"github.com/EXCCoin/exccd/wire"
)

// MinRetryInterval bounds how soon a previously-attempted address may be
// retried, regardless of how many outbound slots are open.
const MinRetryInterval = 30 * time.Second

// KnownAddress is one peer identity's dial target and attempt history.
type KnownAddress struct {
	Identity wire.Address
	Host     string
	Port     uint16

	Attempts    int
	LastAttempt time.Time
	LastSuccess time.Time
}

// dialable reports whether a is currently eligible for a new outbound
// attempt: never tried, or its last attempt was long enough ago.
func (a *KnownAddress) dialable(now time.Time) bool {
	if a.LastAttempt.IsZero() {
		return true
	}
	return now.Sub(a.LastAttempt) >= MinRetryInterval
}

// Manager is the known-address bucket: a concurrency-safe map from peer
// identity to its dial metadata, fed by the directory client's merged
// peer table and by any configured manual peer list.
type Manager struct {
	mu    sync.RWMutex
	addrs map[wire.Address]*KnownAddress
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{addrs: make(map[wire.Address]*KnownAddress)}
}

// AddOrUpdate records identity as reachable at host:port, leaving its
// attempt history untouched if already known.
func (m *Manager) AddOrUpdate(identity wire.Address, host string, port uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ka, ok := m.addrs[identity]; ok {
		ka.Host, ka.Port = host, port
		return
	}
	m.addrs[identity] = &KnownAddress{Identity: identity, Host: host, Port: port}
}

// Remove drops identity from the known-address set entirely (used when
// the directory stops advertising a peer).
func (m *Manager) Remove(identity wire.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.addrs, identity)
}

// MarkAttempt records that a dial to identity was just attempted.
func (m *Manager) MarkAttempt(identity wire.Address, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ka, ok := m.addrs[identity]; ok {
		ka.Attempts++
		ka.LastAttempt = now
	}
}

// MarkGood records that a connection to identity succeeded and completed
// a handshake.
func (m *Manager) MarkGood(identity wire.Address, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ka, ok := m.addrs[identity]; ok {
		ka.Attempts = 0
		ka.LastSuccess = now
	}
}

// Count returns the number of known addresses.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.addrs)
}

// GetAddress returns a dialable candidate not present in excluded,
// preferring the one with the fewest attempts and, among ties, the one
// least recently attempted. It returns false if nothing is currently
// dialable.
func (m *Manager) GetAddress(excluded map[wire.Address]struct{}) (KnownAddress, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	var best *KnownAddress
	for identity, ka := range m.addrs {
		if _, skip := excluded[identity]; skip {
			continue
		}
		if !ka.dialable(now) {
			continue
		}
		if best == nil || ka.Attempts < best.Attempts ||
			(ka.Attempts == best.Attempts && ka.LastAttempt.Before(best.LastAttempt)) {
			best = ka
		}
	}
	if best == nil {
		return KnownAddress{}, false
	}
	return *best, true
}
