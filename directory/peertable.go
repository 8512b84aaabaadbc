// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package directory

import (
	"net"
	"strings"
	"sync"

	"github.com/EXCCoin/exccd/wire"
)

// PeerTable is the set of peers last reported by the directory, merged
// on every successful ping.
type PeerTable struct {
	mu    sync.RWMutex
	peers map[wire.Address]PeerAdvert
}

// NewPeerTable returns an empty PeerTable.
func NewPeerTable() *PeerTable {
	return &PeerTable{peers: make(map[wire.Address]PeerAdvert)}
}

// Snapshot returns every peer currently held, in no particular order
// (the directory response's peer ordering is not documented and must be
// treated as unordered).
func (t *PeerTable) Snapshot() []PeerAdvert {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]PeerAdvert, 0, len(t.peers))
	for _, p := range t.peers {
		out = append(out, p)
	}
	return out
}

// Merge reconciles the table against incoming, the directory's full
// current peer set: unknown peers are added, known peers have their
// host/port/updatedAt refreshed, and peers absent from incoming are
// removed. Entries with an unsafe host (non-routable or loopback,
// unless allowLocal is set for test/dev use) are silently rejected
// rather than merged.
func (t *PeerTable) Merge(incoming []PeerAdvert, allowLocal bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[wire.Address]struct{}, len(incoming))
	for _, p := range incoming {
		if !isSafeHost(p.Host, allowLocal) {
			continue
		}
		seen[p.Identity] = struct{}{}
		t.peers[p.Identity] = p
	}
	for identity := range t.peers {
		if _, ok := seen[identity]; !ok {
			delete(t.peers, identity)
		}
	}
}

// isSafeHost reports whether host is fit to dial in production: an IP
// literal must be neither loopback nor otherwise non-routable
// (unspecified, link-local, or private-use), and the name "localhost" is
// refused; any other DNS name is accepted without being resolved.
// allowLocal accepts every host.
func isSafeHost(host string, allowLocal bool) bool {
	if allowLocal {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		// Not an IP literal: refuse the loopback name, and otherwise
		// assume a DNS name is routable (resolution, and any further
		// reachability check, is the dialer's concern).
		return !strings.EqualFold(host, "localhost")
	}
	if ip.IsLoopback() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsPrivate() {
		return false
	}
	return true
}
