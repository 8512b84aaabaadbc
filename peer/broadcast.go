// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"sync"

	"github.com/EXCCoin/exccd/eventbus"
	"github.com/EXCCoin/exccd/wire"
)

// Broadcaster relays newly connected blocks and newly admitted mempool
// transactions to every connected peer (§4.8 gossip). It subscribes to
// the event bus directly rather than sharing SyncManager's peer registry,
// since a peer it has not learned about yet (still mid-handshake) should
// never receive gossip through it.
type Broadcaster struct {
	mu    sync.RWMutex
	peers map[wire.Address]*Peer
}

// NewBroadcaster returns a Broadcaster with no peers registered. Callers
// must Subscribe it to a Bus themselves so construction order stays
// explicit at the call site.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{peers: make(map[wire.Address]*Peer)}
}

// AddPeer registers p to receive gossip.
func (b *Broadcaster) AddPeer(p *Peer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.peers[p.Identity] = p
}

// RemovePeer drops identity from the gossip fan-out.
func (b *Broadcaster) RemovePeer(identity wire.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.peers, identity)
}

// HandleEvent is a Bus Subscriber. Both BlockConnectedEvent and
// MempoolTxAddEvent may be published while the Chain Engine still holds
// its master lock (see the Event Bus/Mempool grounding notes), so this
// must never do anything but a non-blocking, per-peer Send — no
// synchronous chain or mempool calls.
func (b *Broadcaster) HandleEvent(ev eventbus.Event) {
	switch ev.Type {
	case eventbus.EventBlockConnected:
		b.handleBlockConnected(ev.BlockConnected)
	case eventbus.EventMempoolTxAdd:
		b.handleMempoolTxAdd(ev.MempoolTxAdd)
	}
}

// handleBlockConnected relays a block to every peer, unless it arrived
// from the network in the first place (SYNC/REORG), in which case every
// connected peer already has it or will learn of it through its own
// sync, and re-broadcasting would just be wasted bandwidth.
func (b *Broadcaster) handleBlockConnected(e *eventbus.BlockConnectedEvent) {
	if e == nil || e.Source == wire.SourceSync || e.Source == wire.SourceReorg {
		return
	}
	msg := &wire.MsgNewBlock{Block: e.Block}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, p := range b.peers {
		p.Send(msg)
	}
}

// handleMempoolTxAdd relays a newly admitted transaction to every peer.
func (b *Broadcaster) handleMempoolTxAdd(e *eventbus.MempoolTxAddEvent) {
	if e == nil {
		return
	}
	msg := &wire.MsgNewMempoolTx{Tx: e.Tx}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, p := range b.peers {
		p.Send(msg)
	}
}
