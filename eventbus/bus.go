// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventbus

import "sync"

// Subscriber receives events published to a Bus. Handlers are invoked
// synchronously on the publisher's goroutine in subscription order;
// a slow subscriber (the P2P gossip layer, say) should hand off to its
// own worker rather than block Publish.
type Subscriber func(Event)

// Bus is a simple, fan-out, in-process publish/subscribe channel.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Subscribe registers fn to receive every future Publish call.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish delivers ev to every current subscriber, in subscription
// order.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// PublishBlockConnected is a convenience wrapper around Publish.
func (b *Bus) PublishBlockConnected(e *BlockConnectedEvent) {
	b.Publish(Event{Type: EventBlockConnected, BlockConnected: e})
}

// PublishBlockDisconnected is a convenience wrapper around Publish.
func (b *Bus) PublishBlockDisconnected(e *BlockDisconnectedEvent) {
	b.Publish(Event{Type: EventBlockDisconnected, BlockDisconnected: e})
}

// PublishBlockReorg is a convenience wrapper around Publish.
func (b *Bus) PublishBlockReorg(e *BlockReorgEvent) {
	b.Publish(Event{Type: EventBlockReorg, BlockReorg: e})
}

// PublishMempoolTxAdd is a convenience wrapper around Publish.
func (b *Bus) PublishMempoolTxAdd(e *MempoolTxAddEvent) {
	b.Publish(Event{Type: EventMempoolTxAdd, MempoolTxAdd: e})
}

// PublishMempoolTxRemove is a convenience wrapper around Publish.
func (b *Bus) PublishMempoolTxRemove(e *MempoolTxRemoveEvent) {
	b.Publish(Event{Type: EventMempoolTxRemove, MempoolTxRemove: e})
}
