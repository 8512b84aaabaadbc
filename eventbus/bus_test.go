// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventbus

import (
	"testing"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := New()

	var gotA, gotB Event
	b.Subscribe(func(ev Event) { gotA = ev })
	b.Subscribe(func(ev Event) { gotB = ev })

	want := Event{Type: EventBlockDisconnected, BlockDisconnected: &BlockDisconnectedEvent{Height: 42}}
	b.Publish(want)

	if gotA.Type != EventBlockDisconnected || gotA.BlockDisconnected.Height != 42 {
		t.Fatalf("first subscriber did not receive event: %+v", gotA)
	}
	if gotB.Type != EventBlockDisconnected || gotB.BlockDisconnected.Height != 42 {
		t.Fatalf("second subscriber did not receive event: %+v", gotB)
	}
}

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	b := New()

	var order []int
	b.Subscribe(func(Event) { order = append(order, 1) })
	b.Subscribe(func(Event) { order = append(order, 2) })
	b.Subscribe(func(Event) { order = append(order, 3) })

	b.Publish(Event{Type: EventMempoolTxRemove, MempoolTxRemove: &MempoolTxRemoveEvent{}})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("subscribers invoked out of order: %v", order)
	}
}

func TestPublishIsSynchronous(t *testing.T) {
	b := New()
	delivered := false
	b.Subscribe(func(Event) { delivered = true })

	b.Publish(Event{Type: EventMempoolTxRemove, MempoolTxRemove: &MempoolTxRemoveEvent{}})

	if !delivered {
		t.Fatalf("Publish returned before invoking the subscriber synchronously")
	}
}

func TestPublishWithNoSubscribersDoesNotPanic(t *testing.T) {
	b := New()
	b.Publish(Event{Type: EventMempoolTxRemove, MempoolTxRemove: &MempoolTxRemoveEvent{}})
}

func TestPublishMempoolTxRemoveWrapper(t *testing.T) {
	b := New()
	var got Event
	b.Subscribe(func(ev Event) { got = ev })

	hash := chainhash.Hash{0xaa}
	b.PublishMempoolTxRemove(&MempoolTxRemoveEvent{Hash: hash, Reason: RemoveReason(1)})

	if got.Type != EventMempoolTxRemove {
		t.Fatalf("wrapper published wrong event type: %v", got.Type)
	}
	if got.MempoolTxRemove.Hash != hash {
		t.Fatalf("wrapper did not carry through the hash")
	}
}

func TestEventTypeString(t *testing.T) {
	cases := map[EventType]string{
		EventBlockConnected:    "BlockConnected",
		EventBlockDisconnected: "BlockDisconnected",
		EventBlockReorg:        "BlockReorg",
		EventMempoolTxAdd:      "MempoolTxAdd",
		EventMempoolTxRemove:   "MempoolTxRemove",
		EventType(99):          "Unknown",
	}
	for in, want := range cases {
		if got := in.String(); got != want {
			t.Fatalf("EventType(%d).String() = %q, want %q", in, got, want)
		}
	}
}

func TestSubscribersAddedAfterPublishDoNotReceiveOlderEvents(t *testing.T) {
	b := New()
	b.Publish(Event{Type: EventMempoolTxRemove, MempoolTxRemove: &MempoolTxRemoveEvent{}})

	delivered := false
	b.Subscribe(func(Event) { delivered = true })

	if delivered {
		t.Fatalf("late subscriber received a pre-subscription event")
	}
}
