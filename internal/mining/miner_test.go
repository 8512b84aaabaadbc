// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"testing"
	"time"

	"github.com/EXCCoin/exccd/eventbus"
)

func TestHandleEventSignalsRestartOnRelevantEvents(t *testing.T) {
	m := newTestMiner(nonceHasher{})

	m.HandleEvent(eventbus.Event{Type: eventbus.EventBlockConnected})
	select {
	case <-m.restart:
	default:
		t.Fatalf("EventBlockConnected did not signal a restart")
	}

	m.HandleEvent(eventbus.Event{Type: eventbus.EventBlockReorg})
	select {
	case <-m.restart:
	default:
		t.Fatalf("EventBlockReorg did not signal a restart")
	}
}

func TestHandleEventIgnoresUnrelatedEvents(t *testing.T) {
	m := newTestMiner(nonceHasher{})

	m.HandleEvent(eventbus.Event{Type: eventbus.EventMempoolTxAdd})
	select {
	case <-m.restart:
		t.Fatalf("unrelated event unexpectedly signaled a restart")
	default:
	}
}

func TestSignalRestartDoesNotBlockWhenFull(t *testing.T) {
	m := newTestMiner(nonceHasher{})
	m.signalRestart()
	done := make(chan struct{})
	go func() {
		m.signalRestart() // buffer already full; must not block
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("signalRestart blocked on an already-full channel")
	}
}

func TestDrainRestartClearsPendingSignal(t *testing.T) {
	m := newTestMiner(nonceHasher{})
	m.signalRestart()
	m.drainRestart()
	select {
	case <-m.restart:
		t.Fatalf("drainRestart left a signal in the channel")
	default:
	}
}

func TestStartNoopWhenDisabled(t *testing.T) {
	m := newTestMiner(nonceHasher{})
	m.cfg.Enabled = false
	m.Start()
	// Stop must return immediately since Start never launched the main
	// loop goroutine to wait for.
	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Stop hung after a no-op Start")
	}
}

func TestAttemptsStartsAtZero(t *testing.T) {
	m := newTestMiner(nonceHasher{})
	if got := m.Attempts(); got != 0 {
		t.Fatalf("Attempts() = %d, want 0", got)
	}
}
