// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package connmgr maintains a target count of outbound P2P connections,
// pulling dial candidates from an address source and retrying failed
// dials with exponential backoff.
package connmgr

import (
	"context"
	"math/rand"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/EXCCoin/exccd/addrmgr"
	"github.com/EXCCoin/exccd/wire"
)

// RetryInitialDelay and RetryMaxDelay bound the exponential backoff
// applied between dial attempts to the same candidate.
const (
	RetryInitialDelay = time.Second
	RetryMaxDelay     = 5 * time.Minute
)

// Config parameterizes a ConnManager.
type Config struct {
	TargetOutbound int

	// GetAddress returns the next dial candidate, given the set of
	// identities already connected or in flight.
	GetAddress func(excluded map[wire.Address]struct{}) (addrmgr.KnownAddress, bool)

	// MarkAttempt/MarkGood report dial outcomes back to the address
	// source (normally addrmgr.Manager.MarkAttempt/MarkGood).
	MarkAttempt func(identity wire.Address)
	MarkGood    func(identity wire.Address)

	// Dial opens the TCP connection; overridable for tests.
	Dial func(ctx context.Context, host string, port uint16) (net.Conn, error)

	// OnConnect is invoked with every successfully dialed connection;
	// the callee owns the connection from that point (handshake,
	// per-connection pumps).
	OnConnect func(conn net.Conn, identity wire.Address)
}

func defaultDial(ctx context.Context, host string, port uint16) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
}

// ConnManager maintains cfg.TargetOutbound live outbound connections.
type ConnManager struct {
	cfg Config

	mu       sync.Mutex
	active   map[wire.Address]struct{}
	inFlight map[wire.Address]struct{}

	quit chan struct{}
	wg   sync.WaitGroup
}

// New constructs a ConnManager; Start begins connecting.
func New(cfg Config) *ConnManager {
	if cfg.Dial == nil {
		cfg.Dial = defaultDial
	}
	return &ConnManager{
		cfg:      cfg,
		active:   make(map[wire.Address]struct{}),
		inFlight: make(map[wire.Address]struct{}),
		quit:     make(chan struct{}),
	}
}

// Start begins the maintenance loop that keeps TargetOutbound
// connections alive.
func (cm *ConnManager) Start() {
	cm.wg.Add(1)
	go cm.maintain()
}

// Stop halts the maintenance loop; in-flight dials are abandoned once
// their own context expires.
func (cm *ConnManager) Stop() {
	close(cm.quit)
	cm.wg.Wait()
}

// Disconnected tells the manager identity is no longer connected, so a
// replacement may be dialed.
func (cm *ConnManager) Disconnected(identity wire.Address) {
	cm.mu.Lock()
	delete(cm.active, identity)
	cm.mu.Unlock()
}

func (cm *ConnManager) maintain() {
	defer cm.wg.Done()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cm.fillSlots()
		case <-cm.quit:
			return
		}
	}
}

func (cm *ConnManager) fillSlots() {
	cm.mu.Lock()
	need := cm.cfg.TargetOutbound - len(cm.active) - len(cm.inFlight)
	excluded := make(map[wire.Address]struct{}, len(cm.active)+len(cm.inFlight))
	for id := range cm.active {
		excluded[id] = struct{}{}
	}
	for id := range cm.inFlight {
		excluded[id] = struct{}{}
	}
	cm.mu.Unlock()

	for i := 0; i < need; i++ {
		ka, ok := cm.cfg.GetAddress(excluded)
		if !ok {
			return
		}
		excluded[ka.Identity] = struct{}{}

		cm.mu.Lock()
		cm.inFlight[ka.Identity] = struct{}{}
		cm.mu.Unlock()

		cm.wg.Add(1)
		go cm.connectWithBackoff(ka)
	}
}

// connectWithBackoff retries ka with exponential backoff (jittered)
// until it succeeds or the manager is stopped.
func (cm *ConnManager) connectWithBackoff(ka addrmgr.KnownAddress) {
	defer cm.wg.Done()
	delay := RetryInitialDelay
	for {
		if cm.cfg.MarkAttempt != nil {
			cm.cfg.MarkAttempt(ka.Identity)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err := cm.cfg.Dial(ctx, ka.Host, ka.Port)
		cancel()

		if err == nil {
			if cm.cfg.MarkGood != nil {
				cm.cfg.MarkGood(ka.Identity)
			}
			cm.mu.Lock()
			delete(cm.inFlight, ka.Identity)
			cm.active[ka.Identity] = struct{}{}
			cm.mu.Unlock()
			cm.cfg.OnConnect(conn, ka.Identity)
			return
		}

		jittered := delay + time.Duration(rand.Int63n(int64(delay)/2+1))
		select {
		case <-time.After(jittered):
		case <-cm.quit:
			cm.mu.Lock()
			delete(cm.inFlight, ka.Identity)
			cm.mu.Unlock()
			return
		}
		if delay < RetryMaxDelay {
			delay *= 2
			if delay > RetryMaxDelay {
				delay = RetryMaxDelay
			}
		}
	}
}
