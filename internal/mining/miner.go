// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/EXCCoin/exccd/blockchain"
	"github.com/EXCCoin/exccd/crypto"
	"github.com/EXCCoin/exccd/eventbus"
	"github.com/EXCCoin/exccd/mempool"
	"github.com/EXCCoin/exccd/wire"
)

// blockTemplateBytesBudget/blockTemplateTxBudget bound how many mempool
// transactions a candidate considers per attempt; kept well under the
// Chain Engine's own per-height MaxBlockSize/MaxTxCountPerBlock so a
// mined candidate is never rejected on size alone.
const (
	blockTemplateBytesBudget = 256 * 1024
	blockTemplateTxBudget    = 8192

	// attemptBackoff is how long the main loop waits before retrying
	// after an attempt fails to produce a connectable block (no
	// candidate could be built, or ConnectBlock lost a race against a
	// peer's block), rather than spinning the CPU on an empty mempool
	// or a stale tip.
	attemptBackoff = 500 * time.Millisecond
)

// Miner runs the node's mining main loop: a single thread orchestrating
// one mining attempt at a time, dispatching the proof-of-work nonce
// search across a fixed pool of daemon hash workers. Grounded on the
// register/push-work/collect-result split common to the reference miner
// worker pools (go-ethereum, celo, klaytn each push a work item to N
// agents and select over a result channel), simplified here to a single
// in-flight attempt since the node only ever mines one candidate at a
// time.
type Miner struct {
	chain   *blockchain.BlockChain
	mempool *mempool.Mempool
	hasher  crypto.Hasher
	signer  crypto.Signer
	cfg     Config

	restart chan struct{}
	quit    chan struct{}
	wg      sync.WaitGroup

	attempts uint64
}

// New constructs a Miner. It does not start mining; call Start.
func New(chain *blockchain.BlockChain, mp *mempool.Mempool, hasher crypto.Hasher, signer crypto.Signer, cfg Config) *Miner {
	return &Miner{
		chain:   chain,
		mempool: mp,
		hasher:  hasher,
		signer:  signer,
		cfg:     cfg,
		restart: make(chan struct{}, 1),
		quit:    make(chan struct{}),
	}
}

// HandleEvent is the bus subscriber that invalidates whatever candidate
// is currently being mined when the tip moves out from under it — a
// block connected by a peer or a reorg both mean PrepareCandidate's
// parent is now stale. Publish invokes subscribers synchronously on the
// Chain Engine's own goroutine, so this does nothing but a non-blocking
// signal.
func (m *Miner) HandleEvent(ev eventbus.Event) {
	switch ev.Type {
	case eventbus.EventBlockConnected, eventbus.EventBlockReorg:
		m.signalRestart()
	}
}

func (m *Miner) signalRestart() {
	select {
	case m.restart <- struct{}{}:
	default:
	}
}

// drainRestart clears any pending restart signal accumulated before a
// new attempt begins, so a stale signal from the previous attempt
// doesn't immediately abort the next one.
func (m *Miner) drainRestart() {
	select {
	case <-m.restart:
	default:
	}
}

// Attempts reports how many mining attempts (successful or not) this
// Miner has started, for tests and introspection.
func (m *Miner) Attempts() uint64 {
	return atomic.LoadUint64(&m.attempts)
}

// Start launches the main loop goroutine. It is a no-op when mining is
// disabled, mirroring mining.enabled as the master switch.
func (m *Miner) Start() {
	if !m.cfg.Enabled {
		return
	}
	m.wg.Add(1)
	go m.mainLoop()
}

// Stop terminates the main loop and waits for the in-flight attempt, if
// any, to unwind.
func (m *Miner) Stop() {
	close(m.quit)
	m.wg.Wait()
}

func (m *Miner) mainLoop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.quit:
			return
		default:
		}

		if err := m.attemptOnce(); err != nil {
			select {
			case <-time.After(attemptBackoff):
			case <-m.quit:
				return
			}
		}
	}
}

// attemptOnce prepares one candidate block and searches for a valid
// proof-of-work nonce, submitting the block on success. A
// candidate-construction failure and a ConnectBlock error (such as a
// lost race against a peer's block) are returned, so the main loop waits
// attemptBackoff; a search interrupted by a tip change or shutdown, and a
// signing failure, return nil so the main loop immediately tries again.
func (m *Miner) attemptOnce() error {
	atomic.AddUint64(&m.attempts, 1)
	m.drainRestart()

	txs := m.mempool.SelectForBlock(blockTemplateBytesBudget, blockTemplateTxBudget)
	candidate, err := m.chain.PrepareCandidate(txs, m.cfg.Coinbase, time.Now())
	if err != nil {
		return err
	}

	threads := m.cfg.Threads
	if threads <= 0 {
		threads = 1
	}

	nonce, ok := m.searchNonce(candidate, threads)
	if !ok {
		return nil
	}

	candidate.Header.Nonce = nonce
	candidate.Header.Identity = m.signer.Address()
	sig, err := m.signer.Sign(wire.ContentHash(candidate.Header.SigningBytes()))
	if err != nil {
		return nil
	}
	candidate.Header.Signature = sig

	return m.chain.ConnectBlock(candidate, wire.SourceMiner)
}
