// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool implements the concurrent pending-transaction store:
// admission control, replace-by-fee, bounded eviction, and block-template
// selection over transactions that are valid against the current tip but
// not yet included in a block.
package mempool

import (
	"fmt"
	"math/big"
	"time"

	"github.com/EXCCoin/exccd/blockchain"
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/crypto"
	"github.com/EXCCoin/exccd/eventbus"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/validator"
	"github.com/EXCCoin/exccd/wire"
)

// RBFBumpRatioNum/RBFBumpRatioDenom express the minimum replace-by-fee
// bump as a ratio (11/10 == 1.10); kept as integers so the comparison
// against a candidate fee is exact cross-multiplication, never float.
const (
	RBFBumpRatioNum   = 11
	RBFBumpRatioDenom = 10
)

// Config parameterizes a Mempool's bounds and acceptance policy. The
// zero value is not usable; use DefaultConfig as a starting point.
type Config struct {
	// MaxBytes and MaxCount bound the pool's total footprint; admission
	// triggers eviction of the lowest fee-per-byte txs once either is
	// exceeded.
	MaxBytes int
	MaxCount int
	// MaxFutureGap bounds how far beyond storedNonce+1 an admitted tx's
	// nonce may sit.
	MaxFutureGap uint64
	// NodeMinAcceptableFee is an additional local floor under which a tx
	// is rejected even if it clears the network's per-byte minimum.
	NodeMinAcceptableFee *uint256.Uint256
	// TTL is how long an admitted tx may sit before the periodic sweep
	// evicts it with reason=EXPIRED.
	TTL time.Duration
	// PendingBufferSize bounds the intake channel depth before Submit
	// blocks the calling goroutine.
	PendingBufferSize int
}

// DefaultConfig returns reasonable bounds for a full node's mempool.
func DefaultConfig() Config {
	return Config{
		MaxBytes:             64 * 1024 * 1024,
		MaxCount:             50000,
		MaxFutureGap:         16,
		NodeMinAcceptableFee: uint256.Zero(),
		TTL:                  3 * time.Hour,
		PendingBufferSize:    1024,
	}
}

// entry is one admitted transaction together with the bookkeeping the
// pool needs to order and evict it.
type entry struct {
	tx         *wire.Tx
	hash       chainhash.Hash
	size       int
	feePerByte *big.Rat
	received   time.Time
}

// Mempool is the concurrent pending-transaction store described by the
// node's mempool component: a mutex-guarded index of admitted
// transactions fed by a single admission goroutine draining an intake
// channel, the same split the reference mempool implementation this
// package is grounded on uses to keep validation off the hot submission
// path.
type Mempool struct {
	chain    *blockchain.BlockChain
	bus      *eventbus.Bus
	verifier crypto.Verifier
	cfg      Config

	pending chan pendingItem
	quit    chan struct{}

	pool *pool
}

// New constructs a Mempool bound to chain and bus, and starts its
// admission goroutine. Callers submit transactions with Add; the
// goroutine is stopped by Stop.
func New(chain *blockchain.BlockChain, bus *eventbus.Bus, verifier crypto.Verifier, cfg Config) *Mempool {
	m := &Mempool{
		chain:    chain,
		bus:      bus,
		verifier: verifier,
		cfg:      cfg,
		pending:  make(chan pendingItem, cfg.PendingBufferSize),
		quit:     make(chan struct{}),
		pool:     newPool(),
	}
	bus.Subscribe(m.handleEvent)
	go m.run()
	return m
}

// Stop terminates the admission goroutine. It does not flush pending
// submissions: a transaction queued by Submit and not yet taken by the
// goroutine is never admitted.
func (m *Mempool) Stop() {
	close(m.quit)
}

// pendingItem is one submission awaiting the admission goroutine,
// whether from an external peer/RPC caller (Submit) or from this
// mempool's own reorg handling (onBlockDisconnected).
type pendingItem struct {
	tx     *wire.Tx
	reason eventbus.AddReason
}

// Submit enqueues tx for asynchronous admission with reason NEW. The
// result of admission is only observable via MempoolTxAddEvent /
// MempoolTxRemoveEvent on the bus; callers needing a synchronous
// accept/reject decision should use Add directly.
func (m *Mempool) Submit(tx *wire.Tx) {
	m.pending <- pendingItem{tx: tx, reason: eventbus.AddReasonNew}
}

// enqueueNonBlocking is used from within Publish's call stack (the
// BlockDisconnectedEvent handler), where the caller may already hold
// the chain lock: it must never block waiting for the admission
// goroutine, so a full queue simply drops the resubmission rather than
// risk a deadlock against a concurrent connect_block.
func (m *Mempool) enqueueNonBlocking(tx *wire.Tx, reason eventbus.AddReason) {
	select {
	case m.pending <- pendingItem{tx: tx, reason: reason}:
	default:
	}
}

func (m *Mempool) run() {
	ticker := time.NewTicker(m.cfg.TTL / 4)
	defer ticker.Stop()
	for {
		select {
		case item := <-m.pending:
			_ = m.Add(item.tx, item.reason)
		case <-ticker.C:
			m.sweepExpired()
		case <-m.quit:
			return
		}
	}
}

// RejectedReason explains why Add declined a transaction.
type RejectedReason struct {
	Detail string
}

func (r *RejectedReason) Error() string { return r.Detail }

func rejected(format string, args ...interface{}) *RejectedReason {
	return &RejectedReason{Detail: fmt.Sprintf(format, args...)}
}

// Add validates tx against the current tip and, if it passes, admits it
// to the pool (replacing an existing same-(sender,nonce) tx under the
// replace-by-fee rule if present). It acquires the chain's master lock
// for the duration of validation so it never races a concurrent
// connect_block/execute_atomic_reorg_swap.
func (m *Mempool) Add(tx *wire.Tx, reason eventbus.AddReason) error {
	var admitErr error
	lockErr := m.chain.WithChainLock(func() error {
		admitErr = m.admitLocked(tx, reason)
		return nil
	})
	if lockErr != nil {
		return lockErr
	}
	return admitErr
}

func (m *Mempool) admitLocked(tx *wire.Tx, reason eventbus.AddReason) error {
	params := m.chain.Params()
	if err := validator.Stateless(tx, params.MaxTxSize, m.verifier); err != nil {
		return err
	}

	ws := m.chain.Snapshot()
	netParams, err := m.chain.CurrentParams()
	if err != nil {
		return err
	}

	opts := validator.StatefulOptions{
		NonceMode:    validator.NonceAllowFutureGap,
		MaxFutureGap: m.cfg.MaxFutureGap,
		Now:          time.Now(),
		NativeToken:  wire.NativeTokenAddress,
	}
	if err := validator.Stateful(tx, ws, opts); err != nil {
		return err
	}

	size := tx.Size()
	minFee := networkMinFee(netParams, size)
	if tx.Fee.Cmp(minFee) < 0 {
		return rejected("fee %s below network minimum %s", tx.Fee, minFee)
	}
	if tx.Fee.Cmp(m.cfg.NodeMinAcceptableFee) < 0 {
		return rejected("fee %s below node minimum %s", tx.Fee, m.cfg.NodeMinAcceptableFee)
	}

	hash := tx.Hash()
	feePerByte := new(big.Rat).SetFrac(tx.Fee.Big(), big.NewInt(int64(size)))
	e := &entry{tx: tx, hash: hash, size: size, feePerByte: feePerByte, received: time.Now()}

	var replacedHash chainhash.Hash
	for _, old := range m.pool.senderGroups()[tx.Sender] {
		if old.tx.Nonce == tx.Nonce {
			replacedHash = old.hash
		}
	}
	replaced, hadExisting, err := m.pool.insertOrReplace(tx.Sender, tx.Nonce, e)
	if err != nil {
		return err
	}
	if hadExisting && !replaced {
		return rejected("replace-by-fee requires fee > %d/%d of the replaced tx's fee", RBFBumpRatioNum, RBFBumpRatioDenom)
	}
	if hadExisting {
		m.bus.PublishMempoolTxRemove(&eventbus.MempoolTxRemoveEvent{Hash: replacedHash, Reason: eventbus.RemoveReasonRBF})
	}

	m.evictToBounds()
	m.bus.PublishMempoolTxAdd(&eventbus.MempoolTxAddEvent{Hash: hash, Tx: tx, Reason: reason})
	return nil
}

// Remove evicts hash from the pool, publishing MempoolTxRemoveEvent(reason).
func (m *Mempool) Remove(hash chainhash.Hash, reason eventbus.RemoveReason) {
	if m.pool.removeByHash(hash) {
		m.bus.PublishMempoolTxRemove(&eventbus.MempoolTxRemoveEvent{Hash: hash, Reason: reason})
	}
}

// Clear empties the pool without publishing per-tx remove events; it is
// used only for test setup and full resync, never during normal
// operation.
func (m *Mempool) Clear() {
	m.pool.clear()
}

// Hashes returns the hashes of every currently pooled transaction, in no
// particular order. Used to answer a peer's GET_MEMPOOL_HASHES request
// (§4.8) without exposing the pool's internal entry type.
func (m *Mempool) Hashes() []chainhash.Hash {
	entries := m.pool.allByHash()
	out := make([]chainhash.Hash, len(entries))
	for i, e := range entries {
		out[i] = e.hash
	}
	return out
}

// GetTransactions returns the subset of hashes currently held in the
// pool, skipping any not found. Used to answer a peer's
// GET_MEMPOOL_TRANSACTIONS request.
func (m *Mempool) GetTransactions(hashes []chainhash.Hash) []*wire.Tx {
	out := make([]*wire.Tx, 0, len(hashes))
	for _, h := range hashes {
		if e, ok := m.pool.getByHash(h); ok {
			out = append(out, e.tx)
		}
	}
	return out
}

func networkMinFee(params state.NetworkParamsState, size int) *uint256.Uint256 {
	byteFee := params.MinTxByteFee.Mul(uint256.NewFromUint64(uint64(size)))
	return params.MinTxBaseFee.Add(byteFee)
}
