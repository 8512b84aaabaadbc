// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"fmt"
	"sync"
	"time"

	"github.com/EXCCoin/exccd/blockchain"
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/reputation"
	"github.com/EXCCoin/exccd/wire"
)

// maxForkSearchSteps bounds how far back the sync manager will walk
// looking for a common ancestor once a peer's headers don't extend the
// local tip directly. A production sync manager narrows this with an
// exponential/binary search; this node does a bounded linear walk, which
// is adequate for the shallow reorgs this chain's fork choice expects
// and simpler to reason about.
const maxForkSearchSteps = 64

// SyncManager selects among connected peers and drives the per-peer
// header/body sync state machine (§4.8).
type SyncManager struct {
	chain      *blockchain.BlockChain
	reputation *reputation.Store

	mu       sync.Mutex
	peers    map[wire.Address]*Peer
	lastUsed map[wire.Address]time.Time
}

// NewSyncManager constructs a SyncManager bound to chain. Mempool
// reconciliation after a reorg needs no wiring here: the mempool package
// subscribes to BlockDisconnectedEvent itself and re-validates affected
// transactions against the new tip independently of who drove the reorg.
func NewSyncManager(chain *blockchain.BlockChain, rep *reputation.Store) *SyncManager {
	return &SyncManager{
		chain:      chain,
		reputation: rep,
		peers:      make(map[wire.Address]*Peer),
		lastUsed:   make(map[wire.Address]time.Time),
	}
}

// AddPeer registers p as a sync candidate.
func (sm *SyncManager) AddPeer(p *Peer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.peers[p.Identity] = p
}

// RemovePeer drops identity from consideration.
func (sm *SyncManager) RemovePeer(identity wire.Address) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.peers, identity)
	delete(sm.lastUsed, identity)
}

// Tick selects a peer to sync from, if any looks ahead of the local
// chain, and runs one header/body window against it. Callers drive this
// from the core scheduler's periodic timer; repeated calls pull the
// node forward one window at a time until no peer remains ahead.
func (sm *SyncManager) Tick() error {
	p, ok := sm.selectPeer()
	if !ok {
		return nil
	}
	return sm.syncOnce(p)
}

// selectPeer picks the best candidate: greater total difficulty than
// ours, highest reputation score, least-recently-used as the tiebreak
// (§4.8 Sync state machine).
func (sm *SyncManager) selectPeer() (*Peer, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	_, _, localDiff := sm.chain.Tip()
	now := time.Now()

	var best *Peer
	var bestScore int32
	var bestUsed time.Time
	for identity, p := range sm.peers {
		if p.State() != StateIdle {
			continue
		}
		if p.remoteStatus.TotalDifficulty.Cmp(localDiff) <= 0 {
			continue
		}
		score := int32(0)
		if sm.reputation != nil {
			score, _ = sm.reputation.ReliabilityScore(identity, now.Unix())
		}
		used := sm.lastUsed[identity]
		if best == nil || score > bestScore || (score == bestScore && used.Before(bestUsed)) {
			best, bestScore, bestUsed = p, score, used
		}
	}
	if best == nil {
		return nil, false
	}
	sm.lastUsed[best.Identity] = now
	return best, true
}

func (sm *SyncManager) syncOnce(p *Peer) error {
	localHash, localHeight, _ := sm.chain.Tip()

	p.setState(StateHeadersRequested)
	headers, err := sm.requestHeaders(p, localHash)
	if err != nil {
		p.setState(StateIdle)
		return err
	}
	if len(headers) == 0 {
		p.setState(StateIdle)
		return nil
	}

	commonAncestor := localHash
	startHeight := localHeight
	if headers[0].PreviousHash != localHash {
		commonAncestor, startHeight, err = sm.findCommonAncestor(p, localHeight)
		if err != nil {
			p.setState(StateIdle)
			sm.penalize(p)
			return err
		}
		headers, err = sm.requestHeaders(p, commonAncestor)
		if err != nil {
			p.setState(StateIdle)
			return err
		}
	}
	_ = startHeight

	if err := validateHeaderContinuity(commonAncestor, headers); err != nil {
		p.setState(StateIdle)
		sm.penalize(p)
		return err
	}

	p.setState(StateBodiesRequested)
	hashes := make([]chainhash.Hash, len(headers))
	for i, h := range headers {
		hashes[i] = h.Hash()
	}
	bodiesMsg, err := p.awaitResponse(&wire.MsgGetBlockBodies{BlockHashes: hashes}, wire.MsgTypeBlockBodies)
	if err != nil {
		p.setState(StateIdle)
		return err
	}
	bodies, ok := bodiesMsg.(*wire.MsgBlockBodies)
	if !ok || len(bodies.Bodies) != len(headers) {
		p.setState(StateIdle)
		sm.penalize(p)
		return fmt.Errorf("peer: block bodies response mismatched headers")
	}

	p.setState(StateValidating)
	blocks := make([]*wire.Block, len(headers))
	for i, h := range headers {
		blocks[i] = &wire.Block{Header: *h, Txs: bodies.Bodies[i]}
	}

	if commonAncestor == localHash {
		for _, blk := range blocks {
			if err := sm.chain.ConnectBlock(blk, wire.SourceSync); err != nil {
				p.setState(StateIdle)
				sm.penalize(p)
				return err
			}
		}
	} else {
		if err := sm.chain.ExecuteAtomicReorgSwap(commonAncestor, blocks, wire.SourceSync); err != nil {
			p.setState(StateIdle)
			sm.penalize(p)
			return err
		}
	}

	if sm.reputation != nil {
		_ = sm.reputation.RecordSuccess(p.Identity, time.Now().Unix())
	}
	p.setState(StateIdle)
	return nil
}

func (sm *SyncManager) requestHeaders(p *Peer, fromHash chainhash.Hash) ([]*wire.BlockHeader, error) {
	req := &wire.MsgGetBlockHeaders{
		FromHash:  &fromHash,
		Count:     wire.MaxHeadersPerRequest,
		Direction: wire.DirectionAscending,
	}
	resp, err := p.awaitResponse(req, wire.MsgTypeBlockHeaders)
	if err != nil {
		return nil, err
	}
	hdrs, ok := resp.(*wire.MsgBlockHeaders)
	if !ok {
		return nil, fmt.Errorf("peer: expected BLOCK_HEADERS response")
	}
	return hdrs.Headers, nil
}

// findCommonAncestor walks backward from localHeight, asking p at each
// candidate height for the headers that follow this node's own header
// there, until p's first returned header extends it or
// maxForkSearchSteps is exhausted.
func (sm *SyncManager) findCommonAncestor(p *Peer, localHeight uint64) (chainhash.Hash, uint64, error) {
	height := localHeight
	for step := 0; step < maxForkSearchSteps && height > 0; step++ {
		height--
		localHdr, ok, err := sm.chain.HeaderAtHeight(height)
		if err != nil {
			return chainhash.Zero, 0, err
		}
		if !ok {
			continue
		}
		localHash := localHdr.Hash()

		remote, err := sm.requestHeaders(p, localHash)
		if err != nil {
			return chainhash.Zero, 0, err
		}
		if len(remote) > 0 && remote[0].PreviousHash == localHash {
			return localHash, height, nil
		}
	}
	return chainhash.Zero, 0, fmt.Errorf("peer: no common ancestor found within %d blocks", maxForkSearchSteps)
}

func validateHeaderContinuity(ancestor chainhash.Hash, headers []*wire.BlockHeader) error {
	prev := ancestor
	for _, h := range headers {
		if h.PreviousHash != prev {
			return fmt.Errorf("peer: header chain discontinuity at height %d", h.Height)
		}
		prev = h.Hash()
	}
	return nil
}

func (sm *SyncManager) penalize(p *Peer) {
	if sm.reputation != nil {
		_ = sm.reputation.RecordFailure(p.Identity, time.Now().Unix())
	}
}
