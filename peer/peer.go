// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer implements the per-connection P2P message pump: framing,
// the STATUS handshake, flow-controlled outbound delivery, and the
// per-peer sync state machine.
package peer

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/EXCCoin/exccd/blockchain"
	"github.com/EXCCoin/exccd/crypto"
	"github.com/EXCCoin/exccd/mempool"
	"github.com/EXCCoin/exccd/reputation"
	"github.com/EXCCoin/exccd/wire"
)

// SyncState is this peer's position in the header/body sync state
// machine (§4.8): Idle -> HeadersRequested -> BodiesRequested ->
// Validating -> Idle.
type SyncState uint8

// Recognized sync states.
const (
	StateIdle SyncState = iota + 1
	StateHeadersRequested
	StateBodiesRequested
	StateValidating
)

// DefaultRequestTimeout is the per-request timeout applied to
// GET_BLOCK_HEADERS/GET_BLOCK_BODIES round trips (§5).
const DefaultRequestTimeout = 15 * time.Second

// OutboundQueueSize bounds the per-peer outbound message queue; once
// full, non-essential messages (mempool gossip) are dropped rather than
// blocking the sender (§4.8 Flow control).
const OutboundQueueSize = 256

// Hooks are the callbacks a Peer invokes as messages arrive. All are
// optional; a nil hook silently ignores the corresponding message.
type Hooks struct {
	OnNewBlock              func(p *Peer, block *wire.Block)
	OnNewMempoolTx           func(p *Peer, tx *wire.Tx)
	OnGetBlockHeaders        func(p *Peer, msg *wire.MsgGetBlockHeaders)
	OnBlockHeaders           func(p *Peer, msg *wire.MsgBlockHeaders)
	OnGetBlockBodies         func(p *Peer, msg *wire.MsgGetBlockBodies)
	OnBlockBodies            func(p *Peer, msg *wire.MsgBlockBodies)
	OnGetMempoolHashes       func(p *Peer, msg *wire.MsgGetMempoolHashes)
	OnMempoolHashes          func(p *Peer, msg *wire.MsgMempoolHashes)
	OnGetMempoolTransactions func(p *Peer, msg *wire.MsgGetMempoolTransactions)
	OnMempoolTransactions    func(p *Peer, msg *wire.MsgMempoolTransactions)
	// OnDisconnect is called once, from the goroutine that detects the
	// connection is no longer usable.
	OnDisconnect func(p *Peer)
}

// Config parameterizes every Peer spun up by this node.
type Config struct {
	LocalIdentity   wire.Address
	NetworkID       uint32
	ProtocolVersion uint32
	MinProtocolVersion uint32
	SoftwareVersion string

	Signer   crypto.Signer
	Verifier crypto.Verifier
	Chain    *blockchain.BlockChain
	Mempool  *mempool.Mempool
	Reputation *reputation.Store

	HandshakeTimeout time.Duration
	RequestTimeout   time.Duration

	Hooks Hooks
}

// queuedMsg is one outbound message awaiting the write pump; essential
// messages (handshake, responses the remote is actively waiting on) are
// never dropped under backpressure, unlike gossip.
type queuedMsg struct {
	msg       wire.Message
	essential bool
}

// Peer is one live P2P connection, inbound or outbound, past handshake.
type Peer struct {
	conn     net.Conn
	cfg      Config
	Identity wire.Address
	Outbound bool

	remoteStatus *wire.MsgStatus

	outbound chan queuedMsg
	quit     chan struct{}
	closeOnce sync.Once

	stateMu sync.Mutex
	state   SyncState

	pending sync.Map // map[MessageType]chan wire.Message, for request/response correlation
}

// Handshake performs the STATUS exchange over conn and, on success,
// starts the peer's read/write pumps and returns the live Peer. alreadyConnected
// reports whether identity is already connected to this node, used to
// enforce the "nodeIdentity not already connected" handshake rule.
func Handshake(conn net.Conn, outbound bool, cfg Config, alreadyConnected func(wire.Address) bool) (*Peer, error) {
	timeout := cfg.HandshakeTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	deadline := time.Now().Add(timeout)
	_ = conn.SetDeadline(deadline)
	defer conn.SetDeadline(time.Time{})

	headHash, headHeight, totalDifficulty := cfg.Chain.Tip()
	localStatus := &wire.MsgStatus{
		NetworkID:       cfg.NetworkID,
		ProtocolVersion: cfg.ProtocolVersion,
		SoftwareVersion: cfg.SoftwareVersion,
		NodeIdentity:    cfg.LocalIdentity,
		TotalDifficulty: totalDifficulty,
		Timestamp:       time.Now().Unix(),
		HeadHash:        headHash,
		HeadHeight:      headHeight,
	}
	hash := wire.ContentHash(localStatus.SigningBytes())
	sig, err := cfg.Signer.Sign(hash)
	if err != nil {
		return nil, fmt.Errorf("peer: sign status: %w", err)
	}
	localStatus.Signature = sig

	if err := wire.WriteFrame(conn, wire.EncodeMessage(localStatus)); err != nil {
		return nil, fmt.Errorf("peer: write status: %w", err)
	}

	payload, err := wire.ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("peer: read status: %w", err)
	}
	msg, err := wire.DecodeMessage(payload)
	if err != nil {
		return nil, fmt.Errorf("peer: decode status: %w", err)
	}
	remote, ok := msg.(*wire.MsgStatus)
	if !ok {
		return nil, fmt.Errorf("peer: expected STATUS, got %T", msg)
	}

	if remote.NetworkID != cfg.NetworkID {
		return nil, fmt.Errorf("peer: network mismatch: local=%d remote=%d", cfg.NetworkID, remote.NetworkID)
	}
	if remote.ProtocolVersion < cfg.MinProtocolVersion {
		return nil, fmt.Errorf("peer: protocol version %d below minimum %d", remote.ProtocolVersion, cfg.MinProtocolVersion)
	}
	remoteHash := wire.ContentHash(remote.SigningBytes())
	recovered, err := cfg.Verifier.RecoverAddress(remoteHash, remote.Signature)
	if err != nil {
		return nil, fmt.Errorf("peer: recover status signer: %w", err)
	}
	if recovered != remote.NodeIdentity {
		return nil, fmt.Errorf("peer: status signature does not match claimed identity")
	}
	if alreadyConnected != nil && alreadyConnected(remote.NodeIdentity) {
		return nil, fmt.Errorf("peer: identity %s already connected", remote.NodeIdentity)
	}

	p := &Peer{
		conn:         conn,
		cfg:          cfg,
		Identity:     remote.NodeIdentity,
		Outbound:     outbound,
		remoteStatus: remote,
		outbound:     make(chan queuedMsg, OutboundQueueSize),
		quit:         make(chan struct{}),
		state:        StateIdle,
	}
	go p.readLoop()
	go p.writeLoop()
	return p, nil
}
