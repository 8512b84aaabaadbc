// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/EXCCoin/exccd/addrmgr"
	"github.com/EXCCoin/exccd/blockchain"
	"github.com/EXCCoin/exccd/chaincfg"
	"github.com/EXCCoin/exccd/connmgr"
	"github.com/EXCCoin/exccd/crypto"
	"github.com/EXCCoin/exccd/database"
	"github.com/EXCCoin/exccd/directory"
	"github.com/EXCCoin/exccd/eventbus"
	"github.com/EXCCoin/exccd/internal/mining"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/mempool"
	"github.com/EXCCoin/exccd/peer"
	"github.com/EXCCoin/exccd/reputation"
	"github.com/EXCCoin/exccd/trie"
	"github.com/EXCCoin/exccd/wire"
)

// trieCacheSize bounds the in-memory node cache sitting in front of the
// durable trie store; sized for a single-node deployment rather than
// tuned per network.
const trieCacheSize = 1 << 20

// node owns every long-lived component wired together at process start
// and the order they must shut down in.
type node struct {
	cfg    *config
	params *chaincfg.Params
	log    map[string]slog.Logger

	db    *database.DB
	bus   *eventbus.Bus
	chain *blockchain.BlockChain
	mpool *mempool.Mempool
	rep   *reputation.Store
	addrs *addrmgr.Manager
	dir   *directory.Client
	conn  *connmgr.ConnManager
	miner *mining.Miner

	syncMgr     *peer.SyncManager
	broadcaster *peer.Broadcaster
	peerCfg     peer.Config

	listener net.Listener

	// fatal carries a non-recoverable error (currently only
	// directory.ErrVersionTooOld) out to main's shutdown path. Buffered
	// by one so OnFatal never blocks the directory client's ping loop.
	fatal chan error

	peersMu sync.Mutex
	peers   map[wire.Address]*peer.Peer

	wg sync.WaitGroup
}

// newNode constructs every component but starts nothing; call Start to
// bring the node up.
func newNode(cfg *config, params *chaincfg.Params, signer *crypto.PrivateKeySigner, loggers map[string]slog.Logger) (*node, error) {
	db, err := database.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := trie.NewCacheStore(db, trieCacheSize)
	bus := eventbus.New()
	verifier := crypto.NewRecoveryVerifier()
	hasher := crypto.NewBlake2bHasher()

	chain, err := blockchain.New(params, db, store, bus, verifier, hasher)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init chain engine: %w", err)
	}

	minFee, err := parseUint256(cfg.Mempool.MinAcceptableFee)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("mempool.minacceptablefee: %w", err)
	}
	mpoolCfg := mempool.DefaultConfig()
	mpoolCfg.MaxBytes = cfg.Mempool.MaxBytes
	mpoolCfg.MaxCount = cfg.Mempool.MaxCount
	mpoolCfg.NodeMinAcceptableFee = minFee
	mpoolCfg.TTL = time.Duration(cfg.Mempool.TTLMs) * time.Millisecond
	mpool := mempool.New(chain, bus, verifier, mpoolCfg)

	rep := reputation.NewStore(db)
	addrs := addrmgr.New()

	var coinbase wire.Address
	if cfg.Mining.Coinbase != "" {
		raw, err := hex.DecodeString(cfg.Mining.Coinbase)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("mining.coinbase: %w", err)
		}
		coinbase, err = wire.AddressFromBytes(raw)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("mining.coinbase: %w", err)
		}
	} else {
		coinbase = signer.Address()
	}
	miner := mining.New(chain, mpool, hasher, signer, mining.Config{
		Enabled:  cfg.Mining.Enabled,
		Threads:  cfg.Mining.Threads,
		Coinbase: coinbase,
	})

	n := &node{
		cfg:         cfg,
		params:      params,
		log:         loggers,
		db:          db,
		bus:         bus,
		chain:       chain,
		mpool:       mpool,
		rep:         rep,
		addrs:       addrs,
		miner:       miner,
		syncMgr:     peer.NewSyncManager(chain, rep),
		broadcaster: peer.NewBroadcaster(),
		peers:       make(map[wire.Address]*peer.Peer),
		fatal:       make(chan error, 1),
	}

	server := peer.NewServer(chain, mpool)
	inbound := peer.NewInbound(chain, mpool, rep)
	n.peerCfg = peer.Config{
		LocalIdentity:      signer.Address(),
		NetworkID:          params.Net,
		ProtocolVersion:    params.ProtocolVersion,
		MinProtocolVersion: params.ProtocolVersion,
		SoftwareVersion:    softwareVersion,
		Signer:             signer,
		Verifier:           verifier,
		Chain:              chain,
		Mempool:            mpool,
		Reputation:         rep,
		HandshakeTimeout:   10 * time.Second,
		RequestTimeout:     peer.DefaultRequestTimeout,
		Hooks:              mergeHooks(server.Hooks(), inbound.Hooks(), n.onDisconnect),
	}

	if !cfg.Directory.Disable && params.DirectoryHost != "" {
		dcfg := directory.DefaultConfig()
		dcfg.Endpoint = params.DirectoryHost
		dcfg.ListenHost = cfg.P2P.Host
		dcfg.ListenPort = cfg.P2P.Port
		dcfg.ProtocolVersion = params.ProtocolVersion
		dcfg.SoftwareVersion = softwareVersion
		dcfg.NetworkID = params.Net
		dcfg.AllowLocalPeers = cfg.Directory.AllowLocalPeers
		if cfg.Directory.PingIntervalMs > 0 {
			dcfg.PingInterval = time.Duration(cfg.Directory.PingIntervalMs) * time.Millisecond
		}
		dcfg.OnPeersUpdated = n.onDirectoryPeersUpdated
		dcfg.OnFatal = n.onDirectoryFatal
		n.dir = directory.New(chain, signer, verifier, dcfg)
	}

	connCfg := newDialer(cfg)
	connCfg.TargetOutbound = cfg.P2P.MaxPeers
	connCfg.GetAddress = n.getDialCandidate
	connCfg.MarkAttempt = func(identity wire.Address) { addrs.MarkAttempt(identity, time.Now()) }
	connCfg.MarkGood = func(identity wire.Address) { addrs.MarkGood(identity, time.Now()) }
	connCfg.OnConnect = n.onOutboundConnect
	n.conn = connmgr.New(connCfg)

	bus.Subscribe(n.broadcaster.HandleEvent)
	bus.Subscribe(n.miner.HandleEvent)

	return n, nil
}

// mergeHooks combines the Server and Inbound handler sets (which answer
// disjoint message types) and attaches onDisconnect, since neither
// component has a reason to know about peer lifecycle.
func mergeHooks(server, inbound peer.Hooks, onDisconnect func(*peer.Peer)) peer.Hooks {
	h := server
	h.OnNewBlock = inbound.OnNewBlock
	h.OnNewMempoolTx = inbound.OnNewMempoolTx
	h.OnDisconnect = onDisconnect
	return h
}

func parseUint256(decimal string) (*uint256.Uint256, error) {
	if decimal == "" {
		return uint256.Zero(), nil
	}
	n, ok := new(big.Int).SetString(decimal, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", decimal)
	}
	return uint256.NewFromBig(n)
}

// getDialCandidate adapts addrmgr's known-address set to connmgr's
// excluded-identity view, folding in peers already registered with this
// node (which addrmgr's own bookkeeping does not track).
func (n *node) getDialCandidate(excluded map[wire.Address]struct{}) (addrmgr.KnownAddress, bool) {
	n.peersMu.Lock()
	for id := range n.peers {
		excluded[id] = struct{}{}
	}
	n.peersMu.Unlock()
	return n.addrs.GetAddress(excluded)
}

// onOutboundConnect completes the handshake connmgr's dialer opened and
// registers the resulting Peer everywhere a live connection is tracked.
func (n *node) onOutboundConnect(conn net.Conn, _ wire.Address) {
	p, err := peer.Handshake(conn, true, n.peerCfg, n.isConnected)
	if err != nil {
		n.log["PEER"].Warnf("outbound handshake failed: %v", err)
		conn.Close()
		return
	}
	n.registerPeer(p)
}

// acceptLoop answers inbound TCP connections with the same handshake
// outbound dials use; a peer either side initiates ends up with an
// identical *peer.Peer once past STATUS.
func (n *node) acceptLoop() {
	defer n.wg.Done()
	for {
		conn, err := n.listener.Accept()
		if err != nil {
			return
		}
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			p, err := peer.Handshake(conn, false, n.peerCfg, n.isConnected)
			if err != nil {
				n.log["PEER"].Warnf("inbound handshake failed: %v", err)
				conn.Close()
				return
			}
			n.registerPeer(p)
		}()
	}
}

func (n *node) isConnected(identity wire.Address) bool {
	n.peersMu.Lock()
	defer n.peersMu.Unlock()
	_, ok := n.peers[identity]
	return ok
}

func (n *node) registerPeer(p *peer.Peer) {
	n.peersMu.Lock()
	n.peers[p.Identity] = p
	n.peersMu.Unlock()
	n.syncMgr.AddPeer(p)
	n.broadcaster.AddPeer(p)
	n.log["PEER"].Infof("peer connected: %s (outbound=%v)", p.Identity, p.Outbound)
}

// onDisconnect is wired onto every Peer's Config.Hooks, invoked once
// from whichever pump goroutine first notices the connection is dead.
func (n *node) onDisconnect(p *peer.Peer) {
	n.peersMu.Lock()
	delete(n.peers, p.Identity)
	n.peersMu.Unlock()
	n.syncMgr.RemovePeer(p.Identity)
	n.broadcaster.RemovePeer(p.Identity)
	n.conn.Disconnected(p.Identity)
	n.log["PEER"].Infof("peer disconnected: %s", p.Identity)
}

// onDirectoryFatal relays a non-recoverable directory error to Fatal's
// caller; see the fatal field doc comment.
func (n *node) onDirectoryFatal(err error) {
	select {
	case n.fatal <- err:
	default:
	}
}

// Fatal returns the channel main's shutdown select watches for a
// non-recoverable error surfaced by a component after Start.
func (n *node) Fatal() <-chan error {
	return n.fatal
}

// onDirectoryPeersUpdated feeds the directory's merged peer set into
// addrmgr, the only place connmgr looks for dial candidates.
func (n *node) onDirectoryPeersUpdated(peers []directory.PeerAdvert) {
	for _, p := range peers {
		n.addrs.AddOrUpdate(p.Identity, p.Host, p.Port)
	}
}

// syncTicker drives SyncManager.Tick on the core scheduler's periodic
// timer until stopped.
func (n *node) syncTicker(ctx context.Context) {
	defer n.wg.Done()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := n.syncMgr.Tick(); err != nil {
				n.log["SYNC"].Debugf("sync tick: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Start brings the remaining components up: the P2P listener, the
// connection manager, the sync ticker, the miner, and any manual peers,
// in the order a fresh inbound connection could actually need them. The
// directory client is not started here: directory.New in newNode has
// already launched its ping loop.
func (n *node) Start(ctx context.Context) error {
	addr := net.JoinHostPort(n.cfg.P2P.Host, strconv.Itoa(int(n.cfg.P2P.Port)))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	n.listener = ln

	n.wg.Add(1)
	go n.acceptLoop()

	n.conn.Start()

	n.wg.Add(1)
	go n.syncTicker(ctx)

	n.miner.Start()

	for _, raw := range n.cfg.Directory.ManualPeers {
		n.wg.Add(1)
		go n.dialManualPeer(raw)
	}

	n.log["NODE"].Infof("listening on %s (network=%s)", addr, n.params.Name)
	return nil
}

// dialManualPeer dials a statically configured peer directly, bypassing
// addrmgr/connmgr's identity-keyed candidate selection since a manual
// peer's identity isn't known until the handshake completes.
func (n *node) dialManualPeer(hostport string) {
	defer n.wg.Done()
	conn, err := dialTCP(n.cfg, hostport)
	if err != nil {
		n.log["PEER"].Warnf("dial manual peer %s: %v", hostport, err)
		return
	}
	p, err := peer.Handshake(conn, true, n.peerCfg, n.isConnected)
	if err != nil {
		n.log["PEER"].Warnf("manual peer %s handshake failed: %v", hostport, err)
		conn.Close()
		return
	}
	n.registerPeer(p)
}

// Stop tears components down in the reverse of Start's dependency
// order: stop accepting and dialing new peers first, then the scheduler
// loops driving existing ones, then the miner, then the durable stores.
func (n *node) Stop() {
	if n.listener != nil {
		n.listener.Close()
	}
	n.conn.Stop()
	if n.dir != nil {
		n.dir.Stop()
	}

	n.peersMu.Lock()
	peers := make([]*peer.Peer, 0, len(n.peers))
	for _, p := range n.peers {
		peers = append(peers, p)
	}
	n.peersMu.Unlock()
	for _, p := range peers {
		p.Close()
	}

	n.miner.Stop()
	n.wg.Wait()

	if err := n.db.Close(); err != nil {
		n.log["NODE"].Errorf("close database: %v", err)
	}
}
