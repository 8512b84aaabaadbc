// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"github.com/EXCCoin/exccd/blockchain"
	"github.com/EXCCoin/exccd/mempool"
	"github.com/EXCCoin/exccd/wire"
)

// Server answers the request side of the sync protocol: GET_BLOCK_HEADERS,
// GET_BLOCK_BODIES, GET_MEMPOOL_HASHES, GET_MEMPOOL_TRANSACTIONS. Its
// methods are meant to be assigned directly onto a Config's Hooks.
type Server struct {
	chain   *blockchain.BlockChain
	mempool *mempool.Mempool
}

// NewServer builds a Server answering requests against chain and mp.
func NewServer(chain *blockchain.BlockChain, mp *mempool.Mempool) *Server {
	return &Server{chain: chain, mempool: mp}
}

// Hooks returns the subset of a peer.Hooks this Server answers, leaving
// every gossip/sync-response slot for the caller to fill in separately.
func (s *Server) Hooks() Hooks {
	return Hooks{
		OnGetBlockHeaders:        s.HandleGetBlockHeaders,
		OnGetBlockBodies:         s.HandleGetBlockBodies,
		OnGetMempoolHashes:       s.HandleGetMempoolHashes,
		OnGetMempoolTransactions: s.HandleGetMempoolTransactions,
	}
}

// HandleGetBlockHeaders answers a window request: up to msg.Count headers
// starting immediately after the anchor (FromHeight, or the height of
// FromHash if FromHeight is nil), walking in msg.Direction and honoring msg.Skip between
// included headers. Unknown anchors yield an empty response rather than an
// error, since a stale peer racing a local reorg is an expected condition,
// not a protocol violation.
func (s *Server) HandleGetBlockHeaders(p *Peer, msg *wire.MsgGetBlockHeaders) {
	startHeight, ok := s.resolveAnchorHeight(msg)
	if !ok {
		p.SendEssential(&wire.MsgBlockHeaders{})
		return
	}

	count := int(msg.Count)
	if count <= 0 || count > wire.MaxHeadersPerRequest {
		count = wire.MaxHeadersPerRequest
	}
	step := int64(msg.Skip) + 1

	headers := make([]*wire.BlockHeader, 0, count)
	height := int64(startHeight)
	for len(headers) < count {
		if msg.Direction == wire.DirectionDescending {
			height -= step
		} else {
			height += step
		}
		if height < 0 {
			break
		}
		hdr, ok, err := s.chain.HeaderAtHeight(uint64(height))
		if err != nil || !ok {
			break
		}
		headers = append(headers, hdr)
	}
	p.SendEssential(&wire.MsgBlockHeaders{Headers: headers})
}

// resolveAnchorHeight reports the height the walk in HandleGetBlockHeaders
// starts from: msg.FromHeight directly, or the height of the header named
// by msg.FromHash.
func (s *Server) resolveAnchorHeight(msg *wire.MsgGetBlockHeaders) (uint64, bool) {
	if msg.FromHeight != nil {
		return *msg.FromHeight, true
	}
	if msg.FromHash == nil {
		return 0, false
	}
	hdr, ok, err := s.chain.HeaderByHash(*msg.FromHash)
	if err != nil || !ok {
		return 0, false
	}
	return hdr.Height, true
}

// HandleGetBlockBodies answers with one transaction list per requested
// hash, in request order; a hash this node does not hold yields an empty
// (not missing) body so the response stays positionally aligned with the
// request.
func (s *Server) HandleGetBlockBodies(p *Peer, msg *wire.MsgGetBlockBodies) {
	bodies := make([][]*wire.Tx, len(msg.BlockHashes))
	for i, h := range msg.BlockHashes {
		blk, ok, err := s.chain.Block(h)
		if err != nil || !ok {
			bodies[i] = nil
			continue
		}
		bodies[i] = blk.Txs
	}
	p.SendEssential(&wire.MsgBlockBodies{Bodies: bodies})
}

// HandleGetMempoolHashes answers with the hashes of every transaction
// currently held in the mempool.
func (s *Server) HandleGetMempoolHashes(p *Peer, _ *wire.MsgGetMempoolHashes) {
	p.SendEssential(&wire.MsgMempoolHashes{Hashes: s.mempool.Hashes()})
}

// HandleGetMempoolTransactions answers with the (hash, tx) pairs for
// whichever of the requested hashes this node still holds; hashes already
// evicted or mined are silently omitted.
func (s *Server) HandleGetMempoolTransactions(p *Peer, msg *wire.MsgGetMempoolTransactions) {
	txs := s.mempool.GetTransactions(msg.Hashes)
	pairs := make([]wire.MempoolTxPair, len(txs))
	for i, tx := range txs {
		pairs[i] = wire.MempoolTxPair{Hash: tx.Hash(), Tx: tx}
	}
	p.SendEssential(&wire.MsgMempoolTransactions{Transactions: pairs})
}
