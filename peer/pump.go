// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"errors"
	"io"

	"github.com/EXCCoin/exccd/wire"
)

// Send enqueues msg for delivery, dropping it immediately if the
// outbound queue is full — the flow-control policy for non-essential
// traffic (gossip) under backpressure (§4.8).
func (p *Peer) Send(msg wire.Message) {
	select {
	case p.outbound <- queuedMsg{msg: msg, essential: false}:
	default:
	}
}

// SendEssential enqueues msg for delivery, blocking (up to the peer's
// lifetime) rather than dropping it — used for handshake-adjacent
// traffic and direct responses the remote is actively awaiting.
func (p *Peer) SendEssential(msg wire.Message) {
	select {
	case p.outbound <- queuedMsg{msg: msg, essential: true}:
	case <-p.quit:
	}
}

// Close terminates the connection and both pumps.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.conn.Close()
		if p.cfg.Hooks.OnDisconnect != nil {
			p.cfg.Hooks.OnDisconnect(p)
		}
	})
}

func (p *Peer) writeLoop() {
	for {
		select {
		case qm := <-p.outbound:
			if err := wire.WriteFrame(p.conn, wire.EncodeMessage(qm.msg)); err != nil {
				p.Close()
				return
			}
		case <-p.quit:
			return
		}
	}
}

func (p *Peer) readLoop() {
	for {
		payload, err := wire.ReadFrame(p.conn)
		if err != nil {
			if p.cfg.Reputation != nil && !errors.Is(err, io.EOF) {
				_ = p.cfg.Reputation.RecordFailure(p.Identity, nowUnix())
			}
			p.Close()
			return
		}
		msg, err := wire.DecodeMessage(payload)
		if err != nil {
			if p.cfg.Reputation != nil {
				_ = p.cfg.Reputation.RecordFailure(p.Identity, nowUnix())
			}
			p.Close()
			return
		}
		p.dispatch(msg)
	}
}

// dispatch routes an inbound message either to a waiting request/response
// correlator (see AwaitResponse) or to the configured Hooks.
func (p *Peer) dispatch(msg wire.Message) {
	if ch, ok := p.pending.LoadAndDelete(msg.Command()); ok {
		ch.(chan wire.Message) <- msg
		return
	}

	h := p.cfg.Hooks
	switch m := msg.(type) {
	case *wire.MsgPing:
		pong := wire.MsgPong(*m)
		p.SendEssential(&pong)
	case *wire.MsgPong:
		// keepalive reply; no action needed.
	case *wire.MsgNewBlock:
		if h.OnNewBlock != nil {
			h.OnNewBlock(p, m.Block)
		}
	case *wire.MsgNewMempoolTx:
		if h.OnNewMempoolTx != nil {
			h.OnNewMempoolTx(p, m.Tx)
		}
	case *wire.MsgGetBlockHeaders:
		if h.OnGetBlockHeaders != nil {
			h.OnGetBlockHeaders(p, m)
		}
	case *wire.MsgBlockHeaders:
		if h.OnBlockHeaders != nil {
			h.OnBlockHeaders(p, m)
		}
	case *wire.MsgGetBlockBodies:
		if h.OnGetBlockBodies != nil {
			h.OnGetBlockBodies(p, m)
		}
	case *wire.MsgBlockBodies:
		if h.OnBlockBodies != nil {
			h.OnBlockBodies(p, m)
		}
	case *wire.MsgGetMempoolHashes:
		if h.OnGetMempoolHashes != nil {
			h.OnGetMempoolHashes(p, m)
		}
	case *wire.MsgMempoolHashes:
		if h.OnMempoolHashes != nil {
			h.OnMempoolHashes(p, m)
		}
	case *wire.MsgGetMempoolTransactions:
		if h.OnGetMempoolTransactions != nil {
			h.OnGetMempoolTransactions(p, m)
		}
	case *wire.MsgMempoolTransactions:
		if h.OnMempoolTransactions != nil {
			h.OnMempoolTransactions(p, m)
		}
	}
}

// awaitResponse registers a one-shot correlator for the next message of
// typ, sends req, and waits up to the peer's RequestTimeout for a
// response. Only one request of a given type may be outstanding at a
// time per peer, which the sync state machine's serialized
// Headers-then-Bodies flow already guarantees.
func (p *Peer) awaitResponse(req wire.Message, typ wire.MessageType) (wire.Message, error) {
	ch := make(chan wire.Message, 1)
	p.pending.Store(typ, ch)
	defer p.pending.Delete(typ)

	p.SendEssential(req)

	timeout := p.cfg.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	select {
	case resp := <-ch:
		return resp, nil
	case <-timeoutChan(timeout):
		if p.cfg.Reputation != nil {
			_ = p.cfg.Reputation.RecordFailure(p.Identity, nowUnix())
		}
		return nil, errRequestTimeout
	case <-p.quit:
		return nil, errPeerClosed
	}
}
