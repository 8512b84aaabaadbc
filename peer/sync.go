// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

// State returns the peer's current position in the sync state machine.
func (p *Peer) State() SyncState {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.state
}

func (p *Peer) setState(s SyncState) {
	p.stateMu.Lock()
	p.state = s
	p.stateMu.Unlock()
}
