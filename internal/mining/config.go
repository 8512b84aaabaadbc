// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mining implements the miner main loop and its hash worker
// pool: the component that turns a chain tip and a mempool into mined
// blocks. The hash function itself is injected as a crypto.Hasher; this
// package only ever calls through that interface and never computes a
// proof-of-work digest directly.
package mining

import "github.com/EXCCoin/exccd/wire"

// Config parameterizes a Miner, sourced from the node's mining.* config
// keys.
type Config struct {
	// Enabled is the mining.enabled master switch. Start is a no-op
	// when false.
	Enabled bool
	// Threads is the mining.threads hash worker count. A value <= 0 is
	// treated as 1 so an enabled miner always makes progress.
	Threads int
	// Coinbase receives the block reward and collected fees for every
	// block this miner successfully mines.
	Coinbase wire.Address
}
