// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"sync"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// nonceBatch bounds how many nonces a hash worker tries between checks
// of the stop signal, trading a small amount of wasted work after a
// restart for not paying a channel-select on every single hash.
const nonceBatch = 256

// searchNonce dispatches the proof-of-work search for candidate across
// threads hash workers and returns the first nonce any of them finds.
// Workers partition the nonce space by stride — worker i tries i, i +
// threads, i + 2*threads, ... — so no coordination is needed beyond the
// shared stop signal. ok is false if the search was aborted by a tip
// change or shutdown before any worker found a nonce.
func (m *Miner) searchNonce(candidate *wire.Block, threads int) (nonce uint64, ok bool) {
	prefix := candidate.Header.MiningBytes()
	target := candidate.Header.Difficulty

	stop := make(chan struct{})
	var (
		once  sync.Once
		wg    sync.WaitGroup
		found uint64
		won   bool
	)
	report := func(n uint64) {
		once.Do(func() {
			found, won = n, true
			close(stop)
		})
	}

	for i := 0; i < threads; i++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			m.hashWorker(prefix, target, start, uint64(threads), stop, report)
		}(uint64(i))
	}

	watchdog := make(chan struct{})
	go func() {
		defer close(watchdog)
		select {
		case <-m.restart:
			once.Do(func() { close(stop) })
		case <-m.quit:
			once.Do(func() { close(stop) })
		case <-stop:
		}
	}()

	wg.Wait()
	<-watchdog
	return found, won
}

// hashWorker is one of the miner hash workers: it tries every nonce
// congruent to start modulo stride against prefix, reporting the first
// one whose digest meets target. Go has no portable thread-priority
// knob, so "lowest priority" is expressed only as never blocking ahead
// of the rest of the node — each worker yields to stop every nonceBatch
// attempts rather than running an unbounded tight loop.
func (m *Miner) hashWorker(prefix []byte, target *uint256.Uint256, start, stride uint64, stop <-chan struct{}, report func(uint64)) {
	nonce := start
	for {
		for i := 0; i < nonceBatch; i++ {
			select {
			case <-stop:
				return
			default:
			}

			digest, err := m.hasher.Hash(prefix, nonce)
			if err == nil && meetsTarget(digest, target) {
				report(nonce)
				return
			}
			nonce += stride
		}
	}
}

// meetsTarget reports whether digest, read as a 256-bit number, is at
// or below target — the same lower-hash-is-harder check the Chain
// Engine applies when validating a received block's proof of work.
func meetsTarget(digest chainhash.Hash, target *uint256.Uint256) bool {
	return uint256.FromBytes(digest[:]).Cmp(target) <= 0
}
