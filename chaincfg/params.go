// Copyright (c) 2018 The ExchangeCoin team
// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the chain-wide parameters for each supported
// network (genesis block, consensus constants, governance defaults).  A
// single immutable *Params value is threaded explicitly through every
// constructor that needs it; nothing in this tree keeps a package-level
// mutable "active network" the way some legacy full nodes do (§9).
package chaincfg

import (
	"math/big"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

// DNSSeed identifies a DNS seed used to bootstrap the peer address table
// when the directory registry is disabled or unreachable.
type DNSSeed struct {
	Host string
	OnionSupported bool
}

// GenesisMintEntry credits a single address with an initial balance of
// the native token in the genesis block, the account-model analogue of
// the teacher's block-one coinbase ledger.
type GenesisMintEntry struct {
	Address wire.Address
	Amount  *uint256.Uint256
}

// Params groups every network-specific and consensus-bearing constant
// needed by the chain engine, mempool, and P2P transport.
type Params struct {
	// Name is the human-readable network name ("mainnet", "testnet", ...).
	Name string
	// Net is the magic value exchanged in the STATUS handshake.
	Net uint32
	// DefaultPort is the default P2P listen port for this network.
	DefaultPort string
	// DNSSeeds bootstraps the peer address table.
	DNSSeeds []DNSSeed

	// GenesisBlock is the network's block at height 0.
	GenesisBlock *wire.Block
	// GenesisHash is the precomputed hash of GenesisBlock.
	GenesisHash chainhash.Hash
	// GenesisMint credits the listed addresses as part of applying the
	// genesis block, standing in for a traditional block-one ledger.
	GenesisMint []GenesisMintEntry

	// MaxTxSize bounds the encoded size of a single transaction.
	MaxTxSize int
	// MaxTxCountPerBlockBase and MaxBlockSizeBytesBase bound a block's
	// contents; both may grow with height via MaxTxCountPerBlock and
	// MaxBlockSize below, but are constant for every network
	// currently defined.
	MaxTxCountPerBlockBase int
	MaxBlockSizeBytesBase  int

	// Initial network parameters, mutable thereafter only via an accepted
	// BIP_NETWORK_PARAMS_SET (§3 NetworkParamsState).
	BlockReward            *uint256.Uint256
	BlockRewardPoolAddress wire.Address
	TargetMiningTimeMs     uint64
	AsertHalfLifeBlocks    uint64
	AsertAnchorHeight      uint64
	MinDifficulty          *uint256.Uint256
	MinTxBaseFee           *uint256.Uint256
	MinTxByteFee           *uint256.Uint256

	// BipExpirationPeriodMs is how long a PENDING BIP remains votable.
	BipExpirationPeriodMs int64
	// BipApprovalThresholdBps is the approval fraction in basis points
	// (e.g. 6667 == 66.67%) applied to the current authority count to
	// derive the number of required votes.
	BipApprovalThresholdBps uint32

	// InitialAuthorities seeds the authority set at genesis.
	InitialAuthorities []wire.Address

	// ClockSkewToleranceMs bounds how far in the future a block's
	// timestamp may be relative to local time.
	ClockSkewToleranceMs int64

	// ProtocolVersion is the P2P protocol version advertised in STATUS;
	// the handshake rejects a peer advertising a different major
	// version (high 16 bits).
	ProtocolVersion uint32

	// DirectoryHost, when non-empty, is the default directory registry
	// endpoint for this network.
	DirectoryHost string
}

// bigOne is 1 represented as a big.Int; no per-network parameter file
// currently uses it.
var bigOne = big.NewInt(1)

// MaxTxCountPerBlock returns the maximum number of transactions a block at
// the given height may carry.  It is constant across all currently
// defined networks but kept as a height-taking function so a future
// height-gated increase does not change the signature.
func (p *Params) MaxTxCountPerBlock(height uint64) int {
	return p.MaxTxCountPerBlockBase
}

// MaxBlockSize returns the maximum total encoded size, in bytes, a block
// at the given height may occupy (header + all transaction bytes).
func (p *Params) MaxBlockSize(height uint64) int {
	return p.MaxBlockSizeBytesBase
}

// RequiredBipVotes returns the number of approving votes a BIP needs
// given the current authority count.
//
// BipApprovalThresholdBps is itself an upward-rounded decimal
// approximation of the true fraction it names (2/3 is encoded as 6667,
// since 6666.67 isn't representable in integer basis points); rounding
// the vote count up too, via ceiling division, would double that
// rounding error and inflate the requirement whenever the authority
// count evenly divides the fraction's denominator (3 authorities at
// 6667bps would need ceil(2.0001) = 3 votes rather than the 2 the
// fraction actually names). Truncating instead recovers the exact
// fraction's requirement in that case while still requiring at least
// one vote.
func (p *Params) RequiredBipVotes(currentAuthorityCount uint32) uint32 {
	required := uint64(currentAuthorityCount) * uint64(p.BipApprovalThresholdBps) / 10000
	if required < 1 {
		required = 1
	}
	return uint32(required)
}
