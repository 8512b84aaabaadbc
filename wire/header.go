// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
)

// HeaderVersion is the only header encoding version currently defined.
const HeaderVersion = 1

// BlockHeader is the fixed-size consensus-bearing summary of a Block.
// txRootHash commits to the ordered transaction list; stateRootHash
// commits to the world state *after* applying the block.  Difficulty is
// carried as a raw 256-bit target (not a Bitcoin-style compact float) so
// the ASERT rule of §4.6 can operate on it directly.
type BlockHeader struct {
	Version       uint32
	Height        uint64
	Timestamp     int64
	PreviousHash  chainhash.Hash
	TxRootHash    chainhash.Hash
	StateRootHash chainhash.Hash
	Difficulty    *uint256.Uint256
	Coinbase      Address
	Nonce         uint64
	Identity      Address
	Signature     Signature
}

// Encode writes the canonical, version-tagged encoding of the header.
func (h *BlockHeader) Encode(e *Encoder) {
	e.WriteVersion(HeaderVersion)
	e.WriteVarUint(uint64(h.Version))
	e.WriteVarUint(h.Height)
	e.WriteVarUint(uint64(h.Timestamp))
	e.WriteHash(h.PreviousHash)
	e.WriteHash(h.TxRootHash)
	e.WriteHash(h.StateRootHash)
	db := h.Difficulty.Bytes()
	e.WriteBytes(db[:])
	e.buf.Write(h.Coinbase[:])
	e.WriteVarUint(h.Nonce)
	e.buf.Write(h.Identity[:])
	e.buf.Write(h.Signature[:])
}

// DecodeBlockHeader reads a BlockHeader previously written by Encode.
func DecodeBlockHeader(d *Decoder) (*BlockHeader, error) {
	version, err := d.ReadVersion()
	if err != nil {
		return nil, err
	}
	switch version {
	case HeaderVersion:
		return decodeBlockHeaderV1(d)
	default:
		return nil, &ErrUnsupportedVersion{TypeName: "BlockHeader", Version: version}
	}
}

func decodeBlockHeaderV1(d *Decoder) (*BlockHeader, error) {
	h := &BlockHeader{}
	v, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	h.Version = uint32(v)
	if h.Height, err = d.ReadVarUint(); err != nil {
		return nil, err
	}
	ts, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	h.Timestamp = int64(ts)
	if h.PreviousHash, err = d.ReadHash(); err != nil {
		return nil, err
	}
	if h.TxRootHash, err = d.ReadHash(); err != nil {
		return nil, err
	}
	if h.StateRootHash, err = d.ReadHash(); err != nil {
		return nil, err
	}
	diffBytes, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	h.Difficulty = uint256.FromBytes(diffBytes)
	if h.Nonce, err = readNonceAfterAddresses(d, h); err != nil {
		return nil, err
	}
	return h, nil
}

// readNonceAfterAddresses reads Coinbase, Nonce, Identity and Signature in
// sequence; factored out only to keep decodeBlockHeaderV1 linear given the
// mixed fixed/varint layout.
func readNonceAfterAddresses(d *Decoder, h *BlockHeader) (uint64, error) {
	if err := readAddress(d, &h.Coinbase); err != nil {
		return 0, err
	}
	nonce, err := d.ReadVarUint()
	if err != nil {
		return 0, err
	}
	if err := readAddress(d, &h.Identity); err != nil {
		return 0, err
	}
	sigBuf := make([]byte, SignatureSize)
	if _, err := readFull(d, sigBuf); err != nil {
		return 0, err
	}
	copy(h.Signature[:], sigBuf)
	return nonce, nil
}

// Bytes returns the canonical encoding of the header.
func (h *BlockHeader) Bytes() []byte {
	e := NewEncoder()
	h.Encode(e)
	return e.Bytes()
}

// Hash returns the content hash of the header, which is the block hash.
func (h *BlockHeader) Hash() chainhash.Hash {
	return ContentHash(h.Bytes())
}

// SigningBytes returns the header encoding with the coinbase signature
// zeroed, the form signed by the identity key.
func (h *BlockHeader) SigningBytes() []byte {
	cp := *h
	cp.Signature = Signature{}
	e := NewEncoder()
	cp.Encode(e)
	return e.Bytes()
}

// MiningBytes returns the header encoding with Nonce, Identity, and
// Signature all zeroed: the portion of the header that is fixed across
// every nonce a miner tries. A Hasher combines this once-encoded prefix
// with each trial nonce directly, so a miner never re-encodes the whole
// header per attempt.
func (h *BlockHeader) MiningBytes() []byte {
	cp := *h
	cp.Nonce = 0
	cp.Identity = Address{}
	cp.Signature = Signature{}
	e := NewEncoder()
	cp.Encode(e)
	return e.Bytes()
}
