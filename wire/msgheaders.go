// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "github.com/EXCCoin/exccd/chaincfg/chainhash"

// HeaderDirection selects which way a GET_BLOCK_HEADERS window walks from
// its starting point.
type HeaderDirection uint8

// Supported directions.
const (
	DirectionAscending HeaderDirection = iota + 1
	DirectionDescending
)

// MaxHeadersPerRequest bounds a single GET_BLOCK_HEADERS window, matching
// the sync manager's per-request window size (§4.8).
const MaxHeadersPerRequest = 192

// MsgGetBlockHeaders requests a window of headers, anchored either on a
// hash or a height.
type MsgGetBlockHeaders struct {
	FromHash   *chainhash.Hash
	FromHeight *uint64
	Count      uint32
	Direction  HeaderDirection
	Skip       uint32
}

// Command implements Message.
func (m *MsgGetBlockHeaders) Command() MessageType { return MsgTypeGetBlockHeaders }

// Encode implements Message.
func (m *MsgGetBlockHeaders) Encode(e *Encoder) {
	e.WriteOptionalHash(m.FromHash)
	if m.FromHeight == nil {
		e.buf.WriteByte(emptyMarker)
	} else {
		e.buf.WriteByte(presentMarker)
		e.WriteVarUint(*m.FromHeight)
	}
	e.WriteVarUint(uint64(m.Count))
	e.buf.WriteByte(byte(m.Direction))
	e.WriteVarUint(uint64(m.Skip))
}

func decodeGetBlockHeaders(d *Decoder) (*MsgGetBlockHeaders, error) {
	m := &MsgGetBlockHeaders{}
	var err error
	if m.FromHash, err = d.ReadOptionalHash(); err != nil {
		return nil, err
	}
	hasHeight, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if hasHeight == presentMarker {
		h, err := d.ReadVarUint()
		if err != nil {
			return nil, err
		}
		m.FromHeight = &h
	}
	count, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	m.Count = uint32(count)
	dirb, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	m.Direction = HeaderDirection(dirb)
	skip, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	m.Skip = uint32(skip)
	return m, nil
}

// MsgBlockHeaders responds to MsgGetBlockHeaders with an ordered list of
// headers.
type MsgBlockHeaders struct {
	Headers []*BlockHeader
}

// Command implements Message.
func (m *MsgBlockHeaders) Command() MessageType { return MsgTypeBlockHeaders }

// Encode implements Message.
func (m *MsgBlockHeaders) Encode(e *Encoder) {
	e.WriteListLen(len(m.Headers))
	for _, h := range m.Headers {
		h.Encode(e)
	}
}

func decodeBlockHeaders(d *Decoder) (*MsgBlockHeaders, error) {
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	headers := make([]*BlockHeader, n)
	for i := 0; i < n; i++ {
		h, err := DecodeBlockHeader(d)
		if err != nil {
			return nil, err
		}
		headers[i] = h
	}
	return &MsgBlockHeaders{Headers: headers}, nil
}

// MsgGetBlockBodies requests the transaction lists for a set of block
// hashes previously learned via headers.
type MsgGetBlockBodies struct {
	BlockHashes []chainhash.Hash
}

// Command implements Message.
func (m *MsgGetBlockBodies) Command() MessageType { return MsgTypeGetBlockBodies }

// Encode implements Message.
func (m *MsgGetBlockBodies) Encode(e *Encoder) {
	e.WriteListLen(len(m.BlockHashes))
	for _, h := range m.BlockHashes {
		e.WriteHash(h)
	}
}

func decodeGetBlockBodies(d *Decoder) (*MsgGetBlockBodies, error) {
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	hashes := make([]chainhash.Hash, n)
	for i := 0; i < n; i++ {
		h, err := d.ReadHash()
		if err != nil {
			return nil, err
		}
		hashes[i] = h
	}
	return &MsgGetBlockBodies{BlockHashes: hashes}, nil
}

// MsgBlockBodies responds to MsgGetBlockBodies with one ordered
// transaction list per requested hash, in request order.
type MsgBlockBodies struct {
	Bodies [][]*Tx
}

// Command implements Message.
func (m *MsgBlockBodies) Command() MessageType { return MsgTypeBlockBodies }

// Encode implements Message.
func (m *MsgBlockBodies) Encode(e *Encoder) {
	e.WriteListLen(len(m.Bodies))
	for _, body := range m.Bodies {
		e.WriteListLen(len(body))
		for _, tx := range body {
			tx.Encode(e)
		}
	}
}

func decodeBlockBodies(d *Decoder) (*MsgBlockBodies, error) {
	n, err := d.ReadListLen()
	if err != nil {
		return nil, err
	}
	bodies := make([][]*Tx, n)
	for i := 0; i < n; i++ {
		m, err := d.ReadListLen()
		if err != nil {
			return nil, err
		}
		body := make([]*Tx, m)
		for j := 0; j < m; j++ {
			tx, err := DecodeTx(d)
			if err != nil {
				return nil, err
			}
			body[j] = tx
		}
		bodies[i] = body
	}
	return &MsgBlockBodies{Bodies: bodies}, nil
}
