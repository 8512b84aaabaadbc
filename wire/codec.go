// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
)

// The canonical codec is a length-prefixed, self-describing list/leaf
// binary format.  It has five primitives:
//
//   - byte-strings of arbitrary length, encoded as a varint length
//     followed by the raw bytes;
//   - big-endian integer scalars, minimally encoded (no leading zero
//     bytes) and themselves length-prefixed as a byte-string;
//   - fixed 32-byte hash blobs, encoded without a length prefix since the
//     size is implicit;
//   - lists, encoded as a varint count followed by that many encoded
//     elements;
//   - a reserved "empty" marker byte used to encode optional values.
//
// Every versioned type additionally prepends a version scalar ahead of its
// fields; decoders dispatch on that version to a registered decoding
// strategy and fail with ErrUnsupportedVersion if none is registered.
const (
	emptyMarker byte = 0x00
	presentMarker byte = 0x01
)

// ErrUnsupportedVersion is returned by a versioned decoder when it
// encounters a version tag with no registered decoding strategy.
type ErrUnsupportedVersion struct {
	TypeName string
	Version  uint64
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("wire: unsupported %s version %d", e.TypeName, e.Version)
}

// Encoder accumulates canonical-codec output.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns a fresh Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

// WriteVarUint writes n as a minimally-encoded big-endian varint: one
// length byte (number of following big-endian bytes, 0 for the value
// zero) followed by that many bytes.
func (e *Encoder) WriteVarUint(n uint64) {
	if n == 0 {
		e.buf.WriteByte(0)
		return
	}
	var tmp [8]byte
	i := 8
	for n > 0 {
		i--
		tmp[i] = byte(n)
		n >>= 8
	}
	b := tmp[i:]
	e.buf.WriteByte(byte(len(b)))
	e.buf.Write(b)
}

// WriteBytes writes a length-prefixed byte string.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteVarUint(uint64(len(b)))
	e.buf.Write(b)
}

// WriteHash writes a fixed 32-byte hash with no length prefix.
func (e *Encoder) WriteHash(h chainhash.Hash) {
	e.buf.Write(h[:])
}

// WriteOptionalHash writes either the empty marker or a present marker
// followed by the hash bytes.
func (e *Encoder) WriteOptionalHash(h *chainhash.Hash) {
	if h == nil {
		e.buf.WriteByte(emptyMarker)
		return
	}
	e.buf.WriteByte(presentMarker)
	e.WriteHash(*h)
}

// WriteOptionalBytes writes either the empty marker or a present marker
// followed by a length-prefixed byte string.
func (e *Encoder) WriteOptionalBytes(b []byte) {
	if b == nil {
		e.buf.WriteByte(emptyMarker)
		return
	}
	e.buf.WriteByte(presentMarker)
	e.WriteBytes(b)
}

// WriteListLen writes a list's element count; callers write the elements
// themselves immediately afterward.
func (e *Encoder) WriteListLen(n int) {
	e.WriteVarUint(uint64(n))
}

// WriteVersion writes a type's version tag; it must be the first thing
// written by any versioned Encode method.
func (e *Encoder) WriteVersion(v uint64) {
	e.WriteVarUint(v)
}

// Decoder consumes canonical-codec input.
type Decoder struct {
	r *bytes.Reader
}

// NewDecoder returns a Decoder reading from b.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{r: bytes.NewReader(b)}
}

// ReadVarUint reads a minimally-encoded big-endian varint.
func (d *Decoder) ReadVarUint() (uint64, error) {
	lb, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if lb == 0 {
		return 0, nil
	}
	if lb > 8 {
		return 0, fmt.Errorf("wire: varint length byte %d exceeds 8", lb)
	}
	buf := make([]byte, lb)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return 0, err
	}
	var n uint64
	for _, b := range buf {
		n = n<<8 | uint64(b)
	}
	return n, nil
}

// ReadBytes reads a length-prefixed byte string.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	const maxReasonable = 64 << 20
	if n > maxReasonable {
		return nil, fmt.Errorf("wire: byte string length %d too large", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadHash reads a fixed 32-byte hash.
func (d *Decoder) ReadHash() (chainhash.Hash, error) {
	var h chainhash.Hash
	if _, err := io.ReadFull(d.r, h[:]); err != nil {
		return h, err
	}
	return h, nil
}

// ReadOptionalHash reads an empty/present marker followed by an optional
// hash.
func (d *Decoder) ReadOptionalHash() (*chainhash.Hash, error) {
	present, err := d.readMarker()
	if err != nil || !present {
		return nil, err
	}
	h, err := d.ReadHash()
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ReadOptionalBytes reads an empty/present marker followed by an optional
// byte string.
func (d *Decoder) ReadOptionalBytes() ([]byte, error) {
	present, err := d.readMarker()
	if err != nil || !present {
		return nil, err
	}
	return d.ReadBytes()
}

func (d *Decoder) readMarker() (bool, error) {
	m, err := d.r.ReadByte()
	if err != nil {
		return false, err
	}
	switch m {
	case emptyMarker:
		return false, nil
	case presentMarker:
		return true, nil
	default:
		return false, fmt.Errorf("wire: invalid optional marker 0x%02x", m)
	}
}

// ReadListLen reads a list's element count.
func (d *Decoder) ReadListLen() (int, error) {
	n, err := d.ReadVarUint()
	if err != nil {
		return 0, err
	}
	const maxReasonable = 1 << 20
	if n > maxReasonable {
		return 0, fmt.Errorf("wire: list length %d too large", n)
	}
	return int(n), nil
}

// ReadVersion reads a type's leading version tag.
func (d *Decoder) ReadVersion() (uint64, error) {
	return d.ReadVarUint()
}

// Remaining reports whether any unread bytes remain.
func (d *Decoder) Remaining() int {
	return d.r.Len()
}
