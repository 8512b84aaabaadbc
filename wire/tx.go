// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/math/uint256"
)

// TxVersion is the only transaction encoding version currently defined.
const TxVersion = 1

// Tx is an immutable, signed record of intent to transfer value or to
// propose/vote on a governance action.  Its hash and size are computed
// fields derived from the canonical encoding, not stored inline on the
// wire; MsgNewMempoolTx and block bodies carry only the Encode/Decode
// form, and callers call Hash()/Size() as needed.
type Tx struct {
	Version       uint32
	Type          TxType
	Network       uint32
	Timestamp     int64
	Nonce         uint64
	Sender        Address
	Recipient     *Address
	Amount        *uint256.Uint256
	Fee           *uint256.Uint256
	TokenAddress  *Address
	Payload       Payload
	ReferenceHash *chainhash.Hash
	Message       []byte
	Signature     Signature
}

// Encode writes the canonical, version-tagged encoding of the transaction.
// The signature is included so the encoding is the exact wire/storage
// form; SigningBytes excludes it for signature computation.
func (tx *Tx) Encode(e *Encoder) {
	e.WriteVersion(uint64(tx.Version))
	e.buf.WriteByte(byte(tx.Type))
	e.WriteVarUint(uint64(tx.Network))
	e.WriteVarUint(uint64(tx.Timestamp))
	e.WriteVarUint(tx.Nonce)
	e.buf.Write(tx.Sender[:])
	if tx.Recipient == nil {
		e.buf.WriteByte(emptyMarker)
	} else {
		e.buf.WriteByte(presentMarker)
		e.buf.Write(tx.Recipient[:])
	}
	writeOptionalAmount(e, tx.Amount)
	writeOptionalAmount(e, tx.Fee)
	if tx.TokenAddress == nil {
		e.buf.WriteByte(emptyMarker)
	} else {
		e.buf.WriteByte(presentMarker)
		e.buf.Write(tx.TokenAddress[:])
	}
	encodePayload(e, tx.Payload)
	e.WriteOptionalHash(tx.ReferenceHash)
	e.WriteOptionalBytes(tx.Message)
	e.buf.Write(tx.Signature[:])
}

func writeOptionalAmount(e *Encoder, a *uint256.Uint256) {
	if a == nil {
		e.buf.WriteByte(emptyMarker)
		return
	}
	e.buf.WriteByte(presentMarker)
	b := a.Bytes()
	e.WriteBytes(b[:])
}

func readOptionalAmount(d *Decoder) (*uint256.Uint256, error) {
	present, err := d.readMarker()
	if err != nil || !present {
		return nil, err
	}
	b, err := d.ReadBytes()
	if err != nil {
		return nil, err
	}
	return uint256.FromBytes(b), nil
}

// DecodeTx reads a Tx previously written by Encode, dispatching on its
// version tag.
func DecodeTx(d *Decoder) (*Tx, error) {
	version, err := d.ReadVersion()
	if err != nil {
		return nil, err
	}
	switch version {
	case TxVersion:
		return decodeTxV1(d)
	default:
		return nil, &ErrUnsupportedVersion{TypeName: "Tx", Version: version}
	}
}

func decodeTxV1(d *Decoder) (*Tx, error) {
	tx := &Tx{Version: TxVersion}
	tb, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	tx.Type = TxType(tb)
	network, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	tx.Network = uint32(network)
	ts, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	tx.Timestamp = int64(ts)
	if tx.Nonce, err = d.ReadVarUint(); err != nil {
		return nil, err
	}
	if err := readAddress(d, &tx.Sender); err != nil {
		return nil, err
	}
	hasRecipient, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if hasRecipient == presentMarker {
		var a Address
		if err := readAddress(d, &a); err != nil {
			return nil, err
		}
		tx.Recipient = &a
	}
	if tx.Amount, err = readOptionalAmount(d); err != nil {
		return nil, err
	}
	if tx.Fee, err = readOptionalAmount(d); err != nil {
		return nil, err
	}
	hasToken, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if hasToken == presentMarker {
		var a Address
		if err := readAddress(d, &a); err != nil {
			return nil, err
		}
		tx.TokenAddress = &a
	}
	if tx.Payload, err = decodePayload(d); err != nil {
		return nil, err
	}
	if tx.ReferenceHash, err = d.ReadOptionalHash(); err != nil {
		return nil, err
	}
	if tx.Message, err = d.ReadOptionalBytes(); err != nil {
		return nil, err
	}
	sigBuf := make([]byte, SignatureSize)
	if _, err := readFull(d, sigBuf); err != nil {
		return nil, err
	}
	copy(tx.Signature[:], sigBuf)
	return tx, nil
}

// SigningBytes returns the canonical encoding of the transaction with the
// signature field zeroed, the form over which the signature is computed
// and verified.
func (tx *Tx) SigningBytes() []byte {
	cp := *tx
	cp.Signature = Signature{}
	e := NewEncoder()
	cp.Encode(e)
	return e.Bytes()
}

// Bytes returns the canonical encoding of the transaction, including its
// signature.
func (tx *Tx) Bytes() []byte {
	e := NewEncoder()
	tx.Encode(e)
	return e.Bytes()
}

// Size returns the encoded size of the transaction in bytes.
func (tx *Tx) Size() int {
	return len(tx.Bytes())
}

// Hash returns the content hash of the transaction's canonical encoding,
// computed with the configured content-hash function (see ContentHash).
func (tx *Tx) Hash() chainhash.Hash {
	return ContentHash(tx.Bytes())
}

func readFull(d *Decoder, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		b, err := d.r.ReadByte()
		if err != nil {
			return n, err
		}
		buf[n] = b
		n++
	}
	return n, nil
}
