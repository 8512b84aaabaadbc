// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package trie implements the content-addressed persistent Merkle radix
// trie backing the world state. Every node is addressed by the content
// hash of its serialization; the root of the trie is the state root
// referenced by each block header.
package trie

import (
	"fmt"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
	"github.com/EXCCoin/exccd/wire"
)

// nodeKind distinguishes the three radix-trie node shapes.
type nodeKind uint8

const (
	kindLeaf nodeKind = iota + 1
	kindExtension
	kindBranch
)

const nodeEncodingVersion = 1

// branchWidth is the number of children of a branch node, one per nibble.
const branchWidth = 16

// node is the in-memory representation of a single trie node. Only the
// fields relevant to kind are populated.
type node struct {
	kind nodeKind

	// leaf / extension
	keyFragment []byte
	value       []byte // leaf only

	children [branchWidth]*chainhash.Hash // branch only; nil entry means no child
	child    *chainhash.Hash              // extension only
}

// encode serializes a node using the canonical codec; the node's content
// hash is wire.ContentHash of this encoding.
func (n *node) encode() []byte {
	e := wire.NewEncoder()
	e.WriteVersion(nodeEncodingVersion)
	e.WriteVarUint(uint64(n.kind))
	switch n.kind {
	case kindLeaf:
		e.WriteBytes(n.keyFragment)
		e.WriteBytes(n.value)
	case kindExtension:
		e.WriteBytes(n.keyFragment)
		e.WriteHash(*n.child)
	case kindBranch:
		for i := 0; i < branchWidth; i++ {
			e.WriteOptionalHash(n.children[i])
		}
	}
	return e.Bytes()
}

// hash returns the content hash of the node's encoding, used both as the
// node's store key and as the parent's reference to it.
func (n *node) hash() chainhash.Hash {
	return wire.ContentHash(n.encode())
}

// decodeNode parses a node previously produced by encode.
func decodeNode(b []byte) (*node, error) {
	d := wire.NewDecoder(b)
	v, err := d.ReadVersion()
	if err != nil {
		return nil, err
	}
	if v != nodeEncodingVersion {
		return nil, &wire.ErrUnsupportedVersion{TypeName: "trie.node", Version: v}
	}
	kindVal, err := d.ReadVarUint()
	if err != nil {
		return nil, err
	}
	n := &node{kind: nodeKind(kindVal)}
	switch n.kind {
	case kindLeaf:
		if n.keyFragment, err = d.ReadBytes(); err != nil {
			return nil, err
		}
		if n.value, err = d.ReadBytes(); err != nil {
			return nil, err
		}
	case kindExtension:
		if n.keyFragment, err = d.ReadBytes(); err != nil {
			return nil, err
		}
		h, err := d.ReadHash()
		if err != nil {
			return nil, err
		}
		n.child = &h
	case kindBranch:
		for i := 0; i < branchWidth; i++ {
			h, err := d.ReadOptionalHash()
			if err != nil {
				return nil, err
			}
			n.children[i] = h
		}
	default:
		return nil, fmt.Errorf("trie: unrecognized node kind %d", kindVal)
	}
	return n, nil
}

// nibbles expands a byte key into its sequence of 4-bit nibbles, the unit
// of branching in this trie.
func nibbles(key []byte) []byte {
	out := make([]byte, 0, len(key)*2)
	for _, b := range key {
		out = append(out, b>>4, b&0x0f)
	}
	return out
}

// commonPrefixLen returns the length of the shared prefix of a and b.
func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
