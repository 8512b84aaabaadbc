// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie

import (
	"bytes"

	"github.com/EXCCoin/exccd/chaincfg/chainhash"
)

// Trie is a persistent Merkle radix trie over byte-string keys, rooted
// at Root. All node reads and writes go through a shared Store so many
// Tries (e.g. one per in-flight block candidate) can share unmodified
// subtrees.
type Trie struct {
	location Location
	store    Store
	root     *chainhash.Hash // nil means the empty trie
}

// New returns a Trie rooted at root (chainhash.Zero for the empty trie).
func New(store Store, location Location, root chainhash.Hash) *Trie {
	t := &Trie{location: location, store: store}
	if root != chainhash.Zero {
		r := root
		t.root = &r
	}
	return t
}

// Root returns the current root hash, or chainhash.Zero for the empty
// trie.
func (t *Trie) Root() chainhash.Hash {
	if t.root == nil {
		return chainhash.Zero
	}
	return *t.root
}

// Get looks up key, reporting ok=false if it is absent.
func (t *Trie) Get(key []byte) (value []byte, ok bool, err error) {
	if t.root == nil {
		return nil, false, nil
	}
	return t.get(*t.root, nibbles(key))
}

func (t *Trie) get(hash chainhash.Hash, path []byte) ([]byte, bool, error) {
	n, err := t.resolve(hash)
	if err != nil {
		return nil, false, err
	}

	switch n.kind {
	case kindLeaf:
		if bytes.Equal(n.keyFragment, path) {
			return n.value, true, nil
		}
		return nil, false, nil

	case kindExtension:
		if len(path) < len(n.keyFragment) || !bytes.Equal(n.keyFragment, path[:len(n.keyFragment)]) {
			return nil, false, nil
		}
		return t.get(*n.child, path[len(n.keyFragment):])

	case kindBranch:
		if len(path) == 0 {
			return nil, false, nil
		}
		child := n.children[path[0]]
		if child == nil {
			return nil, false, nil
		}
		return t.get(*child, path[1:])
	}
	return nil, false, nil
}

// Put returns a new Trie with key set to value, sharing all unmodified
// subtrees with t. The receiver is left unmodified.
func (t *Trie) Put(key, value []byte) (*Trie, error) {
	path := nibbles(key)
	var newRoot chainhash.Hash
	var err error
	if t.root == nil {
		newRoot, err = t.putLeaf(path, value)
	} else {
		newRoot, err = t.put(*t.root, path, value)
	}
	if err != nil {
		return nil, err
	}
	return New(t.store, t.location, newRoot), nil
}

func (t *Trie) put(hash chainhash.Hash, path, value []byte) (chainhash.Hash, error) {
	n, err := t.resolve(hash)
	if err != nil {
		return chainhash.Zero, err
	}

	switch n.kind {
	case kindLeaf:
		return t.putIntoLeaf(n, path, value)
	case kindExtension:
		return t.putIntoExtension(n, path, value)
	case kindBranch:
		return t.putIntoBranch(n, path, value)
	}
	return chainhash.Zero, nil
}

func (t *Trie) putLeaf(path, value []byte) (chainhash.Hash, error) {
	return t.store2(&node{kind: kindLeaf, keyFragment: path, value: value})
}

func (t *Trie) putIntoLeaf(n *node, path, value []byte) (chainhash.Hash, error) {
	if bytes.Equal(n.keyFragment, path) {
		return t.putLeaf(path, value)
	}

	prefixLen := commonPrefixLen(n.keyFragment, path)
	branch := &node{kind: kindBranch}

	if err := t.placeInBranch(branch, n.keyFragment[prefixLen:], n.value, true); err != nil {
		return chainhash.Zero, err
	}
	if err := t.placeInBranch(branch, path[prefixLen:], value, false); err != nil {
		return chainhash.Zero, err
	}

	return t.wrapWithExtension(branch, path[:prefixLen])
}

func (t *Trie) placeInBranch(branch *node, remainder []byte, value []byte, isLeafOfOriginal bool) error {
	_ = isLeafOfOriginal
	leafHash, err := t.store2(&node{kind: kindLeaf, keyFragment: remainder[1:], value: value})
	if err != nil {
		return err
	}
	branch.children[remainder[0]] = &leafHash
	return nil
}

func (t *Trie) putIntoExtension(n *node, path, value []byte) (chainhash.Hash, error) {
	prefixLen := commonPrefixLen(n.keyFragment, path)
	if prefixLen == len(n.keyFragment) {
		childHash, err := t.put(*n.child, path[prefixLen:], value)
		if err != nil {
			return chainhash.Zero, err
		}
		return t.wrapWithExtension(&node{kind: kindExtension, keyFragment: n.keyFragment, child: &childHash}, nil)
	}

	branch := &node{kind: kindBranch}
	if prefixLen == len(n.keyFragment)-1 {
		branch.children[n.keyFragment[prefixLen]] = n.child
	} else {
		restHash, err := t.store2(&node{kind: kindExtension, keyFragment: n.keyFragment[prefixLen+1:], child: n.child})
		if err != nil {
			return chainhash.Zero, err
		}
		branch.children[n.keyFragment[prefixLen]] = &restHash
	}

	if prefixLen < len(path) {
		if err := t.placeInBranch(branch, path[prefixLen:], value, false); err != nil {
			return chainhash.Zero, err
		}
	}

	return t.wrapWithExtension(branch, path[:prefixLen])
}

func (t *Trie) putIntoBranch(n *node, path, value []byte) (chainhash.Hash, error) {
	newBranch := *n
	if len(path) == 0 {
		leafHash, err := t.store2(&node{kind: kindLeaf, keyFragment: nil, value: value})
		if err != nil {
			return chainhash.Zero, err
		}
		newBranch.children[0] = &leafHash
		return t.store2(&newBranch)
	}

	idx := path[0]
	if newBranch.children[idx] == nil {
		leafHash, err := t.store2(&node{kind: kindLeaf, keyFragment: path[1:], value: value})
		if err != nil {
			return chainhash.Zero, err
		}
		newBranch.children[idx] = &leafHash
	} else {
		childHash, err := t.put(*newBranch.children[idx], path[1:], value)
		if err != nil {
			return chainhash.Zero, err
		}
		newBranch.children[idx] = &childHash
	}
	return t.store2(&newBranch)
}

// wrapWithExtension stores child and, if prefix is non-empty, wraps it in
// an extension node over prefix; otherwise the child's own hash is
// returned directly.
func (t *Trie) wrapWithExtension(child *node, prefix []byte) (chainhash.Hash, error) {
	childHash, err := t.store2(child)
	if err != nil {
		return chainhash.Zero, err
	}
	if len(prefix) == 0 {
		return childHash, nil
	}
	return t.store2(&node{kind: kindExtension, keyFragment: prefix, child: &childHash})
}

func (t *Trie) resolve(hash chainhash.Hash) (*node, error) {
	b, ok, err := t.store.Get(t.location, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNodeNotFound(hash)
	}
	return decodeNode(b)
}

func (t *Trie) store2(n *node) (chainhash.Hash, error) {
	h := n.hash()
	t.store.Put(t.location, h, n.encode())
	return h, nil
}

type errNodeNotFound chainhash.Hash

func (e errNodeNotFound) Error() string {
	h := chainhash.Hash(e)
	return "trie: node not found: " + h.String()
}
