// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package smt implements the Blake2b-hashed sparse Merkle tree backend
// (spec §4.2): 256-bit keys, 256-bit values, content-addressed branch
// nodes so historical roots stay verifiable, and no-op removals.
package smt

import (
	"encoding/binary"
	"sync"

	"github.com/bftchain/core/storage"
	"github.com/bftchain/core/types"
	"golang.org/x/crypto/blake2b"
)

const depth = 256

var (
	defaultOnce sync.Once
	defaultHash [depth + 1]types.Hash // defaultHash[0] = zero leaf; defaultHash[depth] = empty root
)

func defaults() [depth + 1]types.Hash {
	defaultOnce.Do(func() {
		// defaultHash[0] is the value reported for an absent leaf: Value(0).
		for h := 1; h <= depth; h++ {
			defaultHash[h] = combine(defaultHash[h-1], defaultHash[h-1])
		}
	})
	return defaultHash
}

func combine(left, right types.Hash) types.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic("smt: blake2b: " + err.Error())
	}
	h.Write(left[:])
	h.Write(right[:])
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Tree is a sparse Merkle tree view rooted at a particular commitment,
// backed by a KV store (spec §4.2: "Branches are identified by
// (height, node_key)"). It is a thin, stateless accessor: the current
// root is owned by the caller (the State Manager), not by Tree.
type Tree struct {
	kv storage.KV
}

// New returns a Tree backed by kv.
func New(kv storage.KV) *Tree {
	return &Tree{kv: kv}
}

// EmptyRoot is the root of a tree with no leaves written.
func EmptyRoot() types.Hash {
	d := defaults()
	return d[depth]
}

type branchNode struct {
	Left  types.Hash
	Right types.Hash
}

func (t *Tree) loadBranch(height uint8, node types.Hash) (branchNode, bool, error) {
	v, err := t.kv.Get(storage.BranchKey(height, node))
	if err == storage.ErrNotFound {
		return branchNode{}, false, nil
	}
	if err != nil {
		return branchNode{}, false, err
	}
	if len(v) != 64 {
		return branchNode{}, false, nil
	}
	var bn branchNode
	copy(bn.Left[:], v[:32])
	copy(bn.Right[:], v[32:])
	return bn, true, nil
}

func (t *Tree) storeBranch(height uint8, node types.Hash, bn branchNode) error {
	v := make([]byte, 64)
	copy(v[:32], bn.Left[:])
	copy(v[32:], bn.Right[:])
	return t.kv.Put(storage.BranchKey(height, node), v)
}

// bit returns the i-th bit (0 = MSB) of key, for i in [0, 256).
func bit(key types.Hash, i int) int {
	byteIdx := i / 8
	bitIdx := 7 - uint(i%8)
	return int((key[byteIdx] >> bitIdx) & 1)
}

// Get returns the value committed at key under root, or the default
// zero value if the leaf was never written (spec: "reads return
// Value(0) for absent leaves").
func (t *Tree) Get(root types.Hash, key types.Hash) (types.Hash, error) {
	d := defaults()
	cur := root
	for i := 0; i < depth; i++ {
		height := uint8(depth - i)
		if cur == d[height] {
			return d[0], nil
		}
		bn, ok, err := t.loadBranch(height, cur)
		if err != nil {
			return types.Hash{}, err
		}
		if !ok {
			return d[0], nil
		}
		if bit(key, i) == 0 {
			cur = bn.Left
		} else {
			cur = bn.Right
		}
	}
	return cur, nil
}

// Update writes a leaf and rewrites the O(log N) branch nodes on the
// path from leaf to root, returning the new root (spec §4.2). Writing
// types.Hash{} (the zero value) is a legal update, not a removal: the
// old branch nodes along the path are left in place (the tree "never
// removes nodes"), only new ones referencing the now-default subtree
// are added.
func (t *Tree) Update(root types.Hash, key types.Hash, value types.Hash) (types.Hash, error) {
	d := defaults()

	type step struct {
		height  uint8
		sibling types.Hash
		wentRight bool
	}
	path := make([]step, 0, depth)

	cur := root
	for i := 0; i < depth; i++ {
		height := uint8(depth - i)
		var bn branchNode
		if cur == d[height] {
			bn = branchNode{Left: d[height-1], Right: d[height-1]}
		} else {
			loaded, ok, err := t.loadBranch(height, cur)
			if err != nil {
				return types.Hash{}, err
			}
			if !ok {
				bn = branchNode{Left: d[height-1], Right: d[height-1]}
			} else {
				bn = loaded
			}
		}
		right := bit(key, i) == 1
		if right {
			path = append(path, step{height: height, sibling: bn.Left, wentRight: true})
			cur = bn.Right
		} else {
			path = append(path, step{height: height, sibling: bn.Right, wentRight: false})
			cur = bn.Left
		}
	}

	if value != d[0] {
		if err := t.kv.Put(storage.LeafKey(value), value[:]); err != nil {
			return types.Hash{}, err
		}
	}

	newCur := value
	for i := len(path) - 1; i >= 0; i-- {
		s := path[i]
		var bn branchNode
		if s.wentRight {
			bn = branchNode{Left: s.sibling, Right: newCur}
		} else {
			bn = branchNode{Left: newCur, Right: s.sibling}
		}
		newHash := combine(bn.Left, bn.Right)
		if newHash != d[s.height] {
			if err := t.storeBranch(s.height, newHash, bn); err != nil {
				return types.Hash{}, err
			}
		}
		newCur = newHash
	}
	return newCur, nil
}

// KeyFromUint64 is a convenience for tests and QC-view-keyed lookups
// that need a deterministic 256-bit key from a small integer.
func KeyFromUint64(v uint64) types.Hash {
	var h types.Hash
	binary.BigEndian.PutUint64(h[24:], v)
	return h
}
