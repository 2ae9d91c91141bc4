// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package smt

import (
	"testing"

	"github.com/bftchain/core/storage"
	"github.com/bftchain/core/types"
	"github.com/stretchr/testify/require"
)

func TestEmptyRootReadsDefaultZero(t *testing.T) {
	tree := New(storage.NewMemDB())
	root := EmptyRoot()

	v, err := tree.Get(root, types.HashData([]byte("unset")))
	require.NoError(t, err)
	require.Equal(t, types.Hash{}, v)
}

func TestUpdateThenGetRoundTrips(t *testing.T) {
	tree := New(storage.NewMemDB())
	key := types.HashData([]byte("account-a"))
	value := types.HashData([]byte("leaf-value"))

	root, err := tree.Update(EmptyRoot(), key, value)
	require.NoError(t, err)
	require.NotEqual(t, EmptyRoot(), root)

	got, err := tree.Get(root, key)
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestUpdateIsDeterministicAcrossKeyOrder(t *testing.T) {
	keyA := types.HashData([]byte("a"))
	keyB := types.HashData([]byte("b"))
	valA := types.HashData([]byte("val-a"))
	valB := types.HashData([]byte("val-b"))

	treeForward := New(storage.NewMemDB())
	rootForward, err := treeForward.Update(EmptyRoot(), keyA, valA)
	require.NoError(t, err)
	rootForward, err = treeForward.Update(rootForward, keyB, valB)
	require.NoError(t, err)

	treeReverse := New(storage.NewMemDB())
	rootReverse, err := treeReverse.Update(EmptyRoot(), keyB, valB)
	require.NoError(t, err)
	rootReverse, err = treeReverse.Update(rootReverse, keyA, valA)
	require.NoError(t, err)

	require.Equal(t, rootForward, rootReverse)
}

func TestUpdateDifferentKeysDoNotCollide(t *testing.T) {
	tree := New(storage.NewMemDB())
	keyA := types.HashData([]byte("account-a"))
	keyB := types.HashData([]byte("account-b"))
	valA := types.HashData([]byte("val-a"))
	valB := types.HashData([]byte("val-b"))

	root, err := tree.Update(EmptyRoot(), keyA, valA)
	require.NoError(t, err)
	root, err = tree.Update(root, keyB, valB)
	require.NoError(t, err)

	gotA, err := tree.Get(root, keyA)
	require.NoError(t, err)
	require.Equal(t, valA, gotA)

	gotB, err := tree.Get(root, keyB)
	require.NoError(t, err)
	require.Equal(t, valB, gotB)
}

func TestUpdateOverwriteChangesRoot(t *testing.T) {
	tree := New(storage.NewMemDB())
	key := types.HashData([]byte("account-a"))

	root1, err := tree.Update(EmptyRoot(), key, types.HashData([]byte("v1")))
	require.NoError(t, err)
	root2, err := tree.Update(root1, key, types.HashData([]byte("v2")))
	require.NoError(t, err)
	require.NotEqual(t, root1, root2)

	got, err := tree.Get(root2, key)
	require.NoError(t, err)
	require.Equal(t, types.HashData([]byte("v2")), got)

	// the old root is still readable: branch nodes are never removed.
	got, err = tree.Get(root1, key)
	require.NoError(t, err)
	require.Equal(t, types.HashData([]byte("v1")), got)
}

func TestKeyFromUint64Deterministic(t *testing.T) {
	require.Equal(t, KeyFromUint64(42), KeyFromUint64(42))
	require.NotEqual(t, KeyFromUint64(42), KeyFromUint64(43))
}
