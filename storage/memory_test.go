// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBGetMissingReturnsErrNotFound(t *testing.T) {
	db := NewMemDB()
	_, err := db.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemDBPutThenGetRoundTrips(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("k"), []byte("v")))

	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)
}

func TestMemDBGetReturnsIndependentCopy(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("k"), []byte("v")))

	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	v[0] = 'x'

	v2, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v2)
}

func TestMemDBDelete(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Delete([]byte("k")))

	_, err := db.Get([]byte("k"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemDBBatchAppliesAllOpsOnWrite(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("keep"), []byte("1")))
	require.NoError(t, db.Put([]byte("remove"), []byte("2")))

	batch := db.NewBatch()
	require.NoError(t, batch.Put([]byte("new"), []byte("3")))
	require.NoError(t, batch.Delete([]byte("remove")))

	has, err := db.Has([]byte("new"))
	require.NoError(t, err)
	require.False(t, has, "batch ops must not apply before Write")

	require.NoError(t, batch.Write())

	v, err := db.Get([]byte("new"))
	require.NoError(t, err)
	require.Equal(t, []byte("3"), v)

	_, err = db.Get([]byte("remove"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemDBCloneIsIndependent(t *testing.T) {
	db := NewMemDB()
	require.NoError(t, db.Put([]byte("k"), []byte("v1")))

	clone := db.Clone()
	require.NoError(t, clone.Put([]byte("k"), []byte("v2")))

	orig, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), orig)

	cloned, err := clone.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), cloned)
}
