// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package state

import (
	"testing"

	"github.com/bftchain/core/smt"
	"github.com/bftchain/core/storage"
	"github.com/bftchain/core/types"
	"github.com/stretchr/testify/require"
)

func TestCommitAccountThenBasicRoundTrips(t *testing.T) {
	mgr := NewManager(storage.NewMemDB(), smt.EmptyRoot())
	addr := types.Address{0x01}
	acct := &types.AccountInfo{Nonce: 3, Balance: types.NewU256(500), CodeHash: types.EmptyCodeHash}
	require.NoError(t, mgr.CommitAccount(addr, acct))

	got, err := mgr.Basic(addr)
	require.NoError(t, err)
	require.EqualValues(t, 3, got.Nonce)
	require.True(t, got.Balance.Eq(types.NewU256(500)))
	require.NotEqual(t, smt.EmptyRoot(), mgr.Root())
}

func TestOpenManagerResumesPersistedRoot(t *testing.T) {
	kv := storage.NewMemDB()
	mgr := NewManager(kv, smt.EmptyRoot())
	addr := types.Address{0x02}
	require.NoError(t, mgr.CommitAccount(addr, &types.AccountInfo{Balance: types.NewU256(10), CodeHash: types.EmptyCodeHash}))
	require.NoError(t, mgr.PersistRoot())
	wantRoot := mgr.Root()

	reopened, err := OpenManager(kv)
	require.NoError(t, err)
	require.Equal(t, wantRoot, reopened.Root())

	acct, err := reopened.Basic(addr)
	require.NoError(t, err)
	require.True(t, acct.Balance.Eq(types.NewU256(10)))
}

func TestOpenManagerDefaultsToEmptyRootOnFreshStore(t *testing.T) {
	mgr, err := OpenManager(storage.NewMemDB())
	require.NoError(t, err)
	require.Equal(t, smt.EmptyRoot(), mgr.Root())
}

func TestApplyGenesisAppliesAllAllocationsInOrder(t *testing.T) {
	mgr := NewManager(storage.NewMemDB(), smt.EmptyRoot())
	allocs := []GenesisAlloc{
		{Address: types.Address{0x01}, Account: &types.AccountInfo{Balance: types.NewU256(1), CodeHash: types.EmptyCodeHash}},
		{Address: types.Address{0x02}, Account: &types.AccountInfo{Balance: types.NewU256(2), CodeHash: types.EmptyCodeHash}},
	}
	root, err := ApplyGenesis(mgr, allocs)
	require.NoError(t, err)
	require.Equal(t, mgr.Root(), root)

	acct, err := mgr.Basic(types.Address{0x02})
	require.NoError(t, err)
	require.True(t, acct.Balance.Eq(types.NewU256(2)))
}
