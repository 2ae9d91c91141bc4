// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package evmrt

import (
	"testing"

	"github.com/bftchain/core/state"
	"github.com/bftchain/core/storage"
	"github.com/bftchain/core/types"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *state.Manager {
	t.Helper()
	mgr, err := state.OpenManager(storage.NewMemDB())
	require.NoError(t, err)
	return mgr
}

func TestGethAdapterValueTransferMovesBalance(t *testing.T) {
	mgr := newTestManager(t)
	from := types.Address{1}
	to := types.Address{2}
	require.NoError(t, mgr.CommitAccount(from, &types.AccountInfo{
		Balance:  types.NewU256(1000),
		CodeHash: types.EmptyCodeHash,
	}))

	adapter := NewGethAdapter(1337)
	res, err := adapter.Execute(TxEnv{
		Caller:   from,
		To:       &to,
		Value:    types.NewU256(100),
		GasLimit: 21000,
		GasPrice: new(uint256.Int),
		BaseFee:  new(uint256.Int),
	}, mgr)
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, res.Outcome)

	fromDiff := res.StateDiff[from]
	toDiff := res.StateDiff[to]
	require.NotNil(t, fromDiff)
	require.NotNil(t, toDiff)
	require.EqualValues(t, 900, fromDiff.Account.Balance.Uint64())
	require.EqualValues(t, 100, toDiff.Account.Balance.Uint64())
}

func TestGethAdapterContractCallReturnsData(t *testing.T) {
	mgr := newTestManager(t)
	from := types.Address{1}
	contract := types.Address{0xc0}

	// PUSH1 0x2a PUSH1 0x00 MSTORE PUSH1 0x20 PUSH1 0x00 RETURN
	code := []byte{0x60, 0x2a, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xf3}
	require.NoError(t, mgr.CommitAccount(contract, &types.AccountInfo{
		Balance:  new(uint256.Int),
		CodeHash: types.HashData(code),
		Code:     code,
	}))
	require.NoError(t, mgr.CommitAccount(from, &types.AccountInfo{
		Balance:  new(uint256.Int),
		CodeHash: types.EmptyCodeHash,
	}))

	adapter := NewGethAdapter(1337)
	res, err := adapter.Execute(TxEnv{
		Caller:   from,
		To:       &contract,
		Value:    new(uint256.Int),
		GasLimit: 100000,
		GasPrice: new(uint256.Int),
		BaseFee:  new(uint256.Int),
	}, mgr)
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, res.Outcome)
	require.Len(t, res.Output, 32)
	require.EqualValues(t, 0x2a, res.Output[31])
}

func TestGethAdapterRevertReportsOutcomeOnly(t *testing.T) {
	mgr := newTestManager(t)
	from := types.Address{1}
	contract := types.Address{0xc1}

	// PUSH1 0x00 PUSH1 0x00 REVERT
	code := []byte{0x60, 0x00, 0x60, 0x00, 0xfd}
	require.NoError(t, mgr.CommitAccount(contract, &types.AccountInfo{
		Balance:  new(uint256.Int),
		CodeHash: types.HashData(code),
		Code:     code,
	}))
	require.NoError(t, mgr.CommitAccount(from, &types.AccountInfo{
		Balance:  new(uint256.Int),
		CodeHash: types.EmptyCodeHash,
	}))

	adapter := NewGethAdapter(1337)
	res, err := adapter.Execute(TxEnv{
		Caller:   from,
		To:       &contract,
		Value:    new(uint256.Int),
		GasLimit: 100000,
		GasPrice: new(uint256.Int),
		BaseFee:  new(uint256.Int),
	}, mgr)
	require.NoError(t, err)
	require.Equal(t, OutcomeRevert, res.Outcome)
	require.True(t, res.Failed())
}
