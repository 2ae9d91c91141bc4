// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/bftchain/core/evmrt"
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// fakeAdapter is a deterministic stand-in for the EVM Adapter used to
// exercise the Block Executor's orchestration without depending on a
// real interpreter.
type fakeAdapter struct {
	result *evmrt.Result
	err    error
}

func (f *fakeAdapter) Execute(env evmrt.TxEnv, st *state.Manager) (*evmrt.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func signedLegacy(t *testing.T, gasLimit uint64, to *types.Address) *types.Transaction {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	pubBytes := crypto.FromECDSAPub(&key.PublicKey)
	tx := types.NewLegacyTransaction(&types.LegacyData{
		ChainID:              1,
		GasLimit:             gasLimit,
		To:                   to,
		Value:                types.NewU256(0),
		MaxFeePerGas:         types.NewU256(0),
		MaxPriorityFeePerGas: types.NewU256(0),
		PublicKey:            pubBytes,
	})
	sig, err := crypto.Sign(tx.Sighash().Bytes(), key)
	require.NoError(t, err)
	tx.Legacy().Signature = sig
	return tx
}

func TestExecuteBlockRejectsOversizedGasLimit(t *testing.T) {
	st := newTestManager(t)
	exec := NewExecutor(st, &fakeAdapter{}, 30_000_000)

	to := types.Address{1}
	tx := signedLegacy(t, types.MaxTxGasLimit+1, &to)
	block := &types.Block{Payload: []*types.Transaction{tx}, BaseFeePerGas: types.NewU256(types.InitialBaseFee)}

	_, err := exec.ExecuteBlock(block)
	require.Error(t, err)
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, KindTransaction, execErr.Kind)
}

func TestExecuteBlockCommitsSuccessfulTransaction(t *testing.T) {
	st := newTestManager(t)
	to := types.Address{2}
	acct := &types.AccountInfo{Balance: types.NewU256(42), CodeHash: types.EmptyCodeHash}
	adapter := &fakeAdapter{result: &evmrt.Result{
		Outcome: evmrt.OutcomeSuccess,
		GasUsed: 21000,
		StateDiff: map[types.Address]*evmrt.StateDiffEntry{
			to: {Account: acct},
		},
	}}
	exec := NewExecutor(st, adapter, 30_000_000)

	tx := signedLegacy(t, 21000, &to)
	block := &types.Block{View: 1, Payload: []*types.Transaction{tx}, BaseFeePerGas: types.NewU256(types.InitialBaseFee)}

	receipts, err := exec.ExecuteBlock(block)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.EqualValues(t, 1, receipts[0].Status)
	require.EqualValues(t, 21000, receipts[0].CumulativeGasUsed)
	require.EqualValues(t, 21000, block.GasUsed)
	require.NotEqual(t, types.Hash{}, block.StateRoot)

	got, err := st.Basic(to)
	require.NoError(t, err)
	require.EqualValues(t, 42, got.Balance.Uint64())
}

func TestExecuteBlockRecordsFailureWithoutCommitting(t *testing.T) {
	st := newTestManager(t)
	to := types.Address{3}
	adapter := &fakeAdapter{result: &evmrt.Result{Outcome: evmrt.OutcomeRevert, GasUsed: 5000, Output: []byte("reverted")}}
	exec := NewExecutor(st, adapter, 30_000_000)

	tx := signedLegacy(t, 21000, &to)
	block := &types.Block{Payload: []*types.Transaction{tx}, BaseFeePerGas: types.NewU256(types.InitialBaseFee)}

	receipts, err := exec.ExecuteBlock(block)
	require.NoError(t, err)
	require.EqualValues(t, 0, receipts[0].Status)
	require.EqualValues(t, 5000, block.GasUsed)

	got, err := st.Basic(to)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestExecuteBlockProcessesQueues(t *testing.T) {
	st := newTestManager(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	pk, err := types.ParsePublicKey(crypto.FromECDSAPub(&key.PublicKey))
	require.NoError(t, err)

	cs := types.NewConsensusState()
	cs.PendingValidators = []types.PendingValidator{{PublicKey: pk, ActivationView: 10}}
	require.NoError(t, st.SaveConsensusState(cs))

	exec := NewExecutor(st, &fakeAdapter{}, 30_000_000)
	block := &types.Block{View: 10, BaseFeePerGas: types.NewU256(types.InitialBaseFee)}

	_, err = exec.ExecuteBlock(block)
	require.NoError(t, err)

	got, err := st.GetConsensusState()
	require.NoError(t, err)
	require.Contains(t, got.Committee, pk)
	require.Empty(t, got.PendingValidators)
}
