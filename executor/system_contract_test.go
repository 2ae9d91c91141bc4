// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/bftchain/core/smt"
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/storage"
	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *state.Manager {
	t.Helper()
	return state.NewManager(storage.NewMemDB(), smt.EmptyRoot())
}

func legacyTxTo(t *testing.T, to types.Address, value uint64, data []byte) (*types.Transaction, types.Address, types.PublicKey) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	pubBytes := crypto.FromECDSAPub(&key.PublicKey)
	pk, err := types.ParsePublicKey(pubBytes)
	require.NoError(t, err)
	addr, err := pk.Address()
	require.NoError(t, err)

	tx := types.NewLegacyTransaction(&types.LegacyData{
		ChainID:              1,
		Nonce:                0,
		MaxPriorityFeePerGas: types.NewU256(0),
		MaxFeePerGas:         types.NewU256(0),
		GasLimit:             21000,
		To:                   &to,
		Value:                types.NewU256(value),
		Data:                 data,
		PublicKey:            pubBytes,
	})
	sig, err := crypto.Sign(tx.Sighash().Bytes(), key)
	require.NoError(t, err)
	tx.Legacy().Signature = sig
	return tx, addr, pk
}

func TestDispatchStakeSuccess(t *testing.T) {
	st := newTestManager(t)
	tx, sender, pk := legacyTxTo(t, types.SystemContractAddress, types.MinStake, types.SelectorStake[:])

	require.NoError(t, st.CommitAccount(sender, &types.AccountInfo{Balance: types.NewU256(types.MinStake), CodeHash: types.EmptyCodeHash}))

	cs := types.NewConsensusState()
	handled, receipt, err := dispatchSystemContract(st, cs, tx, sender, 5)
	require.NoError(t, err)
	require.True(t, handled)
	require.EqualValues(t, 1, receipt.Status)

	require.EqualValues(t, types.MinStake, cs.GetStake(sender).Uint64())
	require.Len(t, cs.PendingValidators, 1)
	require.Equal(t, pk, cs.PendingValidators[0].PublicKey)
	require.EqualValues(t, 5+types.EpochLen, cs.PendingValidators[0].ActivationView)

	acct, err := st.Basic(sender)
	require.NoError(t, err)
	require.EqualValues(t, 1, acct.Nonce)
	require.True(t, acct.Balance.IsZero())
}

func TestDispatchStakeBelowMinimumNoOp(t *testing.T) {
	st := newTestManager(t)
	tx, sender, _ := legacyTxTo(t, types.SystemContractAddress, types.MinStake-1, types.SelectorStake[:])
	require.NoError(t, st.CommitAccount(sender, &types.AccountInfo{Balance: types.NewU256(types.MinStake), CodeHash: types.EmptyCodeHash}))

	cs := types.NewConsensusState()
	handled, receipt, err := dispatchSystemContract(st, cs, tx, sender, 1)
	require.NoError(t, err)
	require.True(t, handled)
	require.EqualValues(t, 1, receipt.Status) // still a success receipt per spec §4.6
	require.True(t, cs.GetStake(sender).IsZero())
	require.Empty(t, cs.PendingValidators)
}

func TestDispatchUnstakeQueuesExit(t *testing.T) {
	st := newTestManager(t)
	tx, sender, pk := legacyTxTo(t, types.SystemContractAddress, 0, types.SelectorUnstake[:])
	require.NoError(t, st.CommitAccount(sender, types.NewAccountInfo()))

	cs := types.NewConsensusState()
	cs.Committee = []types.PublicKey{pk}

	handled, receipt, err := dispatchSystemContract(st, cs, tx, sender, 3)
	require.NoError(t, err)
	require.True(t, handled)
	require.EqualValues(t, 1, receipt.Status)
	require.Len(t, cs.ExitingValidators, 1)
	require.EqualValues(t, 3+types.EpochLen, cs.ExitingValidators[0].ExitView)
}

func TestDispatchWithdrawCreditsBalance(t *testing.T) {
	st := newTestManager(t)
	tx, sender, _ := legacyTxTo(t, types.SystemContractAddress, 0, types.SelectorWithdraw[:])
	require.NoError(t, st.CommitAccount(sender, types.NewAccountInfo()))

	cs := types.NewConsensusState()
	cs.SetStake(sender, types.NewU256(5000))

	handled, receipt, err := dispatchSystemContract(st, cs, tx, sender, 0)
	require.NoError(t, err)
	require.True(t, handled)
	require.EqualValues(t, 1, receipt.Status)
	require.True(t, cs.GetStake(sender).IsZero())

	acct, err := st.Basic(sender)
	require.NoError(t, err)
	require.EqualValues(t, 5000, acct.Balance.Uint64())
}

func TestDispatchIgnoresNonSystemContractCalls(t *testing.T) {
	st := newTestManager(t)
	other := types.Address{0xAA}
	tx, sender, _ := legacyTxTo(t, other, 0, nil)
	require.NoError(t, st.CommitAccount(sender, types.NewAccountInfo()))

	cs := types.NewConsensusState()
	handled, _, err := dispatchSystemContract(st, cs, tx, sender, 0)
	require.NoError(t, err)
	require.False(t, handled)
}
