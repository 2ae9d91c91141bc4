// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	"github.com/holiman/uint256"
)

// dispatchSystemContract handles the three staking selectors the
// executor intercepts instead of dispatching to the EVM (spec §4.6). It
// reports whether tx.To addressed the system contract at all; when it
// did not, the caller falls through to ordinary EVM execution.
func dispatchSystemContract(st *state.Manager, cs *types.ConsensusState, tx *types.Transaction, sender types.Address, view uint64) (handled bool, receipt *types.Receipt, err error) {
	to := tx.To()
	if to == nil || *to != types.SystemContractAddress {
		return false, nil, nil
	}

	data := tx.Data()
	if len(data) < 4 {
		return true, failedReceipt(), nil
	}
	var selector [4]byte
	copy(selector[:], data[:4])

	pk, perr := senderPublicKey(tx)
	if perr != nil {
		return true, failedReceipt(), nil
	}

	acct, err := st.Basic(sender)
	if err != nil {
		return true, nil, stateError("load sender account", err)
	}
	if acct == nil {
		acct = types.NewAccountInfo()
	}

	// Each handler's own precondition gates whether it has any state
	// effect; recognized selectors always still produce a success
	// receipt, increment the sender's nonce and debit tx.value from its
	// balance (spec §4.6).
	switch selector {
	case types.SelectorStake:
		handleStake(cs, sender, pk, tx.Value(), view)
	case types.SelectorUnstake:
		handleUnstake(cs, sender, pk, view)
	case types.SelectorWithdraw:
		handleWithdraw(cs, acct, sender, pk)
	default:
		return true, failedReceipt(), nil
	}

	acct.Nonce++
	acct.Balance = types.SaturatingSub(acct.Balance, tx.Value())
	if err := st.CommitAccount(sender, acct); err != nil {
		return true, nil, stateError("commit system-contract sender", err)
	}

	return true, successReceipt(), nil
}

func senderPublicKey(tx *types.Transaction) (types.PublicKey, error) {
	return types.ParsePublicKey(tx.Legacy().PublicKey)
}

func handleStake(cs *types.ConsensusState, sender types.Address, pk types.PublicKey, value *uint256.Int, view uint64) bool {
	if value.Cmp(types.NewU256(types.MinStake)) < 0 {
		return false
	}
	cs.SetStake(sender, types.WrappingAdd(cs.GetStake(sender), value))
	cs.PendingValidators = append(cs.PendingValidators, types.PendingValidator{
		PublicKey:      pk,
		ActivationView: view + types.EpochLen,
	})
	return true
}

func handleUnstake(cs *types.ConsensusState, sender types.Address, pk types.PublicKey, view uint64) bool {
	if !cs.InCommittee(pk) {
		return false
	}
	cs.ExitingValidators = append(cs.ExitingValidators, types.ExitingValidator{
		PublicKey: pk,
		ExitView:  view + types.EpochLen,
	})
	return true
}

func handleWithdraw(cs *types.ConsensusState, acct *types.AccountInfo, sender types.Address, pk types.PublicKey) bool {
	if cs.InCommittee(pk) || cs.InPending(pk) || cs.InExiting(pk) {
		return false
	}
	stake := cs.GetStake(sender)
	if stake.IsZero() {
		return false
	}
	acct.Balance = types.WrappingAdd(acct.Balance, stake)
	cs.SetStake(sender, types.ZeroU256())
	return true
}

func successReceipt() *types.Receipt { return &types.Receipt{Status: 1} }
func failedReceipt() *types.Receipt  { return &types.Receipt{Status: 0} }
