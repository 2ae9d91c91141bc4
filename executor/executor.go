// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/bftchain/core/evmrt"
	"github.com/bftchain/core/log"
	"github.com/bftchain/core/metrics"
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	"github.com/holiman/uint256"
)

// Executor drives execute_block (spec §4.5): the six ordered phases that
// turn an unexecuted block's payload into committed state, receipts and
// consensus-meta-state updates.
type Executor struct {
	State         *state.Manager
	Adapter       evmrt.Adapter
	BlockGasLimit uint64
	Metrics       *metrics.Executor
}

// NewExecutor wires a State Manager and EVM Adapter into an Executor
// bound to a fixed per-block gas limit.
func NewExecutor(st *state.Manager, adapter evmrt.Adapter, blockGasLimit uint64) *Executor {
	return &Executor{State: st, Adapter: adapter, BlockGasLimit: blockGasLimit}
}

// WithMetrics attaches a metric set ExecuteBlock keeps up to date.
// Optional: an Executor built via NewExecutor alone runs uninstrumented.
func (e *Executor) WithMetrics(m *metrics.Executor) *Executor {
	e.Metrics = m
	return e
}

// ExecuteBlock mutates block.StateRoot, block.ReceiptsRoot and
// block.GasUsed in place, returning the receipts produced. Any non-nil
// error is an ExecutionError; per spec §7 the caller must discard the
// block and leave the State Manager's prior root untouched by not
// persisting consensus state in that case.
func (e *Executor) ExecuteBlock(block *types.Block) ([]*types.Receipt, error) {
	if err := preValidate(block, e.BlockGasLimit); err != nil {
		return nil, err
	}

	cs, err := e.State.GetConsensusState()
	if err != nil {
		return nil, stateError("load consensus state", err)
	}

	evidenceSlashed, err := applyEvidenceSlashing(cs, block.Evidence)
	if err != nil {
		return nil, err
	}
	livenessSlashed, err := applyLivenessSlashing(cs, block.Author, &block.Justify)
	if err != nil {
		return nil, err
	}
	if e.Metrics != nil {
		if evidenceSlashed > 0 {
			e.Metrics.EvidenceSlashed.Add(float64(evidenceSlashed))
		}
		if livenessSlashed {
			e.Metrics.LivenessSlashed.Inc()
		}
	}

	receipts := make([]*types.Receipt, 0, len(block.Payload))
	var cumulativeGas uint64

	for _, tx := range block.Payload {
		receipt, gasUsed, err := e.applyTransaction(cs, tx, block.BaseFeePerGas, block.View)
		if err != nil {
			return nil, err
		}
		cumulativeGas += gasUsed
		receipt.CumulativeGasUsed = cumulativeGas
		receipts = append(receipts, receipt)
		if e.Metrics != nil {
			e.Metrics.TxExecuted.WithLabelValues(receiptStatusLabel(receipt)).Inc()
		}
	}

	processQueues(cs, block.View)

	if err := e.State.SaveConsensusState(cs); err != nil {
		return nil, stateError("save consensus state", err)
	}
	if err := e.State.PersistRoot(); err != nil {
		return nil, stateError("persist state root", err)
	}

	block.StateRoot = e.State.Root()
	block.ReceiptsRoot = ReceiptsRoot(receipts)
	block.GasUsed = cumulativeGas

	if e.Metrics != nil {
		e.Metrics.BlocksExecuted.Inc()
		e.Metrics.BlockGasUsed.Observe(float64(cumulativeGas))
	}

	log.Debug("executed block", "view", block.View, "txs", len(block.Payload), "gasUsed", cumulativeGas, "stateRoot", block.StateRoot)
	return receipts, nil
}

func receiptStatusLabel(r *types.Receipt) string {
	if r.Status == 1 {
		return "success"
	}
	return "failed"
}

func preValidate(block *types.Block, blockGasLimit uint64) error {
	for _, tx := range block.Payload {
		if tx.GasLimit() > types.MaxTxGasLimit || tx.GasLimit() > blockGasLimit {
			return transactionError("transaction gas limit exceeds block or protocol ceiling")
		}
	}
	return nil
}

// applyTransaction runs one payload entry through sender validation, AA
// pre-validation, the system-contract intercept, and (failing both)
// ordinary EVM execution (spec §4.5 step 4). It returns the receipt and
// the gas this single transaction consumed.
func (e *Executor) applyTransaction(cs *types.ConsensusState, tx *types.Transaction, baseFee *uint256.Int, view uint64) (*types.Receipt, uint64, error) {
	sender, err := tx.Sender()
	if err != nil || sender == (types.Address{}) {
		return nil, 0, transactionError("invalid sender")
	}

	to := tx.To()
	toSystemContract := to != nil && *to == types.SystemContractAddress

	if tx.IsAA() {
		failed, _, err := e.validateAA(tx, sender, baseFee)
		if err != nil {
			return nil, 0, err
		}
		if failed {
			return nil, 0, transactionError("AA pre-validation reverted or halted")
		}
		if toSystemContract {
			// AA transactions are not permitted to call the system
			// contract; a validated one addressed there still produces
			// a failed receipt, not a block fault (spec §4.5 step 4).
			return failedReceipt(), 0, nil
		}
	}

	if toSystemContract {
		handled, receipt, err := dispatchSystemContract(e.State, cs, tx, sender, view)
		if err != nil {
			return nil, 0, err
		}
		if handled {
			return receipt, 0, nil
		}
	}

	return e.executeOrdinary(tx, sender, baseFee)
}

// validateAA synthesizes the validateTransaction(bytes32,bytes) dry-run
// call the AA variant requires before its payload may run (spec §4.5
// step 4, §6). It reports whether validation failed (revert/halt); a
// failure there faults the whole block.
func (e *Executor) validateAA(tx *types.Transaction, sender types.Address, baseFee *uint256.Int) (failed bool, gasUsed uint64, err error) {
	sighash := tx.Sighash()
	calldata := evmrt.EncodeValidateTransactionCall(sighash, tx.Signature())

	env := evmrt.TxEnv{
		Caller:      sender,
		To:          &sender,
		Value:       new(uint256.Int),
		Data:        calldata,
		GasLimit:    types.AAValidationGas,
		GasPrice:    tx.MaxFeePerGas(),
		PriorityFee: tx.MaxPriorityFeePerGas(),
		Nonce:       tx.Nonce(),
		BaseFee:     baseFee,
	}
	res, err := e.Adapter.Execute(env, e.State)
	if err != nil {
		return false, 0, evmError("AA pre-validation", err)
	}
	return res.Failed(), res.GasUsed, nil
}

// executeOrdinary calls the EVM Adapter and, on Success only, commits
// the returned state diff (spec §4.5 step 4, §4.4: "the adapter must not
// commit the diff; committing is the Block Executor's responsibility").
func (e *Executor) executeOrdinary(tx *types.Transaction, sender types.Address, baseFee *uint256.Int) (*types.Receipt, uint64, error) {
	env := evmrt.TxEnv{
		Caller:      sender,
		To:          tx.To(),
		Value:       tx.Value(),
		Data:        tx.Data(),
		GasLimit:    tx.GasLimit(),
		GasPrice:    tx.MaxFeePerGas(),
		PriorityFee: tx.MaxPriorityFeePerGas(),
		Nonce:       tx.Nonce(),
		BaseFee:     baseFee,
	}
	res, err := e.Adapter.Execute(env, e.State)
	if err != nil {
		return nil, 0, evmError("transaction execution", err)
	}

	if res.Outcome == evmrt.OutcomeSuccess {
		if err := e.commitDiff(res.StateDiff); err != nil {
			return nil, 0, err
		}
		return &types.Receipt{Status: 1, Logs: res.Logs}, res.GasUsed, nil
	}
	return &types.Receipt{Status: 0}, res.GasUsed, nil
}

func (e *Executor) commitDiff(diff map[types.Address]*evmrt.StateDiffEntry) error {
	for addr, entry := range diff {
		if entry.Account != nil {
			if err := e.State.CommitAccount(addr, entry.Account); err != nil {
				return stateError("commit state diff account", err)
			}
		}
		for slot, value := range entry.Storage {
			if err := e.State.CommitStorage(addr, slot, value); err != nil {
				return stateError("commit state diff storage", err)
			}
		}
	}
	return nil
}

// processQueues matures pending/exiting validators against the block's
// view (spec §4.5 step 5).
func processQueues(cs *types.ConsensusState, view uint64) {
	pending := cs.PendingValidators[:0]
	for _, p := range cs.PendingValidators {
		if p.ActivationView <= view {
			if !cs.InCommittee(p.PublicKey) {
				cs.Committee = append(cs.Committee, p.PublicKey)
			}
			continue
		}
		pending = append(pending, p)
	}
	cs.PendingValidators = pending

	exiting := cs.ExitingValidators[:0]
	for _, ex := range cs.ExitingValidators {
		if ex.ExitView <= view {
			if cs.InCommittee(ex.PublicKey) {
				cs.RemoveFromCommittee(ex.PublicKey)
			}
			continue
		}
		exiting = append(exiting, ex)
	}
	cs.ExitingValidators = exiting
}
