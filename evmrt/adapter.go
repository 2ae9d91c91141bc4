// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package evmrt defines the EVM Adapter contract (spec §4.4) — the
// pluggable, external "available EVM component" the block executor
// drives — and a concrete implementation backed by go-ethereum's
// core/vm interpreter.
package evmrt

import (
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	"github.com/holiman/uint256"
)

// TxEnv is the transaction environment passed to Execute (spec §4.4).
type TxEnv struct {
	Caller      types.Address
	To          *types.Address // nil = contract creation
	Value       *uint256.Int
	Data        []byte
	GasLimit    uint64
	GasPrice    *uint256.Int
	PriorityFee *uint256.Int
	Nonce       uint64
	BaseFee     *uint256.Int
}

// StateDiffEntry is one account's post-execution state, only populated
// on Success (spec §4.4: "state_diff: mapping address -> (AccountInfo',
// mapping slot -> value')").
type StateDiffEntry struct {
	Account *types.AccountInfo
	Storage map[types.Hash]*uint256.Int
}

// Outcome tags which of the three execution results occurred.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRevert
	OutcomeHalt
)

// Result is the Adapter's output (spec §4.4): exactly one of Success,
// Revert or Halt.
type Result struct {
	Outcome   Outcome
	GasUsed   uint64
	Logs      []types.Log               // Success only
	Output    []byte                    // Revert reason data, or Success return data
	StateDiff map[types.Address]*StateDiffEntry // Success only
	HaltReason string                   // Halt only
}

// Failed reports whether the result is Revert or Halt (spec: "status =
// 0 represents executed but reverted/halted").
func (r *Result) Failed() bool { return r.Outcome != OutcomeSuccess }

// Adapter executes a single transaction against a state.Manager view
// and returns one of Success/Revert/Halt. It must never commit the
// diff; committing is the Block Executor's responsibility (spec §4.4).
type Adapter interface {
	Execute(env TxEnv, st *state.Manager) (*Result, error)
}
