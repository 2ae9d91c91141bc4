// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package executor implements the Block Executor (spec §4.5): the
// per-block orchestration of pre-validation, evidence/liveness slashing,
// transaction application (including the system-contract intercept),
// activation/exit queue processing, and root finalization.
package executor

import "fmt"

// Kind distinguishes the three block-apply failure categories (spec §7).
type Kind int

const (
	KindEVM Kind = iota
	KindState
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindEVM:
		return "EVM"
	case KindState:
		return "State"
	case KindTransaction:
		return "Transaction"
	default:
		return "Unknown"
	}
}

// ExecutionError is returned by ExecuteBlock on any block-apply failure.
// All three kinds cause the caller (the external consensus collaborator)
// to discard the block (spec §7).
type ExecutionError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("executor: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("executor: %s: %s", e.Kind, e.Msg)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

func transactionError(msg string) error { return &ExecutionError{Kind: KindTransaction, Msg: msg} }

func stateError(msg string, err error) error {
	return &ExecutionError{Kind: KindState, Msg: msg, Err: err}
}

func evmError(msg string, err error) error {
	return &ExecutionError{Kind: KindEVM, Msg: msg, Err: err}
}
