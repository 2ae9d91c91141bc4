// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package rpcapi exposes the RPC surface the external consensus
// collaborator drives (spec §6): block and status lookups, transaction
// submission, account queries, and read-only call/estimate_gas against
// the committed state.
package rpcapi

// internalErrorCode is the single JSON-RPC error code this core ever
// returns (spec §6: "Error code -32000 with a diagnostic message on any
// internal failure").
const internalErrorCode = -32000

// rpcError implements github.com/ethereum/go-ethereum/rpc's rpc.Error
// interface (Error() string, ErrorCode() int) so the go-ethereum
// RPC server encodes it with code -32000 rather than the JSON-RPC
// default -32603.
type rpcError struct {
	msg string
}

func (e *rpcError) Error() string { return e.msg }
func (e *rpcError) ErrorCode() int { return internalErrorCode }

func internalError(msg string) error { return &rpcError{msg: msg} }

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &rpcError{msg: op + ": " + err.Error()}
}
