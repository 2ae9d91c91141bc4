// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package types

import "github.com/holiman/uint256"

// EmptyCodeHash is the code hash of an account with no code (spec §3:
// "Empty code is represented by code_hash = default").
var EmptyCodeHash = Hash{}

// AccountInfo is the value committed to the sparse Merkle tree leaf at
// keccak256(address) (spec §4.2/§4.3). Code is either carried inline
// (fresh deploys, before the code KV write lands) or resolved later via
// CodeHash; it is never part of the RLP encoding that determines the
// leaf hash, so two accounts with identical nonce/balance/code_hash but
// different inline-code caching state hash identically.
type AccountInfo struct {
	Nonce    uint64
	Balance  *uint256.Int
	CodeHash Hash
	Code     []byte `rlp:"-"`
}

// NewAccountInfo returns a fresh, empty account (nonce 0, zero balance,
// no code).
func NewAccountInfo() *AccountInfo {
	return &AccountInfo{
		Balance:  new(uint256.Int),
		CodeHash: EmptyCodeHash,
	}
}

// Hash returns the account's content hash, i.e. the SMT leaf value for
// this account (spec §4.3: "value = hash(AccountInfo)").
func (a *AccountInfo) Hash() Hash {
	return HashData(a)
}

// IsEmpty reports whether the account has never been funded, nonced or
// given code — i.e. whether it is indistinguishable from "absent".
func (a *AccountInfo) IsEmpty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && a.CodeHash == EmptyCodeHash
}

// Clone returns a deep copy safe to mutate independently of a.
func (a *AccountInfo) Clone() *AccountInfo {
	cp := &AccountInfo{
		Nonce:    a.Nonce,
		Balance:  new(uint256.Int).Set(a.Balance),
		CodeHash: a.CodeHash,
	}
	if len(a.Code) > 0 {
		cp.Code = append([]byte(nil), a.Code...)
	}
	return cp
}
