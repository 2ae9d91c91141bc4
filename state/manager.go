// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package state implements the State Manager (spec §4.3): account,
// storage and consensus meta-state access layered over the SMT and the
// flat KV store, kept in lock-step so every commit updates both.
package state

import (
	"fmt"
	"sync"

	"github.com/bftchain/core/smt"
	"github.com/bftchain/core/storage"
	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// Error wraps SMT or serialization failures (spec §7: "State errors —
// SMT or serialization failure; treated as block-apply failures. The
// block is not committed.").
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("state: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error  { return e.Err }

// Manager is the abstraction handed to the EVM Adapter as its database
// (spec §4.3). All commits go through it so the SMT and the flat KV
// store never diverge.
type Manager struct {
	kv   storage.KV
	tree *smt.Tree

	mu   sync.Mutex // guards root; held for the duration of UpdateAccount/Root (spec §5)
	root types.Hash
}

// NewManager returns a Manager over kv, rooted at root. Pass
// smt.EmptyRoot() for a fresh chain before genesis allocation.
func NewManager(kv storage.KV, root types.Hash) *Manager {
	return &Manager{kv: kv, tree: smt.New(kv), root: root}
}

// OpenManager returns a Manager over kv rooted at the last persisted
// state root, or at an empty tree if kv has never been written to.
func OpenManager(kv storage.KV) (*Manager, error) {
	raw, err := kv.Get(storage.StateRootKey)
	if err == storage.ErrNotFound {
		return NewManager(kv, smt.EmptyRoot()), nil
	}
	if err != nil {
		return nil, storage.WrapErr("state-root-get", err)
	}
	var root types.Hash
	copy(root[:], raw)
	return NewManager(kv, root), nil
}

// PersistRoot writes the current root so a later OpenManager resumes
// from it.
func (m *Manager) PersistRoot() error {
	root := m.Root()
	return storage.WrapErr("state-root-put", m.kv.Put(storage.StateRootKey, root[:]))
}

// Root returns the current SMT root (spec §4.3).
func (m *Manager) Root() types.Hash {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.root
}

// accountLeafKey is keccak256(address), per spec §4.2.
func accountLeafKey(addr types.Address) types.Hash {
	return crypto.Keccak256Hash(addr[:])
}

// Basic reads the current account, resolving code via CodeHash if it
// was not already inlined (spec §4.3: "basic(address) -> Option<AccountInfo>").
func (m *Manager) Basic(addr types.Address) (*types.AccountInfo, error) {
	raw, err := m.kv.Get(storage.AccountKey(addr))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storage.WrapErr("account-get", err)
	}
	var acct types.AccountInfo
	if err := rlp.DecodeBytes(raw, &acct); err != nil {
		return nil, &Error{Op: "decode-account", Err: err}
	}
	if len(acct.Code) == 0 && acct.CodeHash != types.EmptyCodeHash {
		code, err := m.CodeByHash(acct.CodeHash)
		if err != nil {
			return nil, err
		}
		acct.Code = code
	}
	return &acct, nil
}

// CodeByHash returns code for hash, defaulting to empty on miss (spec
// §4.3: "code_by_hash(hash) -> bytes — default empty on miss").
func (m *Manager) CodeByHash(hash types.Hash) ([]byte, error) {
	if hash == types.EmptyCodeHash {
		return nil, nil
	}
	v, err := m.kv.Get(storage.CodeKey(hash))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storage.WrapErr("code-get", err)
	}
	return v, nil
}

// Storage returns a contract storage slot's value; absent slots read as
// zero (spec §4.3: "storage(address, slot) -> U256 — flat lookup").
func (m *Manager) Storage(addr types.Address, slot types.Hash) (*uint256.Int, error) {
	v, err := m.kv.Get(storage.StorageSlotKey(addr, slot))
	if err == storage.ErrNotFound {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, storage.WrapErr("storage-get", err)
	}
	out := new(uint256.Int)
	out.SetBytes(v)
	return out, nil
}

// BlockHash returns the zero hash; historical block-hash lookup is an
// optional capability this core does not provide (spec §4.3).
func (m *Manager) BlockHash(uint64) types.Hash { return types.Hash{} }

// CommitAccount persists the account and updates the SMT leaf to
// hash(AccountInfo), recomputing the root (spec §4.3).
func (m *Manager) CommitAccount(addr types.Address, acct *types.AccountInfo) error {
	if len(acct.Code) > 0 {
		if err := m.kv.Put(storage.CodeKey(acct.CodeHash), acct.Code); err != nil {
			return storage.WrapErr("code-put", err)
		}
	}
	enc, err := rlp.EncodeToBytes(acct)
	if err != nil {
		return &Error{Op: "encode-account", Err: err}
	}
	if err := m.kv.Put(storage.AccountKey(addr), enc); err != nil {
		return storage.WrapErr("account-put", err)
	}
	_, err = m.UpdateAccount(addr, acct.Hash())
	return err
}

// CommitStorage persists a storage slot value. The SMT is untouched
// (spec §4.2: a deliberate simplification — account-level root commits
// to balance/nonce/code but not to storage).
func (m *Manager) CommitStorage(addr types.Address, slot types.Hash, value *uint256.Int) error {
	return storage.WrapErr("storage-put", m.kv.Put(storage.StorageSlotKey(addr, slot), value.Bytes()))
}

// UpdateAccount is the lower-level SMT write used internally by
// CommitAccount (spec §4.3: "update_account(address, account_hash) ->
// new_root").
func (m *Manager) UpdateAccount(addr types.Address, accountHash types.Hash) (types.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	newRoot, err := m.tree.Update(m.root, accountLeafKey(addr), accountHash)
	if err != nil {
		return types.Hash{}, &Error{Op: "smt-update", Err: err}
	}
	m.root = newRoot
	return newRoot, nil
}

// Snapshot returns a cheap structural clone used for ephemeral execution
// (call/estimate_gas); it must not mutate the underlying store (spec
// §4.3). Only a MemDB-backed manager supports this directly; callers
// executing against a durable backend should Fork onto a fresh MemDB
// overlay instead.
func (m *Manager) Snapshot() (*Manager, error) {
	mem, ok := m.kv.(*storage.MemDB)
	if !ok {
		return nil, &Error{Op: "snapshot", Err: fmt.Errorf("backing store does not support cheap structural clone")}
	}
	return NewManager(mem.Clone(), m.Root()), nil
}

// Fork returns a new Manager rooted at newRoot backed by the given
// store, for speculative execution on alternate branches (spec §4.3).
func (m *Manager) Fork(newRoot types.Hash, backing storage.KV) *Manager {
	return NewManager(backing, newRoot)
}

// KV exposes the backing store, e.g. so the executor can persist
// ConsensusState alongside account commits.
func (m *Manager) KV() storage.KV { return m.kv }

// GetConsensusState loads the persisted consensus meta-state, or a fresh
// zero-valued state if none has been saved yet.
func (m *Manager) GetConsensusState() (*types.ConsensusState, error) {
	raw, err := m.kv.Get(storage.ConsensusStateKey)
	if err == storage.ErrNotFound {
		return types.NewConsensusState(), nil
	}
	if err != nil {
		return nil, storage.WrapErr("consensus-state-get", err)
	}
	cs := types.NewConsensusState()
	if err := rlp.DecodeBytes(raw, cs); err != nil {
		return nil, &Error{Op: "decode-consensus-state", Err: err}
	}
	return cs, nil
}

// SaveConsensusState persists the consensus meta-state under its fixed
// singleton key (spec §6).
func (m *Manager) SaveConsensusState(cs *types.ConsensusState) error {
	enc, err := rlp.EncodeToBytes(cs)
	if err != nil {
		return &Error{Op: "encode-consensus-state", Err: err}
	}
	return storage.WrapErr("consensus-state-put", m.kv.Put(storage.ConsensusStateKey, enc))
}
