// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package evmrt

import (
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

// accountOverlay is the in-memory working copy of one account touched
// during a single transaction's execution; it is only ever merged back
// into the state.Manager when the adapter reports Success.
type accountOverlay struct {
	info    *types.AccountInfo
	storage map[types.Hash]*uint256.Int
	dirty   bool
}

// stateDB bridges go-ethereum's vm.StateDB contract to a state.Manager,
// journaling every mutation so Snapshot/RevertToSnapshot (needed by
// nested CALLs) work without touching the committed store (spec §4.4:
// "must not commit the diff").
type stateDB struct {
	base *state.Manager

	overlay map[types.Address]*accountOverlay
	order   []types.Address // insertion order, for deterministic diff iteration

	refund uint64
	logs   []types.Log

	journal   []func()
	snapshots int

	accessAddrs map[types.Address]bool
	accessSlots map[types.Address]map[types.Hash]bool

	err error
}

func newStateDB(base *state.Manager) *stateDB {
	return &stateDB{
		base:        base,
		overlay:     make(map[types.Address]*accountOverlay),
		accessAddrs: make(map[types.Address]bool),
		accessSlots: make(map[types.Address]map[types.Hash]bool),
	}
}

func toAddr(a gethcommon.Address) types.Address { return types.Address(a) }
func toHash(h gethcommon.Hash) types.Hash       { return types.Hash(h) }
func fromAddr(a types.Address) gethcommon.Address { return gethcommon.Address(a) }
func fromHash(h types.Hash) gethcommon.Hash       { return gethcommon.Hash(h) }

func (s *stateDB) load(addr types.Address) *accountOverlay {
	if o, ok := s.overlay[addr]; ok {
		return o
	}
	acct, err := s.base.Basic(addr)
	if err != nil {
		s.err = err
	}
	if acct == nil {
		acct = types.NewAccountInfo()
	}
	o := &accountOverlay{info: acct, storage: make(map[types.Hash]*uint256.Int)}
	s.overlay[addr] = o
	s.order = append(s.order, addr)
	return o
}

func (s *stateDB) CreateAccount(a gethcommon.Address) {
	addr := toAddr(a)
	o := s.load(addr)
	prev := o.info
	s.journal = append(s.journal, func() { s.overlay[addr].info = prev })
	o.info = &types.AccountInfo{Balance: prev.Balance, CodeHash: types.EmptyCodeHash}
	o.dirty = true
}

func (s *stateDB) CreateContract(gethcommon.Address) {}

func (s *stateDB) SubBalance(a gethcommon.Address, v *uint256.Int, _ interface{}) {
	addr := toAddr(a)
	o := s.load(addr)
	prev := new(uint256.Int).Set(o.info.Balance)
	s.journal = append(s.journal, func() { s.overlay[addr].info.Balance = prev })
	o.info.Balance = types.SaturatingSub(o.info.Balance, v)
	o.dirty = true
}

func (s *stateDB) AddBalance(a gethcommon.Address, v *uint256.Int, _ interface{}) {
	addr := toAddr(a)
	o := s.load(addr)
	prev := new(uint256.Int).Set(o.info.Balance)
	s.journal = append(s.journal, func() { s.overlay[addr].info.Balance = prev })
	o.info.Balance = types.WrappingAdd(o.info.Balance, v)
	o.dirty = true
}

func (s *stateDB) GetBalance(a gethcommon.Address) *uint256.Int {
	return s.load(toAddr(a)).info.Balance
}

func (s *stateDB) GetNonce(a gethcommon.Address) uint64 { return s.load(toAddr(a)).info.Nonce }

func (s *stateDB) SetNonce(a gethcommon.Address, n uint64) {
	addr := toAddr(a)
	o := s.load(addr)
	prev := o.info.Nonce
	s.journal = append(s.journal, func() { s.overlay[addr].info.Nonce = prev })
	o.info.Nonce = n
	o.dirty = true
}

func (s *stateDB) GetCodeHash(a gethcommon.Address) gethcommon.Hash {
	return fromHash(s.load(toAddr(a)).info.CodeHash)
}

func (s *stateDB) GetCode(a gethcommon.Address) []byte { return s.load(toAddr(a)).info.Code }

func (s *stateDB) SetCode(a gethcommon.Address, code []byte) {
	addr := toAddr(a)
	o := s.load(addr)
	prevCode, prevHash := o.info.Code, o.info.CodeHash
	s.journal = append(s.journal, func() {
		s.overlay[addr].info.Code, s.overlay[addr].info.CodeHash = prevCode, prevHash
	})
	o.info.Code = code
	o.info.CodeHash = types.EmptyCodeHash
	if len(code) > 0 {
		o.info.CodeHash = types.HashData(code)
	}
	o.dirty = true
}

func (s *stateDB) GetCodeSize(a gethcommon.Address) int { return len(s.load(toAddr(a)).info.Code) }

func (s *stateDB) AddRefund(v uint64) {
	prev := s.refund
	s.journal = append(s.journal, func() { s.refund = prev })
	s.refund += v
}

func (s *stateDB) SubRefund(v uint64) {
	prev := s.refund
	s.journal = append(s.journal, func() { s.refund = prev })
	if v > s.refund {
		s.refund = 0
		return
	}
	s.refund -= v
}

func (s *stateDB) GetRefund() uint64 { return s.refund }

func (s *stateDB) getStorage(addr types.Address, slot types.Hash) *uint256.Int {
	o := s.load(addr)
	if v, ok := o.storage[slot]; ok {
		return v
	}
	v, err := s.base.Storage(addr, slot)
	if err != nil {
		s.err = err
		v = new(uint256.Int)
	}
	o.storage[slot] = v
	return v
}

func (s *stateDB) GetCommittedState(a gethcommon.Address, k gethcommon.Hash) gethcommon.Hash {
	v, err := s.base.Storage(toAddr(a), toHash(k))
	if err != nil {
		s.err = err
		return gethcommon.Hash{}
	}
	return fromHash(v.Bytes32())
}

func (s *stateDB) GetState(a gethcommon.Address, k gethcommon.Hash) gethcommon.Hash {
	return fromHash(s.getStorage(toAddr(a), toHash(k)).Bytes32())
}

func (s *stateDB) SetState(a gethcommon.Address, k, v gethcommon.Hash) {
	addr, slot := toAddr(a), toHash(k)
	o := s.load(addr)
	prev := o.storage[slot]
	s.journal = append(s.journal, func() {
		if prev == nil {
			delete(s.overlay[addr].storage, slot)
			return
		}
		s.overlay[addr].storage[slot] = prev
	})
	nv := new(uint256.Int)
	nv.SetBytes(v[:])
	o.storage[slot] = nv
	o.dirty = true
}

func (s *stateDB) GetStorageRoot(gethcommon.Address) gethcommon.Hash { return gethcommon.Hash{} }

func (s *stateDB) GetTransientState(a gethcommon.Address, k gethcommon.Hash) gethcommon.Hash {
	return gethcommon.Hash{}
}
func (s *stateDB) SetTransientState(a gethcommon.Address, k, v gethcommon.Hash) {}

func (s *stateDB) SelfDestruct(a gethcommon.Address) {
	addr := toAddr(a)
	o := s.load(addr)
	prevInfo, prevDirty := o.info, o.dirty
	s.journal = append(s.journal, func() {
		s.overlay[addr].info, s.overlay[addr].dirty = prevInfo, prevDirty
	})
	o.info = types.NewAccountInfo()
	o.dirty = true
}

func (s *stateDB) HasSelfDestructed(gethcommon.Address) bool { return false }
func (s *stateDB) Selfdestruct6780(a gethcommon.Address)     { s.SelfDestruct(a) }

func (s *stateDB) Exist(a gethcommon.Address) bool {
	acct, err := s.base.Basic(toAddr(a))
	if err != nil {
		s.err = err
	}
	_, inOverlay := s.overlay[toAddr(a)]
	return acct != nil || inOverlay
}

func (s *stateDB) Empty(a gethcommon.Address) bool {
	return s.load(toAddr(a)).info.IsEmpty()
}

func (s *stateDB) AddressInAccessList(a gethcommon.Address) bool {
	return s.accessAddrs[toAddr(a)]
}

func (s *stateDB) SlotInAccessList(a gethcommon.Address, k gethcommon.Hash) (bool, bool) {
	addrOK := s.accessAddrs[toAddr(a)]
	slots := s.accessSlots[toAddr(a)]
	return addrOK, slots != nil && slots[toHash(k)]
}

func (s *stateDB) AddAddressToAccessList(a gethcommon.Address) { s.accessAddrs[toAddr(a)] = true }

func (s *stateDB) AddSlotToAccessList(a gethcommon.Address, k gethcommon.Hash) {
	addr := toAddr(a)
	s.accessAddrs[addr] = true
	if s.accessSlots[addr] == nil {
		s.accessSlots[addr] = make(map[types.Hash]bool)
	}
	s.accessSlots[addr][toHash(k)] = true
}

func (s *stateDB) Prepare(rules interface{}, sender, coinbase gethcommon.Address, dest *gethcommon.Address, precompiles []gethcommon.Address, txAccesses gethtypes.AccessList) {
	s.AddAddressToAccessList(sender)
	s.AddAddressToAccessList(coinbase)
	if dest != nil {
		s.AddAddressToAccessList(*dest)
	}
	for _, p := range precompiles {
		s.AddAddressToAccessList(p)
	}
	for _, entry := range txAccesses {
		s.AddAddressToAccessList(entry.Address)
		for _, slot := range entry.StorageKeys {
			s.AddSlotToAccessList(entry.Address, slot)
		}
	}
}

func (s *stateDB) RevertToSnapshot(id int) {
	for len(s.journal) > id {
		f := s.journal[len(s.journal)-1]
		s.journal = s.journal[:len(s.journal)-1]
		f()
	}
}

func (s *stateDB) Snapshot() int { return len(s.journal) }

func (s *stateDB) AddLog(l *gethtypes.Log) {
	topics := make([]types.Hash, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = toHash(t)
	}
	s.logs = append(s.logs, types.Log{Address: toAddr(l.Address), Topics: topics, Data: l.Data})
}

func (s *stateDB) AddPreimage(gethcommon.Hash, []byte) {}

var _ vm.StateDB = (*stateDB)(nil)

// diff returns the Success state_diff: every account marked dirty. The
// result is a map, so the touched order is not carried over.
func (s *stateDB) diff() map[types.Address]*StateDiffEntry {
	out := make(map[types.Address]*StateDiffEntry, len(s.order))
	for _, addr := range s.order {
		o := s.overlay[addr]
		if !o.dirty {
			continue
		}
		out[addr] = &StateDiffEntry{Account: o.info, Storage: o.storage}
	}
	return out
}
