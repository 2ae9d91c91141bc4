// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package mempool implements transaction admission and block-building
// selection (spec §4.8): signature/AA verification and nonce discipline
// at insertion time, and priority-fee-ordered greedy packing under a
// block gas budget at selection time.
package mempool

import (
	"bytes"
	"sort"
	"sync"

	"github.com/bftchain/core/evmrt"
	"github.com/bftchain/core/log"
	"github.com/bftchain/core/metrics"
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Status is one of the outcomes of Add (spec §4.8 "add(tx) -> Ok |
// AlreadyExists | InvalidSignature | InvalidAA(msg) | InvalidNonce(...) |
// StorageError | GasLimitExceeded(...)").
type Status int

const (
	Ok Status = iota
	AlreadyExists
	InvalidSignature
	InvalidAA
	InvalidNonce
	StorageError
	GasLimitExceeded
)

func (s Status) String() string {
	switch s {
	case Ok:
		return "Ok"
	case AlreadyExists:
		return "AlreadyExists"
	case InvalidSignature:
		return "InvalidSignature"
	case InvalidAA:
		return "InvalidAA"
	case InvalidNonce:
		return "InvalidNonce"
	case StorageError:
		return "StorageError"
	case GasLimitExceeded:
		return "GasLimitExceeded"
	default:
		return "Unknown"
	}
}

// AddResult reports the admission outcome, with the payload relevant to
// whichever Status was returned.
type AddResult struct {
	Status    Status
	Msg       string // InvalidAA, StorageError
	Expected  uint64 // InvalidNonce
	Got       uint64 // InvalidNonce, GasLimitExceeded
	Max       uint64 // GasLimitExceeded
}

// broadcastCapacity bounds the outbound channel so a slow or absent
// consumer never makes Add block (spec §4.8: "the core performs the
// enqueue non-blockingly and does not await delivery").
const broadcastCapacity = 4096

// Mempool holds admitted transactions keyed by hash plus a FIFO order
// for eviction bookkeeping, per spec §4.8 step 5.
type Mempool struct {
	mu      sync.Mutex
	state   *state.Manager
	adapter evmrt.Adapter
	baseFee *uint256.Int

	byHash map[types.Hash]*types.Transaction
	order  []types.Hash

	broadcast chan *types.Transaction
	metrics   *metrics.Mempool
}

// New returns an empty Mempool backed by st for nonce/AA-dry-run checks
// and adapter for the AA validateTransaction dry run.
func New(st *state.Manager, adapter evmrt.Adapter, baseFee *uint256.Int) *Mempool {
	return &Mempool{
		state:     st,
		adapter:   adapter,
		baseFee:   baseFee,
		byHash:    make(map[types.Hash]*types.Transaction),
		broadcast: make(chan *types.Transaction, broadcastCapacity),
	}
}

// WithMetrics attaches a metric set that Add/Remove keep up to date.
// Optional: a Mempool built via New alone runs uninstrumented.
func (m *Mempool) WithMetrics(metrics *metrics.Mempool) *Mempool {
	m.metrics = metrics
	return m
}

// SetBaseFee updates the base fee used by subsequent admissions'
// AA dry-runs (the block's current fee, tracked by the caller via
// executor.NextBaseFee).
func (m *Mempool) SetBaseFee(baseFee *uint256.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseFee = baseFee
}

// Broadcast exposes the bounded outbound channel new admissions are
// forwarded to.
func (m *Mempool) Broadcast() <-chan *types.Transaction { return m.broadcast }

// Add runs the five-step admission order (spec §4.8).
func (m *Mempool) Add(tx *types.Transaction) (result AddResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.recordAdd(result) }()

	if tx.GasLimit() > types.MaxTxGasLimit {
		return AddResult{Status: GasLimitExceeded, Max: types.MaxTxGasLimit, Got: tx.GasLimit()}
	}

	if tx.IsAA() {
		if !m.dryRunAA(tx) {
			return AddResult{Status: InvalidAA, Msg: "validateTransaction reverted or halted"}
		}
	} else {
		if !verifyLegacySignature(tx) {
			return AddResult{Status: InvalidSignature}
		}
	}

	sender, err := tx.Sender()
	if err != nil {
		return AddResult{Status: InvalidSignature}
	}
	acct, err := m.state.Basic(sender)
	if err != nil {
		return AddResult{Status: StorageError, Msg: err.Error()}
	}
	var onChainNonce uint64
	if acct != nil {
		onChainNonce = acct.Nonce
	}
	if tx.Nonce() < onChainNonce {
		return AddResult{Status: InvalidNonce, Expected: onChainNonce, Got: tx.Nonce()}
	}

	hash := tx.Hash()
	if _, exists := m.byHash[hash]; exists {
		return AddResult{Status: AlreadyExists}
	}

	m.byHash[hash] = tx
	m.order = append(m.order, hash)

	select {
	case m.broadcast <- tx:
		if m.metrics != nil {
			m.metrics.Broadcasts.Inc()
		}
	default:
		log.Warn("mempool broadcast channel full, dropping enqueue", "hash", hash)
	}

	return AddResult{Status: Ok}
}

// recordAdd updates the attached metric set, if any, for the outcome of
// an Add call. Must run with m.mu still held, matching the gauge read of
// m.byHash below.
func (m *Mempool) recordAdd(result AddResult) {
	if m.metrics == nil {
		return
	}
	if result.Status == Ok {
		m.metrics.Admitted.Inc()
		m.metrics.Size.Set(float64(len(m.byHash)))
		return
	}
	m.metrics.Rejected.WithLabelValues(result.Status.String()).Inc()
}

// verifyLegacySignature checks the embedded signature against the
// embedded public key over sighash(tx) (spec §4.8 step 2).
func verifyLegacySignature(tx *types.Transaction) bool {
	ld := tx.Legacy()
	if ld == nil || len(ld.PublicKey) == 0 || len(ld.Signature) < 64 {
		return false
	}
	sighash := tx.Sighash()
	return crypto.VerifySignature(ld.PublicKey, sighash[:], ld.Signature[:64])
}

// dryRunAA runs validateTransaction against a snapshot of the current
// state, never committing its (discarded) result (spec §4.8 step 2: "a
// fresh ephemeral state view").
func (m *Mempool) dryRunAA(tx *types.Transaction) bool {
	snap, err := m.state.Snapshot()
	if err != nil {
		snap = m.state
	}
	sender, _ := tx.Sender()
	calldata := evmrt.EncodeValidateTransactionCall(tx.Sighash(), tx.Signature())
	env := evmrt.TxEnv{
		Caller:      sender,
		To:          &sender,
		Value:       new(uint256.Int),
		Data:        calldata,
		GasLimit:    types.AAValidationGas,
		GasPrice:    tx.MaxFeePerGas(),
		PriorityFee: tx.MaxPriorityFeePerGas(),
		Nonce:       tx.Nonce(),
		BaseFee:     m.baseFee,
	}
	res, err := m.adapter.Execute(env, snap)
	if err != nil {
		return false
	}
	return !res.Failed()
}

// Remove evicts the given transactions' hashes, invoked after a block
// is applied (spec §4.8: "remove(list of Transaction)").
func (m *Mempool) Remove(txs []*types.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range txs {
		delete(m.byHash, tx.Hash())
	}
	m.compactOrder()
	if m.metrics != nil {
		m.metrics.Size.Set(float64(len(m.byHash)))
	}
}

func (m *Mempool) compactOrder() {
	out := m.order[:0]
	for _, h := range m.order {
		if _, ok := m.byHash[h]; ok {
			out = append(out, h)
		}
	}
	m.order = out
}

// Len reports the number of admitted transactions.
func (m *Mempool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byHash)
}

// IsEmpty reports whether the pool holds no transactions.
func (m *Mempool) IsEmpty() bool { return m.Len() == 0 }

type candidate struct {
	tx     *types.Transaction
	sender types.Address
	effTip *uint256.Int
}

// Select packs an ordered payload under blockGasLimit at baseFee (spec
// §4.8 "Selection"). Transactions whose max_fee_per_gas is below baseFee
// are dropped; the remainder is sorted by descending effective tip, with
// ties broken by ascending nonce within the same sender, else by
// ascending sender address.
func (m *Mempool) Select(blockGasLimit uint64, baseFee *uint256.Int) []*types.Transaction {
	m.mu.Lock()
	txs := make([]*types.Transaction, 0, len(m.byHash))
	for _, h := range m.order {
		if tx, ok := m.byHash[h]; ok {
			txs = append(txs, tx)
		}
	}
	m.mu.Unlock()

	candidates := make([]candidate, 0, len(txs))
	for _, tx := range txs {
		if tx.MaxFeePerGas().Cmp(baseFee) < 0 {
			continue
		}
		sender, err := tx.Sender()
		if err != nil {
			continue
		}
		headroom := new(uint256.Int).Sub(tx.MaxFeePerGas(), baseFee)
		effTip := tx.MaxPriorityFeePerGas()
		if headroom.Cmp(effTip) < 0 {
			effTip = headroom
		}
		candidates = append(candidates, candidate{tx: tx, sender: sender, effTip: effTip})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if cmp := a.effTip.Cmp(b.effTip); cmp != 0 {
			return cmp > 0
		}
		if a.sender == b.sender {
			return a.tx.Nonce() < b.tx.Nonce()
		}
		return bytes.Compare(a.sender[:], b.sender[:]) < 0
	})

	var gas uint64
	out := make([]*types.Transaction, 0, len(candidates))
	for _, c := range candidates {
		if gas >= blockGasLimit {
			break
		}
		if gas+c.tx.GasLimit() > blockGasLimit {
			continue
		}
		out = append(out, c.tx)
		gas += c.tx.GasLimit()
	}
	return out
}
