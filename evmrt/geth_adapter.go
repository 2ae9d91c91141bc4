// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package evmrt

import (
	"math/big"

	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// GethAdapter is the EVM Adapter (spec §4.4) backed by go-ethereum's
// core/vm interpreter — the "available EVM component with a pluggable
// state backend" the spec assumes rather than asks this core to
// reimplement.
type GethAdapter struct {
	ChainConfig *params.ChainConfig
	BlockNumber *big.Int
	BlockTime   uint64
	Coinbase    types.Address
}

// NewGethAdapter returns an adapter configured for a London-and-later
// ruleset (the spec's fee market is EIP-1559 throughout).
func NewGethAdapter(chainID uint64) *GethAdapter {
	cfg := &params.ChainConfig{
		ChainID:             new(big.Int).SetUint64(chainID),
		HomesteadBlock:      big.NewInt(0),
		EIP150Block:         big.NewInt(0),
		EIP155Block:         big.NewInt(0),
		EIP158Block:         big.NewInt(0),
		ByzantiumBlock:      big.NewInt(0),
		ConstantinopleBlock: big.NewInt(0),
		PetersburgBlock:     big.NewInt(0),
		IstanbulBlock:       big.NewInt(0),
		BerlinBlock:         big.NewInt(0),
		LondonBlock:         big.NewInt(0),
	}
	return &GethAdapter{ChainConfig: cfg, BlockNumber: big.NewInt(0)}
}

func (a *GethAdapter) Execute(env TxEnv, st *state.Manager) (*Result, error) {
	sdb := newStateDB(st)

	blockCtx := vm.BlockContext{
		CanTransfer: func(db vm.StateDB, addr gethcommon.Address, amount *uint256.Int) bool {
			return db.GetBalance(addr).Cmp(amount) >= 0
		},
		Transfer: func(db vm.StateDB, from, to gethcommon.Address, amount *uint256.Int) {
			db.SubBalance(from, amount, 0)
			db.AddBalance(to, amount, 0)
		},
		Coinbase:    gethcommon.Address(a.Coinbase),
		BlockNumber: a.BlockNumber,
		Time:        a.BlockTime,
		Difficulty:  big.NewInt(0),
		GasLimit:    env.GasLimit,
		BaseFee:     env.BaseFee.ToBig(),
	}

	txCtx := vm.TxContext{
		Origin:   gethcommon.Address(env.Caller),
		GasPrice: env.GasPrice.ToBig(),
	}

	evm := vm.NewEVM(blockCtx, txCtx, sdb, a.ChainConfig, vm.Config{})

	var (
		ret     []byte
		gasLeft uint64
		vmErr   error
	)
	gas := env.GasLimit
	value := env.Value
	if env.To == nil {
		var contractAddr gethcommon.Address
		ret, contractAddr, gasLeft, vmErr = evm.Create(vm.AccountRef(env.Caller), env.Data, gas, value)
		_ = contractAddr
	} else {
		ret, gasLeft, vmErr = evm.Call(vm.AccountRef(env.Caller), gethcommon.Address(*env.To), env.Data, gas, value)
	}

	gasUsed := gas - gasLeft
	if sdb.err != nil {
		return nil, sdb.err
	}

	if vmErr == nil {
		return &Result{
			Outcome:   OutcomeSuccess,
			GasUsed:   gasUsed,
			Logs:      sdb.logs,
			Output:    ret,
			StateDiff: sdb.diff(),
		}, nil
	}
	if vmErr == vm.ErrExecutionReverted {
		return &Result{Outcome: OutcomeRevert, GasUsed: gasUsed, Output: ret}, nil
	}
	return &Result{Outcome: OutcomeHalt, GasUsed: gasUsed, HaltReason: vmErr.Error()}, nil
}
