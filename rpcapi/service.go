// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rpcapi

import (
	"context"
	"strconv"
	"strings"

	"github.com/bftchain/core/evmrt"
	"github.com/bftchain/core/executor"
	"github.com/bftchain/core/mempool"
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"
)

// Service implements the RPC surface consumed by the external
// consensus collaborator (spec §6). go-ethereum's rpc server registers
// each exported method under its lowerCamelCase name in the "bft"
// namespace ("bft_getStatus", "bft_sendTransaction", ...).
type Service struct {
	store         *ChainStore
	state         *state.Manager
	pool          *mempool.Mempool
	adapter       evmrt.Adapter
	chainID       uint64
	blockGasLimit uint64
}

// NewService wires the chain store, state, mempool and EVM adapter into
// an RPC service bound to a fixed chain id and block gas limit.
func NewService(store *ChainStore, st *state.Manager, pool *mempool.Mempool, adapter evmrt.Adapter, chainID, blockGasLimit uint64) *Service {
	return &Service{store: store, state: st, pool: pool, adapter: adapter, chainID: chainID, blockGasLimit: blockGasLimit}
}

// APIs returns the rpc.API registration for this service, under the
// "bft" namespace.
func APIs(svc *Service) []rpc.API {
	return []rpc.API{{
		Namespace: "bft",
		Service:   svc,
	}}
}

// StatusReply is the get_status response (spec §3 consensus-state
// fields "consumed by the external consensus collaborator").
type StatusReply struct {
	View            uint64     `json:"view"`
	FinalizedHeight uint64     `json:"finalizedHeight"`
	PreferredBlock  types.Hash `json:"preferredBlock"`
	PreferredView   uint64     `json:"preferredView"`
	LastVotedView   uint64     `json:"lastVotedView"`
	CommitteeSize   int        `json:"committeeSize"`
}

// GetStatus reports the current consensus meta-state.
func (s *Service) GetStatus(ctx context.Context) (*StatusReply, error) {
	cs, err := s.state.GetConsensusState()
	if err != nil {
		return nil, wrapError("get_status", err)
	}
	return &StatusReply{
		View:            cs.View,
		FinalizedHeight: cs.FinalizedHeight,
		PreferredBlock:  cs.PreferredBlock,
		PreferredView:   cs.PreferredView,
		LastVotedView:   cs.LastVotedView,
		CommitteeSize:   len(cs.Committee),
	}, nil
}

// GetBlockByHash returns the block stored at hash, or nil if absent.
func (s *Service) GetBlockByHash(ctx context.Context, hash types.Hash) (*types.Block, error) {
	block, err := s.store.GetByHash(hash)
	if err != nil {
		return nil, wrapError("get_block_by_hash", err)
	}
	return block, nil
}

// GetLatestBlock returns the block at the consensus state's
// preferred_block (spec §6: "get_latest_block (= block at
// preferred_block)").
func (s *Service) GetLatestBlock(ctx context.Context) (*types.Block, error) {
	cs, err := s.state.GetConsensusState()
	if err != nil {
		return nil, wrapError("get_latest_block", err)
	}
	block, err := s.store.GetByHash(cs.PreferredBlock)
	if err != nil {
		return nil, wrapError("get_latest_block", err)
	}
	return block, nil
}

// GetBlockByNumber resolves "latest", a decimal height, or a "0x"-
// prefixed hex height (spec §6).
func (s *Service) GetBlockByNumber(ctx context.Context, number string) (*types.Block, error) {
	if number == "latest" {
		return s.GetLatestBlock(ctx)
	}
	height, err := parseBlockNumber(number)
	if err != nil {
		return nil, internalError("get_block_by_number: " + err.Error())
	}
	block, err := s.store.GetByHeight(height)
	if err != nil {
		return nil, wrapError("get_block_by_number", err)
	}
	return block, nil
}

func parseBlockNumber(number string) (uint64, error) {
	if strings.HasPrefix(number, "0x") || strings.HasPrefix(number, "0X") {
		return strconv.ParseUint(number[2:], 16, 64)
	}
	return strconv.ParseUint(number, 10, 64)
}

// SendTransactionReply is the send_transaction response (spec scenario
// 7: "returns hash = hash_data(tx)").
type SendTransactionReply struct {
	Hash types.Hash `json:"hash"`
}

// SendTransaction admits tx into the mempool and reports its content
// hash on success.
func (s *Service) SendTransaction(ctx context.Context, tx *types.Transaction) (*SendTransactionReply, error) {
	res := s.pool.Add(tx)
	if res.Status != mempool.Ok {
		return nil, internalError("send_transaction: " + res.Status.String())
	}
	return &SendTransactionReply{Hash: tx.Hash()}, nil
}

// GetBalance returns addr's current balance, zero if the account is
// absent.
func (s *Service) GetBalance(ctx context.Context, addr types.Address) (*uint256.Int, error) {
	acct, err := s.state.Basic(addr)
	if err != nil {
		return nil, wrapError("get_balance", err)
	}
	if acct == nil {
		return new(uint256.Int), nil
	}
	return acct.Balance, nil
}

// GetTransactionCount returns addr's current nonce, zero if absent.
func (s *Service) GetTransactionCount(ctx context.Context, addr types.Address) (uint64, error) {
	acct, err := s.state.Basic(addr)
	if err != nil {
		return 0, wrapError("get_transaction_count", err)
	}
	if acct == nil {
		return 0, nil
	}
	return acct.Nonce, nil
}

// ChainID returns the configured chain id.
func (s *Service) ChainID(ctx context.Context) (uint64, error) { return s.chainID, nil }

// SuggestBaseFee computes the next base fee from the latest executed
// block, mirroring the consensus-side update (spec §4.5 "Base-fee
// update").
func (s *Service) SuggestBaseFee(ctx context.Context) (uint64, error) {
	block, err := s.GetLatestBlock(ctx)
	if err != nil {
		return 0, err
	}
	if block == nil {
		return types.InitialBaseFee, nil
	}
	return executor.NextBaseFee(block.GasUsed, s.blockGasLimit, block.BaseFeePerGas.Uint64()), nil
}

// CallArgs is the input to call/estimate_gas: an ephemeral, never-
// committed EVM invocation against the current committed state.
type CallArgs struct {
	From     types.Address  `json:"from"`
	To       *types.Address `json:"to"`
	Value    *uint256.Int   `json:"value"`
	Data     []byte         `json:"data"`
	GasLimit uint64         `json:"gasLimit"`
}

// Call executes args read-only against a structural snapshot and
// returns the output, reverting any state changes (spec §4.3
// "snapshot").
func (s *Service) Call(ctx context.Context, args CallArgs) ([]byte, error) {
	res, err := s.execReadOnly(args)
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		return nil, internalError("call: " + res.HaltReason)
	}
	return res.Output, nil
}

// EstimateGas runs the same ephemeral call and reports gas consumed.
func (s *Service) EstimateGas(ctx context.Context, args CallArgs) (uint64, error) {
	res, err := s.execReadOnly(args)
	if err != nil {
		return 0, err
	}
	return res.GasUsed, nil
}

func (s *Service) execReadOnly(args CallArgs) (*evmrt.Result, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		snap = s.state
	}
	value := args.Value
	if value == nil {
		value = new(uint256.Int)
	}
	gasLimit := args.GasLimit
	if gasLimit == 0 {
		gasLimit = s.blockGasLimit
	}
	env := evmrt.TxEnv{
		Caller:      args.From,
		To:          args.To,
		Value:       value,
		Data:        args.Data,
		GasLimit:    gasLimit,
		GasPrice:    new(uint256.Int),
		PriorityFee: new(uint256.Int),
		BaseFee:     new(uint256.Int),
	}
	res, err := s.adapter.Execute(env, snap)
	if err != nil {
		return nil, wrapError("eval", err)
	}
	return res, nil
}

// GetCode returns addr's contract code, empty if absent or an EOA.
func (s *Service) GetCode(ctx context.Context, addr types.Address) ([]byte, error) {
	acct, err := s.state.Basic(addr)
	if err != nil {
		return nil, wrapError("get_code", err)
	}
	if acct == nil {
		return nil, nil
	}
	return acct.Code, nil
}
