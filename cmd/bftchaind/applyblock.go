// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/bftchain/core/evmrt"
	"github.com/bftchain/core/executor"
	"github.com/bftchain/core/metrics"
	"github.com/bftchain/core/rpcapi"
	"github.com/bftchain/core/state"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

var applyBlockCommand = &cli.Command{
	Action:    applyBlock,
	Name:      "apply-block",
	Usage:     "execute a single RLP-encoded block against the KV store and persist the result",
	ArgsUsage: "<block.rlp> <height>",
}

func applyBlock(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return fmt.Errorf("apply-block: expected <block.rlp> <height>")
	}
	blockPath := ctx.Args().Get(0)
	var height uint64
	if _, err := fmt.Sscanf(ctx.Args().Get(1), "%d", &height); err != nil {
		return fmt.Errorf("apply-block: invalid height: %w", err)
	}

	cfg, err := buildConfig(ctx)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(blockPath)
	if err != nil {
		return fmt.Errorf("read block file: %w", err)
	}
	block, err := rpcapi.DecodeBlock(raw)
	if err != nil {
		return fmt.Errorf("decode block: %w", err)
	}

	kv, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	mgr, err := state.OpenManager(kv)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	adapter := evmrt.NewGethAdapter(cfg.ChainID)
	exec := executor.NewExecutor(mgr, adapter, cfg.BlockGasLimit).WithMetrics(metrics.NewExecutor(prometheus.NewRegistry()))

	receipts, err := exec.ExecuteBlock(block)
	if err != nil {
		return fmt.Errorf("execute block: %w", err)
	}

	store := rpcapi.NewChainStore(kv)
	if err := store.PutBlock(height, block); err != nil {
		return fmt.Errorf("persist block: %w", err)
	}

	log.Info("applied block", "height", height, "hash", block.Hash(), "receipts", len(receipts), "gasUsed", block.GasUsed)
	return nil
}
