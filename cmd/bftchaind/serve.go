// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"

	"github.com/bftchain/core/config"
	"github.com/bftchain/core/evmrt"
	"github.com/bftchain/core/mempool"
	"github.com/bftchain/core/metrics"
	"github.com/bftchain/core/rpcapi"
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Action:    serve,
	Name:      "serve",
	Usage:     "open the JSON-RPC surface against an initialized KV store",
	ArgsUsage: "[flags]",
}

func serve(ctx *cli.Context) error {
	cfg, err := buildConfig(ctx)
	if err != nil {
		return err
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

	registry := prometheus.NewRegistry()
	mempoolMetrics := metrics.NewMempool(registry)
	pool := mempool.New(mgr, adapter, types.NewU256(types.InitialBaseFee)).WithMetrics(mempoolMetrics)

	store := rpcapi.NewChainStore(kv)
	svc := rpcapi.NewService(store, mgr, pool, adapter, cfg.ChainID, cfg.BlockGasLimit)

	server := rpc.NewServer()
	for _, api := range rpcapi.APIs(svc) {
		if err := server.RegisterName(api.Namespace, api.Service); err != nil {
			return fmt.Errorf("register rpc namespace %s: %w", api.Namespace, err)
		}
	}
	defer server.Stop()

	mux := http.NewServeMux()
	mux.Handle("/", server)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	gethlog.Info("rpc server listening", "addr", cfg.RPCAddr)
	return http.ListenAndServe(cfg.RPCAddr, mux)
}
