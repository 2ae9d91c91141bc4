// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/bftchain/core/config"
	"github.com/bftchain/core/smt"
	"github.com/bftchain/core/state"
	"github.com/bftchain/core/storage"
	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var initCommand = &cli.Command{
	Action:    initGenesis,
	Name:      "init",
	Usage:     "bootstrap genesis state into a fresh KV store",
	ArgsUsage: "[flags]",
	Description: `
The init command reads the configured genesis file, applies its
allocations to an empty state tree, persists the initial committee, and
writes the resulting genesis state_root to the configured data
directory's KV store.`,
}

func initGenesis(ctx *cli.Context) error {
	cfg, err := buildConfig(ctx)
	if err != nil {
		return err
	}

	allocs, committee, err := config.LoadGenesis(cfg.GenesisPath)
	if err != nil {
		return fmt.Errorf("load genesis: %w", err)
	}

	kv, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer kv.Close()

	mgr := state.NewManager(kv, smt.EmptyRoot())
	root, err := state.ApplyGenesis(mgr, allocs)
	if err != nil {
		return fmt.Errorf("apply genesis: %w", err)
	}
	if err := mgr.PersistRoot(); err != nil {
		return fmt.Errorf("persist genesis root: %w", err)
	}

	cs := types.NewConsensusState()
	cs.Committee = committee
	if err := mgr.SaveConsensusState(cs); err != nil {
		return fmt.Errorf("save consensus state: %w", err)
	}

	log.Info("genesis applied", "stateRoot", root, "accounts", len(allocs), "committee", len(committee))
	return nil
}

func openBackend(cfg *config.Config) (storage.KV, error) {
	switch cfg.DBBackend {
	case config.BackendPebble:
		return storage.OpenPebbleDB(cfg.DataDir)
	case config.BackendLevelDB:
		return storage.OpenLevelDB(cfg.DataDir)
	default:
		return storage.NewMemDB(), nil
	}
}
