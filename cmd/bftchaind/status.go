// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/bftchain/core/state"
	"github.com/urfave/cli/v2"
)

var statusCommand = &cli.Command{
	Action:    printStatus,
	Name:      "status",
	Usage:     "print the persisted consensus state and state root",
	ArgsUsage: "[flags]",
}

func printStatus(ctx *cli.Context) error {
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
	cs, err := mgr.GetConsensusState()
	if err != nil {
		return fmt.Errorf("load consensus state: %w", err)
	}

	fmt.Printf("view:              %d\n", cs.View)
	fmt.Printf("finalized_height:  %d\n", cs.FinalizedHeight)
	fmt.Printf("preferred_block:   %x\n", cs.PreferredBlock)
	fmt.Printf("preferred_view:    %d\n", cs.PreferredView)
	fmt.Printf("committee_size:    %d\n", len(cs.Committee))
	fmt.Printf("state_root:        %x\n", mgr.Root())
	return nil
}
