// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"

	"github.com/bftchain/core/state"
	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// genesisAllocEntry is the on-disk JSON shape of one allocation.
type genesisAllocEntry struct {
	Address string `json:"address"`
	Balance string `json:"balance"` // decimal string, parsed as uint256
	Nonce   uint64 `json:"nonce"`
}

// genesisFile is the on-disk genesis.json shape: a flat allocation list
// plus the initial validator committee (spec §6 "genesis allocation").
type genesisFile struct {
	Alloc     []genesisAllocEntry `json:"alloc"`
	Committee []string            `json:"committee"` // hex-encoded public keys
}

// LoadGenesis reads and parses the genesis file at path into account
// allocations and an initial committee.
func LoadGenesis(path string) ([]state.GenesisAlloc, []types.PublicKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var g genesisFile
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, nil, err
	}

	allocs := make([]state.GenesisAlloc, 0, len(g.Alloc))
	for _, entry := range g.Alloc {
		addr := common.HexToAddress(entry.Address)
		balance, err := parseU256Decimal(entry.Balance)
		if err != nil {
			return nil, nil, err
		}
		allocs = append(allocs, state.GenesisAlloc{
			Address: addr,
			Account: &types.AccountInfo{
				Nonce:    entry.Nonce,
				Balance:  balance,
				CodeHash: types.EmptyCodeHash,
			},
		})
	}

	committee := make([]types.PublicKey, 0, len(g.Committee))
	for _, hexKey := range g.Committee {
		raw, err := hex.DecodeString(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, nil, err
		}
		pk, err := types.ParsePublicKey(raw)
		if err != nil {
			return nil, nil, err
		}
		committee = append(committee, pk)
	}
	return allocs, committee, nil
}

func parseU256Decimal(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, err
	}
	return v, nil
}
