// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package state

import "github.com/bftchain/core/types"

// GenesisAlloc is a single genesis allocation entry (spec §6: "an
// allocation list of (Address, AccountInfo) applied before view 1").
type GenesisAlloc struct {
	Address Address
	Account *types.AccountInfo
}

// Address is re-exported for readability in genesis-construction call
// sites.
type Address = types.Address

// ApplyGenesis commits every allocation in order and returns the
// resulting root, which becomes the genesis state_root (spec §6).
func ApplyGenesis(m *Manager, allocs []GenesisAlloc) (types.Hash, error) {
	for _, a := range allocs {
		if err := m.CommitAccount(a.Address, a.Account); err != nil {
			return types.Hash{}, err
		}
	}
	return m.Root(), nil
}
