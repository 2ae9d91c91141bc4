// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package types

// Bit-exact protocol constants (spec §6).
const (
	MaxTxGasLimit        uint64 = 1 << 24 // 16,777,216
	InitialBaseFee       uint64 = 10_000_000
	DefaultBlockGasLimit uint64 = 30_000_000
	ElasticityMultiplier uint64 = 2
	BaseFeeDenominator   uint64 = 8

	MinStake         uint64 = 2_000
	SlashAmount      uint64 = 1_000
	LivenessPenalty  uint64 = 10
	InactivityThresh uint32 = 50
	EpochLen         uint64 = 10

	AAValidationGas uint64 = 200_000
)

// Selectors for the system (staking) contract (spec §4.6). Computed as
// the first 4 bytes of keccak256 of the Solidity function signature.
var (
	SelectorStake    = [4]byte{0x3a, 0x4b, 0x66, 0xf1} // stake()
	SelectorUnstake  = [4]byte{0x2e, 0x17, 0xde, 0x78} // unstake(uint256); calldata after the selector is ignored
	SelectorWithdraw = [4]byte{0x3c, 0xcf, 0xd6, 0x0b} // withdraw()
)
