// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package types

import "github.com/holiman/uint256"

// Log is a single EVM event emitted during transaction execution (spec
// §4.4 "Success.logs").
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// Receipt is the per-transaction execution record (spec §4.5 step 4,
// invariant I4).
type Receipt struct {
	Status            uint64 // 1 = success, 0 = reverted/halted (spec §7)
	CumulativeGasUsed uint64
	Logs              []Log
}

// Block is the unit of consensus and execution (spec §3).
type Block struct {
	Author          PublicKey
	View            uint64
	ParentHash      Hash
	Justify         QC
	StateRoot       Hash
	ReceiptsRoot    Hash
	Payload         []*Transaction
	IsDummy         bool
	BaseFeePerGas   *uint256.Int
	GasUsed         uint64
	Evidence        []EquivocationEvidence
	CommitteeHash   Hash
}

// Hash returns the block's content hash. Consensus collaborators
// reference blocks by this value once state_root/receipts_root/gas_used
// have been filled in by the block executor (spec §4.5 "Finalize").
func (b *Block) Hash() Hash {
	return HashData(b)
}
