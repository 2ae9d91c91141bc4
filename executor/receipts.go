// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import "github.com/bftchain/core/types"

// ReceiptsRoot computes the binary Merkle root over receipts in order
// (spec §4.7, invariant I7). Leaves are hash(receipt); an odd level
// duplicates its last node; the root of an empty list is the zero hash.
func ReceiptsRoot(receipts []*types.Receipt) types.Hash {
	if len(receipts) == 0 {
		return types.Hash{}
	}
	level := make([]types.Hash, len(receipts))
	for i, r := range receipts {
		level[i] = types.HashData(r)
	}
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]types.Hash, len(level)/2)
		for i := range next {
			next[i] = types.HashData(&pairLeaf{Left: level[2*i], Right: level[2*i+1]})
		}
		level = next
	}
	return level[0]
}

type pairLeaf struct {
	Left  types.Hash
	Right types.Hash
}
