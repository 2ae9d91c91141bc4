// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/bftchain/core/types"
	"github.com/stretchr/testify/require"
)

func TestReceiptsRootEmpty(t *testing.T) {
	require.Equal(t, types.Hash{}, ReceiptsRoot(nil))
}

func TestReceiptsRootDeterministic(t *testing.T) {
	receipts := []*types.Receipt{
		{Status: 1, CumulativeGasUsed: 21000},
		{Status: 0, CumulativeGasUsed: 42000},
		{Status: 1, CumulativeGasUsed: 63000},
	}
	root1 := ReceiptsRoot(receipts)
	root2 := ReceiptsRoot(receipts)
	require.Equal(t, root1, root2)
	require.NotEqual(t, types.Hash{}, root1)
}

func TestReceiptsRootOddLevelDuplicatesLast(t *testing.T) {
	pair := []*types.Receipt{{Status: 1}, {Status: 1}}
	triple := []*types.Receipt{{Status: 1}, {Status: 1}, {Status: 1}}

	// A duplicated last leaf at an odd level means the 3-leaf root
	// equals hashing the pair root against itself.
	pairRoot := ReceiptsRoot(pair)
	require.Equal(t, types.HashData(&pairLeaf{Left: pairRoot, Right: pairRoot}), ReceiptsRoot(triple))
	require.NotEqual(t, ReceiptsRoot(pair), ReceiptsRoot(triple))
}
