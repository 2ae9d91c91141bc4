// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextBaseFeeUnchangedAtTarget(t *testing.T) {
	require.EqualValues(t, 10_000_000, NextBaseFee(15_000_000, 30_000_000, 10_000_000))
}

func TestNextBaseFeeIncreasesAboveTarget(t *testing.T) {
	// Scenario 2.
	require.EqualValues(t, 10_416_666, NextBaseFee(20_000_000, 30_000_000, 10_000_000))
}

func TestNextBaseFeeDecreasesBelowTarget(t *testing.T) {
	got := NextBaseFee(0, 30_000_000, 10_000_000)
	require.Less(t, got, uint64(10_000_000))
}

func TestNextBaseFeeSmallFeeDoesNotUnderflow(t *testing.T) {
	// 1 * 15_000_000 / 15_000_000 / 8 rounds to 0, so the fee stays at 1.
	got := NextBaseFee(0, 30_000_000, 1)
	require.EqualValues(t, 1, got)
}
