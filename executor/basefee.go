// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import "github.com/bftchain/core/types"

// NextBaseFee applies the EIP-1559-style base-fee update (spec §4.5).
// Division is integer and multiplication precedes division to preserve
// precision, matching the spec's worked example (scenario 2).
func NextBaseFee(parentGasUsed, blockGasLimit, parentBaseFee uint64) uint64 {
	target := blockGasLimit / types.ElasticityMultiplier
	if target == 0 {
		return parentBaseFee
	}
	switch {
	case parentGasUsed == target:
		return parentBaseFee
	case parentGasUsed > target:
		delta := parentGasUsed - target
		increase := parentBaseFee * delta / target / types.BaseFeeDenominator
		return parentBaseFee + increase
	default:
		delta := target - parentGasUsed
		decrease := parentBaseFee * delta / target / types.BaseFeeDenominator
		if decrease >= parentBaseFee {
			return 0
		}
		return parentBaseFee - decrease
	}
}
