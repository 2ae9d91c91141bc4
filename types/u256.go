// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package types

import "github.com/holiman/uint256"

// U256 is a 256-bit unsigned integer. Fee arithmetic wraps on overflow;
// balance and stake deductions saturate at zero (spec §3).
type U256 = uint256.Int

// ZeroU256 returns the additive identity.
func ZeroU256() *U256 { return new(uint256.Int) }

// NewU256 builds a U256 from a uint64.
func NewU256(v uint64) *U256 { return new(uint256.Int).SetUint64(v) }

// SaturatingSub returns max(0, a-b) without panicking or wrapping.
func SaturatingSub(a, b *U256) *U256 {
	out := new(uint256.Int)
	if a.Cmp(b) < 0 {
		return out
	}
	return out.Sub(a, b)
}

// WrappingAdd returns a+b mod 2^256.
func WrappingAdd(a, b *U256) *U256 {
	return new(uint256.Int).Add(a, b)
}

// WrappingMul returns a*b mod 2^256.
func WrappingMul(a, b *U256) *U256 {
	return new(uint256.Int).Mul(a, b)
}
