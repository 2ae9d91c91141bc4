// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package evmrt

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
)

// validateTransactionSelector is the first 4 bytes of
// keccak256("validateTransaction(bytes32,bytes)") (spec §6).
var validateTransactionSelector = func() [4]byte {
	sum := crypto.Keccak256([]byte("validateTransaction(bytes32,bytes)"))
	var sel [4]byte
	copy(sel[:], sum[:4])
	return sel
}()

// EncodeValidateTransactionCall ABI-encodes a call to
// validateTransaction(bytes32 txSighash, bytes signature): selector, the
// 32-byte sighash head, a 32-byte offset (0x40) to the dynamic tail, and
// the tail itself (32-byte length + right-padded signature bytes), per
// spec §6.
func EncodeValidateTransactionCall(sighash [32]byte, signature []byte) []byte {
	out := make([]byte, 0, 4+32+32+32+roundUp32(len(signature)))
	out = append(out, validateTransactionSelector[:]...)
	out = append(out, sighash[:]...)

	var offset [32]byte
	binary.BigEndian.PutUint64(offset[24:], 0x40)
	out = append(out, offset[:]...)

	var length [32]byte
	binary.BigEndian.PutUint64(length[24:], uint64(len(signature)))
	out = append(out, length[:]...)

	padded := make([]byte, roundUp32(len(signature)))
	copy(padded, signature)
	out = append(out, padded...)
	return out
}

func roundUp32(n int) int {
	if n%32 == 0 {
		return n
	}
	return n + (32 - n%32)
}
