// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package types

import "github.com/ethereum/go-ethereum/crypto"

// PublicKey is an uncompressed secp256k1 public key (65 bytes, 0x04
// prefix), used to identify validators independent of their derived
// Address. Fixed-size so it can key a Go map directly.
type PublicKey [65]byte

// ParsePublicKey validates and wraps a raw public key.
func ParsePublicKey(raw []byte) (PublicKey, error) {
	var pk PublicKey
	if _, err := crypto.UnmarshalPubkey(raw); err != nil {
		return pk, err
	}
	copy(pk[:], raw)
	return pk, nil
}

// Bytes returns the raw 65-byte encoding.
func (pk PublicKey) Bytes() []byte { return pk[:] }

// Address derives the validator's Address, the same way a Legacy
// transaction's sender is derived.
func (pk PublicKey) Address() (Address, error) {
	return AddressFromPublicKey(pk[:])
}

// Less gives PublicKey a total order, used wherever validator identity
// needs deterministic iteration (spec "Design Notes: Determinism").
func (pk PublicKey) Less(other PublicKey) bool {
	for i := range pk {
		if pk[i] != other[i] {
			return pk[i] < other[i]
		}
	}
	return false
}

// VerifySignature checks a 64-byte (R||S) or 65-byte (R||S||V) secp256k1
// signature over hash against pk. Votes and QCs carry signatures this
// way rather than as transaction envelopes (spec §3, §4.6: "signatures
// verify against the shared author key").
func (pk PublicKey) VerifySignature(hash Hash, sig []byte) bool {
	if len(sig) < 64 {
		return false
	}
	return crypto.VerifySignature(pk[:], hash[:], sig[:64])
}
