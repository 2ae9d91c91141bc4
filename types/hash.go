// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package types defines the wire-level data model shared by the state
// manager, block executor and mempool: hashes, addresses, the U256
// integer, accounts, transactions, blocks and consensus meta-state.
package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Hash is a 32-byte content address produced by keccak256 over the
// canonical RLP encoding of a value.
type Hash = common.Hash

// Address is a 20-byte account identifier, the rightmost 20 bytes of the
// keccak256 hash of an uncompressed public key.
type Address = common.Address

// ZeroHash is the default, absent hash value.
var ZeroHash Hash

// ZeroAddress is the default, absent address value.
var ZeroAddress Address

// SystemContractAddress is the reserved staking system contract (spec §4.6).
var SystemContractAddress = common.HexToAddress("0x0000000000000000000000000000000000001000")

// HashData returns the canonical content hash of v: keccak256 of its RLP
// encoding. Used uniformly for block hashes, tx hashes and account hashes.
func HashData(v interface{}) Hash {
	enc, err := rlp.EncodeToBytes(v)
	if err != nil {
		// Every type passed here is part of this package's closed data
		// model; a failure here is a programming error, not a runtime one.
		panic("types: HashData: " + err.Error())
	}
	return crypto.Keccak256Hash(enc)
}

// AddressFromPublicKey derives an Address from an uncompressed 65-byte
// secp256k1 public key the same way go-ethereum does:
// keccak256(pubkey[1:])[12:].
func AddressFromPublicKey(pub []byte) (Address, error) {
	key, err := crypto.UnmarshalPubkey(pub)
	if err != nil {
		return Address{}, err
	}
	return crypto.PubkeyToAddress(*key), nil
}
