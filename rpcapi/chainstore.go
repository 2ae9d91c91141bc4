// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rpcapi

import (
	"encoding/binary"

	"github.com/bftchain/core/storage"
	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// ChainStore persists executed blocks and a height -> hash index
// alongside the account/SMT namespaces the State Manager already owns
// (spec §6: "Six logical column families/namespaces in the KV store").
type ChainStore struct {
	kv storage.KV
}

// NewChainStore wraps kv for block persistence and lookup.
func NewChainStore(kv storage.KV) *ChainStore { return &ChainStore{kv: kv} }

// PutBlock persists block under its hash and indexes it by height, and
// advances the chain head if height is the new maximum.
func (c *ChainStore) PutBlock(height uint64, block *types.Block) error {
	enc, err := rlp.EncodeToBytes(block)
	if err != nil {
		return err
	}
	hash := block.Hash()
	if err := c.kv.Put(storage.BlockKey(hash), enc); err != nil {
		return err
	}
	if err := c.kv.Put(storage.BlockHeightKey(height), hash[:]); err != nil {
		return err
	}
	head, err := c.Head()
	if err != nil || height >= head {
		return c.kv.Put(storage.ChainHeadKey, encodeU64(height))
	}
	return nil
}

// GetByHash returns the block stored at hash, or nil if absent.
func (c *ChainStore) GetByHash(hash types.Hash) (*types.Block, error) {
	raw, err := c.kv.Get(storage.BlockKey(hash))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var block types.Block
	if err := rlp.DecodeBytes(raw, &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// GetByHeight returns the block at the given height, or nil if absent.
func (c *ChainStore) GetByHeight(height uint64) (*types.Block, error) {
	raw, err := c.kv.Get(storage.BlockHeightKey(height))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var hash types.Hash
	copy(hash[:], raw)
	return c.GetByHash(hash)
}

// Head returns the highest persisted block height, or 0 if none.
func (c *ChainStore) Head() (uint64, error) {
	raw, err := c.kv.Get(storage.ChainHeadKey)
	if err == storage.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(raw), nil
}

func encodeU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// EncodeBlock RLP-encodes a block, e.g. for writing a fixture file
// consumed by the apply-block CLI command.
func EncodeBlock(block *types.Block) ([]byte, error) {
	return rlp.EncodeToBytes(block)
}

// DecodeBlock is EncodeBlock's inverse.
func DecodeBlock(raw []byte) (*types.Block, error) {
	var block types.Block
	if err := rlp.DecodeBytes(raw, &block); err != nil {
		return nil, err
	}
	return &block, nil
}
