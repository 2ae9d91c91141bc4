// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/cockroachdb/pebble"
)

// PebbleDB is the default on-disk KV backend (`--db-backend=pebble`),
// exercising the pack's other widely-used embedded engine choice.
type PebbleDB struct {
	db *pebble.DB
}

// OpenPebbleDB opens (creating if absent) a Pebble store at dir.
func OpenPebbleDB(dir string) (*PebbleDB, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, WrapErr("open", err)
	}
	return &PebbleDB{db: db}, nil
}

func (p *PebbleDB) Get(key []byte) ([]byte, error) {
	v, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, WrapErr("get", err)
	}
	out := make([]byte, len(v))
	copy(out, v)
	_ = closer.Close()
	return out, nil
}

func (p *PebbleDB) Has(key []byte) (bool, error) {
	_, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, WrapErr("has", err)
	}
	_ = closer.Close()
	return true, nil
}

func (p *PebbleDB) Put(key, value []byte) error {
	return WrapErr("put", p.db.Set(key, value, pebble.Sync))
}

func (p *PebbleDB) Delete(key []byte) error {
	return WrapErr("delete", p.db.Delete(key, pebble.Sync))
}

func (p *PebbleDB) Close() error { return WrapErr("close", p.db.Close()) }

func (p *PebbleDB) NewBatch() Batch { return &pebbleBatch{db: p.db, batch: p.db.NewBatch()} }

type pebbleBatch struct {
	db    *pebble.DB
	batch *pebble.Batch
}

func (b *pebbleBatch) Put(key, value []byte) error { return b.batch.Set(key, value, nil) }

func (b *pebbleBatch) Delete(key []byte) error { return b.batch.Delete(key, nil) }

func (b *pebbleBatch) Write() error { return WrapErr("batch-write", b.batch.Commit(pebble.Sync)) }

func (b *pebbleBatch) Reset() { b.batch.Reset() }
