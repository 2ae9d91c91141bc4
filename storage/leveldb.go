// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDB is an alternate on-disk KV backend (`--db-backend=leveldb`),
// the classic engine the go-ethereum/teacher lineage uses for chain data.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if absent) a LevelDB store at dir.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{})
	if err != nil {
		return nil, WrapErr("open", err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) {
	v, err := l.db.Get(key, nil)
	if err == errors.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, WrapErr("get", err)
	}
	return v, nil
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	ok, err := l.db.Has(key, nil)
	if err != nil {
		return false, WrapErr("has", err)
	}
	return ok, nil
}

func (l *LevelDB) Put(key, value []byte) error {
	return WrapErr("put", l.db.Put(key, value, nil))
}

func (l *LevelDB) Delete(key []byte) error {
	return WrapErr("delete", l.db.Delete(key, nil))
}

func (l *LevelDB) Close() error { return WrapErr("close", l.db.Close()) }

func (l *LevelDB) NewBatch() Batch { return &levelBatch{db: l.db, batch: new(leveldb.Batch)} }

type levelBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelBatch) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelBatch) Write() error { return WrapErr("batch-write", b.db.Write(b.batch, nil)) }

func (b *levelBatch) Reset() { b.batch.Reset() }
