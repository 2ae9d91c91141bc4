// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Backend names a storage.KV implementation.
type Backend string

const (
	BackendPebble  Backend = "pebble"
	BackendLevelDB Backend = "leveldb"
	BackendMemory  Backend = "memory"
)

// Config is the fully-resolved node configuration (spec §9's ambient
// "externally-configured block gas limit, chain id, genesis allocation").
type Config struct {
	DataDir       string
	DBBackend     Backend
	GenesisPath   string
	RPCAddr       string
	ChainID       uint64
	BlockGasLimit uint64
	LogLevel      string
}

// BuildConfig resolves a Config from a populated viper instance,
// validating the db backend choice.
func BuildConfig(v *viper.Viper) (*Config, error) {
	backend := Backend(v.GetString(DBBackendKey))
	switch backend {
	case BackendPebble, BackendLevelDB, BackendMemory:
	default:
		return nil, fmt.Errorf("config: unknown db backend %q", backend)
	}
	return &Config{
		DataDir:       v.GetString(DataDirKey),
		DBBackend:     backend,
		GenesisPath:   v.GetString(GenesisPathKey),
		RPCAddr:       v.GetString(RPCAddrKey),
		ChainID:       v.GetUint64(ChainIDKey),
		BlockGasLimit: v.GetUint64(BlockGasLimitKey),
		LogLevel:      v.GetString(LogLevelKey),
	}, nil
}
