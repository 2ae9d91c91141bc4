// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config builds the node's runtime configuration from flags and
// environment variables (no config file is read), following the
// pflag/viper pattern the rest of the example corpus uses for its CLI
// entrypoints.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "BFTCHAIN"

// Flag keys, also used as viper lookup keys.
const (
	DataDirKey       = "data-dir"
	DBBackendKey     = "db-backend"
	GenesisPathKey   = "genesis"
	RPCAddrKey       = "rpc-addr"
	ChainIDKey       = "chain-id"
	BlockGasLimitKey = "block-gas-limit"
	LogLevelKey      = "log-level"
	VersionKey       = "version"
)

// BuildFlagSet declares every flag the node binary accepts, mirroring
// the simulator's config.BuildFlagSet/BuildViper split.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("bftchaind", pflag.ContinueOnError)
	fs.String(DataDirKey, "./data", "directory holding the KV store")
	fs.String(DBBackendKey, "pebble", "storage backend: pebble | leveldb | memory")
	fs.String(GenesisPathKey, "./genesis.json", "path to the genesis allocation file")
	fs.String(RPCAddrKey, "127.0.0.1:8545", "JSON-RPC listen address")
	fs.Uint64(ChainIDKey, 1337, "chain id embedded in legacy transaction signatures")
	fs.Uint64(BlockGasLimitKey, 30_000_000, "per-block gas ceiling enforced by the executor")
	fs.String(LogLevelKey, "info", "log level: trace|debug|info|warn|error|crit")
	fs.Bool(VersionKey, false, "print version and exit")
	return fs
}

// BuildViper binds fs to a fresh viper instance, parses args against it,
// and layers in BFTCHAIN_-prefixed environment variables.
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}
