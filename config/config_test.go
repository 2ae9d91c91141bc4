// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildConfigDefaults(t *testing.T) {
	fs := BuildFlagSet()
	v, err := BuildViper(fs, nil)
	require.NoError(t, err)

	cfg, err := BuildConfig(v)
	require.NoError(t, err)
	require.Equal(t, BackendPebble, cfg.DBBackend)
	require.EqualValues(t, 1337, cfg.ChainID)
	require.EqualValues(t, 30_000_000, cfg.BlockGasLimit)
}

func TestBuildConfigRejectsUnknownBackend(t *testing.T) {
	fs := BuildFlagSet()
	v, err := BuildViper(fs, []string{"--db-backend=mysql"})
	require.NoError(t, err)

	_, err = BuildConfig(v)
	require.Error(t, err)
}

func TestBuildConfigHonorsEnvOverride(t *testing.T) {
	t.Setenv("BFTCHAIN_CHAIN_ID", "99")
	fs := BuildFlagSet()
	v, err := BuildViper(fs, nil)
	require.NoError(t, err)

	cfg, err := BuildConfig(v)
	require.NoError(t, err)
	require.EqualValues(t, 99, cfg.ChainID)
}

func TestLoadGenesisParsesAllocAndCommittee(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genesis.json")
	const body = `{
		"alloc": [
			{"address": "0x0000000000000000000000000000000000000001", "balance": "1000000000000000000", "nonce": 0}
		],
		"committee": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	allocs, committee, err := LoadGenesis(path)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	require.Empty(t, committee)
	require.EqualValues(t, 1, allocs[0].Address[19])
}
