// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/bftchain/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) (types.PublicKey, types.Address, func(types.Hash) []byte) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	raw := crypto.FromECDSAPub(&key.PublicKey)
	pk, err := types.ParsePublicKey(raw)
	require.NoError(t, err)
	addr, err := pk.Address()
	require.NoError(t, err)
	sign := func(h types.Hash) []byte {
		sig, err := crypto.Sign(h[:], key)
		require.NoError(t, err)
		return sig
	}
	return pk, addr, sign
}

func TestEvidenceSlashingDeductsAndRemoves(t *testing.T) {
	pk, addr, sign := newTestValidator(t)

	cs := types.NewConsensusState()
	cs.Committee = []types.PublicKey{pk}
	cs.SetStake(addr, types.NewU256(2500))

	blockA := types.Hash{1}
	blockB := types.Hash{2}
	evidence := []types.EquivocationEvidence{{
		VoteA: types.Vote{View: 7, BlockHash: blockA, Author: pk, Signature: sign(blockA)},
		VoteB: types.Vote{View: 7, BlockHash: blockB, Author: pk, Signature: sign(blockB)},
	}}

	_, err := applyEvidenceSlashing(cs, evidence)
	require.NoError(t, err)

	require.EqualValues(t, uint64(1500), cs.GetStake(addr).Uint64())
	require.Empty(t, cs.Committee)
}

func TestEvidenceSlashingIgnoresInvalidEvidence(t *testing.T) {
	pk, addr, sign := newTestValidator(t)
	cs := types.NewConsensusState()
	cs.SetStake(addr, types.NewU256(2500))

	blockA := types.Hash{1}
	evidence := []types.EquivocationEvidence{{
		// same block_hash on both votes: not equivocation.
		VoteA: types.Vote{View: 7, BlockHash: blockA, Author: pk, Signature: sign(blockA)},
		VoteB: types.Vote{View: 7, BlockHash: blockA, Author: pk, Signature: sign(blockA)},
	}}

	_, err := applyEvidenceSlashing(cs, evidence)
	require.NoError(t, err)
	require.EqualValues(t, uint64(2500), cs.GetStake(addr).Uint64())
}

func TestLivenessSlashingTimeoutQC(t *testing.T) {
	pkA, _, _ := newTestValidator(t)
	pkB, addrB, _ := newTestValidator(t)
	pkC, _, _ := newTestValidator(t)

	cs := types.NewConsensusState()
	cs.Committee = []types.PublicKey{pkA, pkB, pkC}
	cs.SetStake(addrB, types.NewU256(2000))

	qc := &types.QC{View: 4, BlockHash: types.Hash{}}
	_, err := applyLivenessSlashing(cs, pkA, qc)
	require.NoError(t, err)

	require.EqualValues(t, uint32(1), cs.GetInactivityScore(pkB))
	require.EqualValues(t, uint64(1990), cs.GetStake(addrB).Uint64())
}

func TestLivenessSlashingRemovesAboveThreshold(t *testing.T) {
	pkA, _, _ := newTestValidator(t)
	pkB, addrB, _ := newTestValidator(t)

	cs := types.NewConsensusState()
	cs.Committee = []types.PublicKey{pkA, pkB}
	cs.SetInactivityScore(pkB, 50)
	cs.SetStake(addrB, types.NewU256(2000))

	qc := &types.QC{View: 1, BlockHash: types.Hash{}}
	_, err := applyLivenessSlashing(cs, pkA, qc)
	require.NoError(t, err)

	require.EqualValues(t, uint32(0), cs.GetInactivityScore(pkB))
	require.NotContains(t, cs.Committee, pkB)
}

func TestLivenessSlashingRewardsLeaderOnOrdinaryQC(t *testing.T) {
	pk, _, _ := newTestValidator(t)
	cs := types.NewConsensusState()
	cs.SetInactivityScore(pk, 5)

	qc := &types.QC{View: 3, BlockHash: types.Hash{9}}
	_, err := applyLivenessSlashing(cs, pk, qc)
	require.NoError(t, err)

	require.EqualValues(t, uint32(4), cs.GetInactivityScore(pk))
}
