// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package executor

import "github.com/bftchain/core/types"

// applyEvidenceSlashing processes block.evidence (spec §4.6). Each
// EquivocationEvidence is checked independently; evidence that fails
// any condition is silently ignored rather than faulting the block. It
// returns the number of slashes actually applied, for instrumentation.
func applyEvidenceSlashing(cs *types.ConsensusState, evidence []types.EquivocationEvidence) (int, error) {
	slashed := 0
	for _, ev := range evidence {
		if !validEquivocation(&ev) {
			continue
		}
		addr, err := ev.VoteA.Author.Address()
		if err != nil {
			continue
		}
		remaining := types.SaturatingSub(cs.GetStake(addr), types.NewU256(types.SlashAmount))
		cs.SetStake(addr, remaining)
		if remaining.Cmp(types.NewU256(types.MinStake)) < 0 {
			removeFromPendingAndCommittee(cs, ev.VoteA.Author)
		}
		slashed++
	}
	return slashed, nil
}

func validEquivocation(ev *types.EquivocationEvidence) bool {
	a, b := &ev.VoteA, &ev.VoteB
	if a.Author != b.Author {
		return false
	}
	if a.View != b.View {
		return false
	}
	if a.BlockHash == b.BlockHash {
		return false
	}
	if !a.Author.VerifySignature(a.BlockHash, a.Signature) {
		return false
	}
	if !b.Author.VerifySignature(b.BlockHash, b.Signature) {
		return false
	}
	return true
}

func removeFromPendingAndCommittee(cs *types.ConsensusState, pk types.PublicKey) {
	cs.RemoveFromCommittee(pk)
	out := cs.PendingValidators[:0]
	for _, p := range cs.PendingValidators {
		if p.PublicKey != pk {
			out = append(out, p)
		}
	}
	cs.PendingValidators = out
}

// livenessRewardStep is the per-block reward decrement toward 0 applied
// to the current block's author when its justify QC carries an ordinary
// block (spec §4.6: "decrement ... toward 0 (reward for leading)"). The
// spec fixes the penalty-side increment at 1 (scenario 6), so the reward
// side mirrors it.
const livenessRewardStep = 1

// applyLivenessSlashing processes block.justify alongside the current
// block's declared author (spec §4.6). It reports whether a liveness
// penalty was applied, for instrumentation.
func applyLivenessSlashing(cs *types.ConsensusState, blockAuthor types.PublicKey, qc *types.QC) (bool, error) {
	if !qc.IsTimeout() {
		rewardLeader(cs, blockAuthor)
		return false, nil
	}
	if len(cs.Committee) == 0 {
		return false, nil
	}
	leader := cs.Committee[qc.View%uint64(len(cs.Committee))]
	score := cs.GetInactivityScore(leader) + 1
	cs.SetInactivityScore(leader, score)

	addr, err := leader.Address()
	if err != nil {
		return false, stateError("derive failed-leader address", err)
	}
	cs.SetStake(addr, types.SaturatingSub(cs.GetStake(addr), types.NewU256(types.LivenessPenalty)))

	if score > types.InactivityThresh {
		cs.RemoveFromCommittee(leader)
		cs.SetInactivityScore(leader, 0)
	}
	return true, nil
}

func rewardLeader(cs *types.ConsensusState, author types.PublicKey) {
	current := cs.GetInactivityScore(author)
	if current == 0 {
		return
	}
	if current <= livenessRewardStep {
		cs.SetInactivityScore(author, 0)
		return
	}
	cs.SetInactivityScore(author, current-livenessRewardStep)
}
