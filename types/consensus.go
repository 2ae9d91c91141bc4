// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package types

import (
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// VoteType distinguishes a Notarize vote from a Finalize vote (spec §3).
type VoteType uint8

const (
	VoteNotarize VoteType = iota
	VoteFinalize
)

// QC is a quorum certificate: a signed attestation by 2f+1 validators. A
// QC with BlockHash == zero and View > 0 is a timeout QC naming the
// failed leader via View mod len(committee) (spec §3, §4.6).
type QC struct {
	View      uint64
	BlockHash Hash
	Signature []byte
	Signers   []PublicKey
}

// IsTimeout reports whether this QC is a timeout QC.
func (qc *QC) IsTimeout() bool {
	return qc.BlockHash == (Hash{}) && qc.View > 0
}

// Vote is a single validator's vote at a view (spec §3).
type Vote struct {
	View      uint64
	BlockHash Hash
	VoteType  VoteType
	Author    PublicKey
	Signature []byte
}

// EquivocationEvidence bundles two votes by the same author at the same
// view for different blocks (spec §4.6).
type EquivocationEvidence struct {
	VoteA Vote
	VoteB Vote
}

// PendingValidator is a validator awaiting committee activation (spec
// §3: "pending_validators: list of (PublicKey, activation_view)").
type PendingValidator struct {
	PublicKey      PublicKey
	ActivationView uint64
}

// ExitingValidator is a validator awaiting committee removal (spec §3:
// "exiting_validators: list of (PublicKey, exit_view)").
type ExitingValidator struct {
	PublicKey PublicKey
	ExitView  uint64
}

// ConsensusState is the persistent meta-state carried alongside the SMT
// (spec §3). Stakes and InactivityScores are Go maps for O(1) access;
// their RLP encoding sorts keys so that two semantically equal states
// always encode to identical bytes (spec P6, "Design Notes:
// Determinism").
type ConsensusState struct {
	View             uint64
	FinalizedHeight  uint64
	PreferredBlock   Hash
	PreferredView    uint64
	LastVotedView    uint64
	Committee        []PublicKey
	PendingValidators []PendingValidator
	ExitingValidators []ExitingValidator
	Stakes           map[Address]*uint256.Int
	InactivityScores map[PublicKey]uint32
}

// NewConsensusState returns an empty, zero-valued consensus state.
func NewConsensusState() *ConsensusState {
	return &ConsensusState{
		Stakes:           make(map[Address]*uint256.Int),
		InactivityScores: make(map[PublicKey]uint32),
	}
}

// GetStake returns the validator's stake, or zero if unstaked.
func (cs *ConsensusState) GetStake(addr Address) *uint256.Int {
	if v, ok := cs.Stakes[addr]; ok {
		return v
	}
	return new(uint256.Int)
}

// SetStake sets a validator's stake, dropping the entry if it reaches
// zero (keeps the encoded map small and canonical).
func (cs *ConsensusState) SetStake(addr Address, v *uint256.Int) {
	if v.IsZero() {
		delete(cs.Stakes, addr)
		return
	}
	cs.Stakes[addr] = v
}

// GetInactivityScore returns a validator's inactivity score.
func (cs *ConsensusState) GetInactivityScore(pk PublicKey) uint32 {
	return cs.InactivityScores[pk]
}

// SetInactivityScore sets a validator's inactivity score, dropping
// zero-valued entries.
func (cs *ConsensusState) SetInactivityScore(pk PublicKey, v uint32) {
	if v == 0 {
		delete(cs.InactivityScores, pk)
		return
	}
	cs.InactivityScores[pk] = v
}

// InCommittee reports whether pk currently sits in the committee.
func (cs *ConsensusState) InCommittee(pk PublicKey) bool {
	for _, m := range cs.Committee {
		if m == pk {
			return true
		}
	}
	return false
}

// InPending reports whether pk is already queued for activation.
func (cs *ConsensusState) InPending(pk PublicKey) bool {
	for _, p := range cs.PendingValidators {
		if p.PublicKey == pk {
			return true
		}
	}
	return false
}

// InExiting reports whether pk is already queued for exit.
func (cs *ConsensusState) InExiting(pk PublicKey) bool {
	for _, e := range cs.ExitingValidators {
		if e.PublicKey == pk {
			return true
		}
	}
	return false
}

// RemoveFromCommittee removes pk from the committee, preserving the
// relative order of survivors (spec invariant I2, "Design Notes:
// Validator set as ordered list").
func (cs *ConsensusState) RemoveFromCommittee(pk PublicKey) {
	out := cs.Committee[:0]
	for _, m := range cs.Committee {
		if m != pk {
			out = append(out, m)
		}
	}
	cs.Committee = out
}

// --- canonical (sorted) RLP encoding of the Stakes/InactivityScores maps ---

type stakeEntry struct {
	Address Address
	Amount  *uint256.Int
}

type scoreEntry struct {
	PublicKey PublicKey
	Score     uint32
}

type consensusStateRLP struct {
	View               uint64
	FinalizedHeight    uint64
	PreferredBlock     Hash
	PreferredView      uint64
	LastVotedView      uint64
	Committee          []PublicKey
	PendingValidators  []PendingValidator
	ExitingValidators  []ExitingValidator
	Stakes             []stakeEntry
	InactivityScores   []scoreEntry
}

// EncodeRLP implements rlp.Encoder with deterministic map ordering.
func (cs *ConsensusState) EncodeRLP(w io.Writer) error {
	stakes := make([]stakeEntry, 0, len(cs.Stakes))
	for addr, v := range cs.Stakes {
		stakes = append(stakes, stakeEntry{addr, v})
	}
	sort.Slice(stakes, func(i, j int) bool {
		return bytesLess(stakes[i].Address[:], stakes[j].Address[:])
	})

	scores := make([]scoreEntry, 0, len(cs.InactivityScores))
	for pk, v := range cs.InactivityScores {
		scores = append(scores, scoreEntry{pk, v})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].PublicKey.Less(scores[j].PublicKey) })

	return rlp.Encode(w, &consensusStateRLP{
		View:              cs.View,
		FinalizedHeight:   cs.FinalizedHeight,
		PreferredBlock:    cs.PreferredBlock,
		PreferredView:     cs.PreferredView,
		LastVotedView:     cs.LastVotedView,
		Committee:         cs.Committee,
		PendingValidators: cs.PendingValidators,
		ExitingValidators: cs.ExitingValidators,
		Stakes:            stakes,
		InactivityScores:  scores,
	})
}

// DecodeRLP implements rlp.Decoder.
func (cs *ConsensusState) DecodeRLP(s *rlp.Stream) error {
	var dec consensusStateRLP
	if err := s.Decode(&dec); err != nil {
		return err
	}
	cs.View = dec.View
	cs.FinalizedHeight = dec.FinalizedHeight
	cs.PreferredBlock = dec.PreferredBlock
	cs.PreferredView = dec.PreferredView
	cs.LastVotedView = dec.LastVotedView
	cs.Committee = dec.Committee
	cs.PendingValidators = dec.PendingValidators
	cs.ExitingValidators = dec.ExitingValidators
	cs.Stakes = make(map[Address]*uint256.Int, len(dec.Stakes))
	for _, e := range dec.Stakes {
		cs.Stakes[e.Address] = e.Amount
	}
	cs.InactivityScores = make(map[PublicKey]uint32, len(dec.InactivityScores))
	for _, e := range dec.InactivityScores {
		cs.InactivityScores[e.PublicKey] = e.Score
	}
	return nil
}

func bytesLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
