// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

import (
	"encoding/json"
	"fmt"
)

// ManualVerifyURL is the sentinel witness URL that pins the expected
// witness set to the proof's own first witness, bypassing the beacon.
const ManualVerifyURL = "manual-verify"

// ClaimInfo is the content a claim identifier is derived from. The
// parameters field is an opaque serialized blob; it is hashed verbatim,
// so both sides must agree on its exact serialization.
type ClaimInfo struct {
	Provider   string `json:"provider"`
	Parameters string `json:"parameters"`
	Context    string `json:"context"`
}

// ProviderClaimData is the attested claim as produced by a witness.
type ProviderClaimData struct {
	Provider   string `json:"provider"`
	Identifier string `json:"identifier"`
	Parameters string `json:"parameters"`
	Owner      string `json:"owner"`
	TimestampS int64  `json:"timestampS"`
	Context    string `json:"context"`
	Epoch      uint32 `json:"epoch"`
}

// ClaimInfo projects the hashed subset of the claim data.
func (d ProviderClaimData) ClaimInfo() ClaimInfo {
	return ClaimInfo{
		Provider:   d.Provider,
		Parameters: d.Parameters,
		Context:    d.Context,
	}
}

// SignedClaim pairs claim data with the raw witness signatures over it.
// Signature order carries no meaning.
type SignedClaim struct {
	Claim      ProviderClaimData
	Signatures [][]byte
}

// WitnessData identifies a member of an epoch's witness pool.
type WitnessData struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// BeaconState is a read-only snapshot of the witness registry for one
// epoch. The pool and quorum size are immutable for the epoch's
// lifetime.
type BeaconState struct {
	Epoch                     uint32        `json:"epoch"`
	Witnesses                 []WitnessData `json:"witnesses"`
	WitnessesRequiredForClaim int           `json:"witnessesRequiredForClaim"`
	NextEpochTimestampS       int64         `json:"nextEpochTimestampS"`
}

// Proof is the top-level unit submitted for verification, in the wire
// shape the attestation SDKs exchange as JSON.
type Proof struct {
	Identifier string            `json:"identifier"`
	ClaimData  ProviderClaimData `json:"claimData"`
	Signatures []string          `json:"signatures"`
	Witnesses  []WitnessData     `json:"witnesses,omitempty"`
	PublicData map[string]string `json:"publicData,omitempty"`
}

// ParseProof decodes a single proof from its JSON wire form.
func ParseProof(b []byte) (*Proof, error) {
	proof := &Proof{}
	if err := json.Unmarshal(b, proof); err != nil {
		return nil, fmt.Errorf("failed to unmarshal proof: %w", err)
	}
	if proof.Identifier == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrInvalidProof)
	}
	return proof, nil
}

// ParseProofs decodes either a single proof object or an array of
// proofs from JSON.
func ParseProofs(b []byte) ([]*Proof, error) {
	var proofs []*Proof
	if err := json.Unmarshal(b, &proofs); err == nil {
		return proofs, nil
	}
	proof, err := ParseProof(b)
	if err != nil {
		return nil, err
	}
	return []*Proof{proof}, nil
}
