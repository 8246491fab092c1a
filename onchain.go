// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

// OnChainClaimInfo is the claim content in the registry contract's
// argument layout. Field names are fixed for wire compatibility.
type OnChainClaimInfo struct {
	Context    string `json:"context"`
	Parameters string `json:"parameters"`
	Provider   string `json:"provider"`
}

// OnChainClaim is the attested claim header submitted on chain.
type OnChainClaim struct {
	Epoch      uint32 `json:"epoch"`
	Identifier string `json:"identifier"`
	Owner      string `json:"owner"`
	TimestampS int64  `json:"timestampS"`
}

// OnChainSignedClaim pairs the claim header with its signatures.
type OnChainSignedClaim struct {
	Claim      OnChainClaim `json:"claim"`
	Signatures []string     `json:"signatures"`
}

// OnChainProof is the flat submission record downstream contract calls
// consume.
type OnChainProof struct {
	ClaimInfo   OnChainClaimInfo   `json:"claimInfo"`
	SignedClaim OnChainSignedClaim `json:"signedClaim"`
}

// TransformForOnchain reshapes a verified proof into the on-chain
// submission record. Pure field re-projection, no verification.
func TransformForOnchain(proof *Proof) OnChainProof {
	return OnChainProof{
		ClaimInfo: OnChainClaimInfo{
			Context:    proof.ClaimData.Context,
			Parameters: proof.ClaimData.Parameters,
			Provider:   proof.ClaimData.Provider,
		},
		SignedClaim: OnChainSignedClaim{
			Claim: OnChainClaim{
				Epoch:      proof.ClaimData.Epoch,
				Identifier: proof.ClaimData.Identifier,
				Owner:      proof.ClaimData.Owner,
				TimestampS: proof.ClaimData.TimestampS,
			},
			Signatures: proof.Signatures,
		},
	}
}
