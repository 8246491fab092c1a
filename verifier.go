// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Verifier checks proofs against the witness quorum dictated by a
// beacon. It holds no mutable state and may be shared across
// goroutines.
type Verifier struct {
	beacon Beacon
	log    *zap.Logger
}

// NewVerifier returns a Verifier backed by the given beacon. A nil
// logger disables diagnostics.
func NewVerifier(beacon Beacon, log *zap.Logger) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Verifier{
		beacon: beacon,
		log:    log,
	}
}

// Verify verifies the given proofs in order and reports whether all of
// them hold. It stops at the first failing proof; the result does not
// say which one failed — callers needing per-item diagnostics must
// verify items individually.
//
// Content problems (identifier mismatch, quorum shortfall, unreachable
// beacon) are reported as a false result with the detail logged. The
// only error return is ErrNoSignatures, which signals caller misuse
// rather than an invalid proof.
func (v *Verifier) Verify(ctx context.Context, proofs ...*Proof) (bool, error) {
	for _, proof := range proofs {
		if len(proof.Signatures) == 0 {
			return false, ErrNoSignatures
		}
		if err := v.verifyProof(ctx, proof); err != nil {
			v.log.Info("proof not verified",
				zap.String("identifier", proof.Identifier),
				zap.Error(err),
			)
			return false, nil
		}
	}
	return true, nil
}

// verifyProof keeps failures typed; Verify collapses them to the
// boolean contract at the public boundary.
func (v *Verifier) verifyProof(ctx context.Context, proof *Proof) error {
	expected, err := v.expectedWitnesses(ctx, proof)
	if err != nil {
		return err
	}

	// Tolerate JSON quoting artifacts around the submitted identifier.
	identifier := strings.ReplaceAll(proof.Identifier, `"`, "")

	calculated := IdentifierFromClaimInfo(proof.ClaimData.ClaimInfo())
	if calculated != identifier {
		return fmt.Errorf("%w: calculated %s, proof claims %s", ErrIdentifierMismatch, calculated, identifier)
	}

	signatures := make([][]byte, len(proof.Signatures))
	for i, sig := range proof.Signatures {
		signatures[i] = common.FromHex(sig)
	}

	return AssertValidSignedClaim(SignedClaim{
		Claim:      proof.ClaimData,
		Signatures: signatures,
	}, expected)
}

// expectedWitnesses resolves the witness set the proof must carry
// signatures from: either the manual-verify override pinned in the
// proof itself, or the beacon-seeded quorum for the claim's epoch.
func (v *Verifier) expectedWitnesses(ctx context.Context, proof *Proof) ([]common.Address, error) {
	if len(proof.Witnesses) > 0 && proof.Witnesses[0].URL == ManualVerifyURL {
		return []common.Address{common.HexToAddress(proof.Witnesses[0].ID)}, nil
	}
	return GetWitnessesForClaim(ctx, v.beacon, proof.ClaimData.Epoch, proof.Identifier, proof.ClaimData.TimestampS)
}

// GetWitnessesForClaim fetches the beacon state for an epoch and
// derives the witness quorum required to attest the claim.
func GetWitnessesForClaim(ctx context.Context, beacon Beacon, epoch uint32, identifier string, timestampS int64) ([]common.Address, error) {
	state, err := beacon.GetState(ctx, epoch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBeaconUnavailable, err)
	}

	selected, err := FetchWitnessListForClaim(state, identifier, timestampS)
	if err != nil {
		return nil, err
	}

	witnesses := make([]common.Address, len(selected))
	for i, w := range selected {
		witnesses[i] = common.HexToAddress(w.ID)
	}
	return witnesses, nil
}
