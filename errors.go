// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSignatures indicates caller misuse: a proof was submitted
	// with no signatures at all. It is the only failure Verify
	// surfaces as an error instead of a false result.
	ErrNoSignatures = errors.New("no signatures in proof")

	ErrInvalidProof       = errors.New("invalid proof")
	ErrIdentifierMismatch = errors.New("identifier mismatch")
	ErrBeaconUnavailable  = errors.New("beacon unavailable")
	ErrInsufficientPool   = errors.New("witness pool smaller than required quorum")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrMissingWitnessSigs = errors.New("missing witness signatures")
)

// ProofError is the typed verification failure used internally by the
// engine. The public Verify boundary collapses it to a boolean; the
// detail survives in logs.
type ProofError struct {
	// Missing holds the expected witness addresses with no matching
	// recovered signature, when the failure is a quorum shortfall.
	Missing []string

	err error
}

func (e *ProofError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("proof not verified: missing signatures from %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("proof not verified: %v", e.err)
}

func (e *ProofError) Unwrap() error {
	return e.err
}
