// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/luxfi/math/set"
)

// SignDataForClaim builds the exact string a witness signs for a
// claim: newline-joined identifier, lowercased owner address,
// timestamp and epoch.
func SignDataForClaim(data ProviderClaimData) string {
	return strings.Join([]string{
		data.Identifier,
		strings.ToLower(data.Owner),
		strconv.FormatInt(data.TimestampS, 10),
		strconv.FormatUint(uint64(data.Epoch), 10),
	}, "\n")
}

// RecoverSignersOfSignedClaim recovers one signer address per
// signature. Signatures use the standard Ethereum personal-message
// prefix over the claim's sign data.
func RecoverSignersOfSignedClaim(claim SignedClaim) ([]common.Address, error) {
	digest := accounts.TextHash([]byte(SignDataForClaim(claim.Claim)))

	signers := make([]common.Address, 0, len(claim.Signatures))
	for i, signature := range claim.Signatures {
		if len(signature) != crypto.SignatureLength {
			return nil, fmt.Errorf("%w: signature %d is %d bytes", ErrMalformedSignature, i, len(signature))
		}

		// Wallets emit V as 27/28, recovery wants 0/1.
		sig := make([]byte, crypto.SignatureLength)
		copy(sig, signature)
		if sig[crypto.RecoveryIDOffset] >= 27 {
			sig[crypto.RecoveryIDOffset] -= 27
		}

		pub, err := crypto.SigToPub(digest, sig)
		if err != nil {
			return nil, fmt.Errorf("%w: signature %d: %v", ErrMalformedSignature, i, err)
		}
		signers = append(signers, crypto.PubkeyToAddress(*pub))
	}
	return signers, nil
}

// AssertValidSignedClaim checks that every expected witness address
// appears among the recovered signers. Recovered addresses outside the
// expected set are tolerated.
func AssertValidSignedClaim(claim SignedClaim, expected []common.Address) error {
	recovered, err := RecoverSignersOfSignedClaim(claim)
	if err != nil {
		return err
	}

	notSeen := set.Of(expected...)
	for _, signer := range recovered {
		notSeen.Remove(signer)
	}
	if notSeen.Len() == 0 {
		return nil
	}

	missing := make([]string, 0, notSeen.Len())
	for addr := range notSeen {
		missing = append(missing, strings.ToLower(addr.Hex()))
	}
	return &ProofError{Missing: missing, err: ErrMissingWitnessSigs}
}
