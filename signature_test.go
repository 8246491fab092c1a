// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

import (
	"crypto/ecdsa"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func testClaimData() ProviderClaimData {
	info := ClaimInfo{Provider: "http", Parameters: `{"url":"https://example.com"}`, Context: "ctx"}
	return ProviderClaimData{
		Provider:   info.Provider,
		Parameters: info.Parameters,
		Context:    info.Context,
		Identifier: IdentifierFromClaimInfo(info),
		Owner:      "0x81d7B4791eE9635d77570EaBeCB2A5BDC0F22d04",
		TimestampS: 1712000000,
		Epoch:      3,
	}
}

// signClaim produces a witness signature over the claim. With
// walletStyle the recovery byte is shifted to 27/28 as wallets emit it.
func signClaim(t *testing.T, data ProviderClaimData, key *ecdsa.PrivateKey, walletStyle bool) []byte {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(SignDataForClaim(data))), key)
	require.NoError(t, err)
	if walletStyle {
		sig[crypto.RecoveryIDOffset] += 27
	}
	return sig
}

func TestSignDataForClaim(t *testing.T) {
	data := testClaimData()
	expected := data.Identifier +
		"\n0x81d7b4791ee9635d77570eabecb2a5bdc0f22d04" +
		"\n1712000000" +
		"\n3"
	require.Equal(t, expected, SignDataForClaim(data))
}

func TestRecoverSignersOfSignedClaim(t *testing.T) {
	require := require.New(t)

	data := testClaimData()
	keyA, err := crypto.GenerateKey()
	require.NoError(err)
	keyB, err := crypto.GenerateKey()
	require.NoError(err)

	claim := SignedClaim{
		Claim: data,
		Signatures: [][]byte{
			signClaim(t, data, keyA, true),  // wallet-style V=27/28
			signClaim(t, data, keyB, false), // raw recovery ID
		},
	}

	signers, err := RecoverSignersOfSignedClaim(claim)
	require.NoError(err)
	require.Equal([]common.Address{
		crypto.PubkeyToAddress(keyA.PublicKey),
		crypto.PubkeyToAddress(keyB.PublicKey),
	}, signers)
}

func TestRecoverSignersRejectsMalformedSignature(t *testing.T) {
	claim := SignedClaim{
		Claim:      testClaimData(),
		Signatures: [][]byte{{0x01, 0x02}},
	}
	_, err := RecoverSignersOfSignedClaim(claim)
	require.ErrorIs(t, err, ErrMalformedSignature)
}

func TestAssertValidSignedClaim(t *testing.T) {
	require := require.New(t)

	data := testClaimData()
	keyA, err := crypto.GenerateKey()
	require.NoError(err)
	keyB, err := crypto.GenerateKey()
	require.NoError(err)
	addrA := crypto.PubkeyToAddress(keyA.PublicKey)
	addrB := crypto.PubkeyToAddress(keyB.PublicKey)

	signedByBoth := SignedClaim{
		Claim: data,
		Signatures: [][]byte{
			signClaim(t, data, keyA, true),
			signClaim(t, data, keyB, true),
		},
	}

	// expected ⊆ recovered succeeds.
	require.NoError(AssertValidSignedClaim(signedByBoth, []common.Address{addrA, addrB}))

	// Extra recovered signers beyond the expected set are tolerated.
	require.NoError(AssertValidSignedClaim(signedByBoth, []common.Address{addrB}))

	// A missing expected signer fails and is named in the error.
	signedByA := SignedClaim{
		Claim:      data,
		Signatures: [][]byte{signClaim(t, data, keyA, true)},
	}
	err = AssertValidSignedClaim(signedByA, []common.Address{addrA, addrB})
	require.ErrorIs(err, ErrMissingWitnessSigs)

	proofErr := &ProofError{}
	require.ErrorAs(err, &proofErr)
	require.Equal([]string{strings.ToLower(addrB.Hex())}, proofErr.Missing)
}
