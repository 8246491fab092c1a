// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim_test

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	reclaim "github.com/reclaimprotocol/reclaim-go-sdk"
	"github.com/reclaimprotocol/reclaim-go-sdk/beacon"
)

// unreachableBeacon fails every state fetch; used to prove a path
// never consults the beacon.
type unreachableBeacon struct{}

func (unreachableBeacon) GetState(context.Context, uint32) (*reclaim.BeaconState, error) {
	return nil, errors.New("beacon must not be called")
}

func (unreachableBeacon) Close() {}

// testEnv is a beacon epoch whose witnesses we hold the keys for,
// so tests can produce quorum signatures.
type testEnv struct {
	state *reclaim.BeaconState
	keys  map[string]*ecdsa.PrivateKey // witness ID -> key
}

func newTestEnv(t *testing.T, poolSize, required int) *testEnv {
	t.Helper()

	env := &testEnv{
		state: &reclaim.BeaconState{
			Epoch:                     3,
			WitnessesRequiredForClaim: required,
			NextEpochTimestampS:       1712001000,
		},
		keys: make(map[string]*ecdsa.PrivateKey, poolSize),
	}
	for i := 0; i < poolSize; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		id := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())
		env.keys[id] = key
		env.state.Witnesses = append(env.state.Witnesses, reclaim.WitnessData{
			ID:  id,
			URL: "https://witness.example.org",
		})
	}
	return env
}

// attest builds a proof over the claim info, signed by exactly the
// quorum the beacon seed selects for it.
func (env *testEnv) attest(t *testing.T, info reclaim.ClaimInfo) *reclaim.Proof {
	t.Helper()

	claimData := reclaim.ProviderClaimData{
		Provider:   info.Provider,
		Parameters: info.Parameters,
		Context:    info.Context,
		Identifier: reclaim.IdentifierFromClaimInfo(info),
		Owner:      "0x81d7B4791eE9635d77570EaBeCB2A5BDC0F22d04",
		TimestampS: 1712000000,
		Epoch:      env.state.Epoch,
	}

	quorum, err := reclaim.FetchWitnessListForClaim(env.state, claimData.Identifier, claimData.TimestampS)
	require.NoError(t, err)

	digest := accounts.TextHash([]byte(reclaim.SignDataForClaim(claimData)))
	signatures := make([]string, 0, len(quorum))
	for _, w := range quorum {
		sig, err := crypto.Sign(digest, env.keys[w.ID])
		require.NoError(t, err)
		sig[crypto.RecoveryIDOffset] += 27
		signatures = append(signatures, hexutil.Encode(sig))
	}

	return &reclaim.Proof{
		Identifier: claimData.Identifier,
		ClaimData:  claimData,
		Signatures: signatures,
	}
}

func testInfo() reclaim.ClaimInfo {
	return reclaim.ClaimInfo{
		Provider:   "http",
		Parameters: `{"url":"https://example.com/me","method":"GET"}`,
		Context:    `{"contextAddress":"0x0","contextMessage":"sample"}`,
	}
}

func TestVerifyValidProof(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, 8, 3)
	v := reclaim.NewVerifier(beacon.NewStatic(env.state), nil)

	ok, err := v.Verify(context.Background(), env.attest(t, testInfo()))
	require.NoError(err)
	require.True(ok)
}

func TestVerifyMissingQuorumSignature(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, 8, 3)
	v := reclaim.NewVerifier(beacon.NewStatic(env.state), nil)

	proof := env.attest(t, testInfo())
	proof.Signatures = proof.Signatures[:len(proof.Signatures)-1]

	ok, err := v.Verify(context.Background(), proof)
	require.NoError(err)
	require.False(ok)
}

func TestVerifyTamperedParameters(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, 8, 3)
	v := reclaim.NewVerifier(beacon.NewStatic(env.state), nil)

	proof := env.attest(t, testInfo())
	proof.ClaimData.Parameters = `{"url":"https://example.com/someone-else","method":"GET"}`

	ok, err := v.Verify(context.Background(), proof)
	require.NoError(err)
	require.False(ok)
}

func TestVerifyManualOverride(t *testing.T) {
	require := require.New(t)

	key, err := crypto.GenerateKey()
	require.NoError(err)
	witnessID := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())

	info := testInfo()
	claimData := reclaim.ProviderClaimData{
		Provider:   info.Provider,
		Parameters: info.Parameters,
		Context:    info.Context,
		Identifier: reclaim.IdentifierFromClaimInfo(info),
		Owner:      "0x81d7B4791eE9635d77570EaBeCB2A5BDC0F22d04",
		TimestampS: 1712000000,
		Epoch:      1,
	}
	sig, err := crypto.Sign(accounts.TextHash([]byte(reclaim.SignDataForClaim(claimData))), key)
	require.NoError(err)

	proof := &reclaim.Proof{
		Identifier: claimData.Identifier,
		ClaimData:  claimData,
		Signatures: []string{hexutil.Encode(sig)},
		Witnesses: []reclaim.WitnessData{
			{ID: witnessID, URL: reclaim.ManualVerifyURL},
		},
	}

	// The unreachable beacon proves the override path never fetches
	// epoch state.
	v := reclaim.NewVerifier(unreachableBeacon{}, nil)
	ok, err := v.Verify(context.Background(), proof)
	require.NoError(err)
	require.True(ok)
}

func TestVerifyNoSignaturesIsCallerError(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, 8, 3)
	v := reclaim.NewVerifier(beacon.NewStatic(env.state), nil)

	proof := env.attest(t, testInfo())
	proof.Signatures = nil

	ok, err := v.Verify(context.Background(), proof)
	require.ErrorIs(err, reclaim.ErrNoSignatures)
	require.False(ok)
}

func TestVerifyStripsQuotedIdentifier(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, 8, 3)
	v := reclaim.NewVerifier(beacon.NewStatic(env.state), nil)

	// Double-encoded identifiers arrive wrapped in literal quotes;
	// the identifier equality check strips them.
	proof := env.attest(t, testInfo())
	proof.Identifier = `"` + proof.Identifier + `"`

	// Witness selection is seeded with the identifier as submitted, so
	// a quoted identifier selects a different quorum and the proof
	// fails on signatures, not on the identifier check itself.
	ok, err := v.Verify(context.Background(), proof)
	require.NoError(err)
	require.False(ok)

	// On the manual-override path no selection happens and the quoted
	// identifier verifies.
	manual := env.attest(t, testInfo())
	manualQuorum, err := reclaim.FetchWitnessListForClaim(env.state, manual.Identifier, manual.ClaimData.TimestampS)
	require.NoError(err)
	manual.Identifier = `"` + manual.Identifier + `"`
	manual.Witnesses = []reclaim.WitnessData{{ID: manualQuorum[0].ID, URL: reclaim.ManualVerifyURL}}

	ok, err = v.Verify(context.Background(), manual)
	require.NoError(err)
	require.True(ok)
}

func TestVerifyBatchShortCircuits(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, 8, 3)
	v := reclaim.NewVerifier(beacon.NewStatic(env.state), nil)

	valid := env.attest(t, testInfo())
	invalid := env.attest(t, testInfo())
	invalid.ClaimData.Context = "tampered"

	// One bad element fails the whole batch; the result does not say
	// which index failed.
	ok, err := v.Verify(context.Background(), valid, invalid, valid)
	require.NoError(err)
	require.False(ok)

	ok, err = v.Verify(context.Background(), valid, valid)
	require.NoError(err)
	require.True(ok)
}

func TestVerifyBeaconUnavailable(t *testing.T) {
	require := require.New(t)

	env := newTestEnv(t, 8, 3)
	v := reclaim.NewVerifier(unreachableBeacon{}, nil)

	ok, err := v.Verify(context.Background(), env.attest(t, testInfo()))
	require.NoError(err)
	require.False(ok)
}
