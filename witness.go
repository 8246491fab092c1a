// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// FetchWitnessListForClaim deterministically samples the witness
// quorum for a claim from the epoch's pool, without replacement.
//
// Both the attesting and verifying party must derive the identical
// quorum from the identical inputs, so every step below — the seed
// string layout, the 4-byte big-endian windows over the digest, the
// swap-remove pool mutation and the offset wrap at the digest length —
// is wire format, not implementation detail.
func FetchWitnessListForClaim(state *BeaconState, identifier string, timestampS int64) ([]WitnessData, error) {
	required := state.WitnessesRequiredForClaim
	if required > len(state.Witnesses) {
		return nil, fmt.Errorf("%w: need %d, pool has %d", ErrInsufficientPool, required, len(state.Witnesses))
	}

	seedInput := strings.Join([]string{
		identifier,
		strconv.FormatUint(uint64(state.Epoch), 10),
		strconv.Itoa(required),
		strconv.FormatInt(timestampS, 10),
	}, "\n")
	seed := crypto.Keccak256([]byte(seedInput))

	pool := make([]WitnessData, len(state.Witnesses))
	copy(pool, state.Witnesses)

	selected := make([]WitnessData, 0, required)
	byteOffset := 0
	for i := 0; i < required; i++ {
		window := binary.BigEndian.Uint32(seed[byteOffset : byteOffset+4])
		index := int(window % uint32(len(pool)))
		selected = append(selected, pool[index])

		// Swap-remove: O(1), and the resulting pool order feeds the
		// next draw, so it must match the reference exactly.
		pool[index] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]

		byteOffset = (byteOffset + 4) % len(seed)
	}

	return selected, nil
}
