// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// IdentifierFromClaimInfo derives the canonical 32-byte claim
// identifier: keccak256 over the newline-joined provider, parameters
// and context, rendered as 0x-prefixed lowercase hex. The fields are
// hashed verbatim, with no escaping or canonicalization.
func IdentifierFromClaimInfo(info ClaimInfo) string {
	input := strings.Join([]string{info.Provider, info.Parameters, info.Context}, "\n")
	digest := crypto.Keccak256([]byte(input))
	return "0x" + hex.EncodeToString(digest)
}
