// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package beacon

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	reclaim "github.com/reclaimprotocol/reclaim-go-sdk"
)

// fetchEpochABI covers the single registry view the verifier needs.
const fetchEpochABI = `[{"inputs":[{"internalType":"uint32","name":"epoch","type":"uint32"}],"name":"fetchEpoch","outputs":[{"components":[{"internalType":"uint32","name":"id","type":"uint32"},{"internalType":"uint32","name":"timestampStart","type":"uint32"},{"internalType":"uint32","name":"timestampEnd","type":"uint32"},{"components":[{"internalType":"address","name":"addr","type":"address"},{"internalType":"string","name":"host","type":"string"}],"internalType":"struct Reclaim.Witness[]","name":"witnesses","type":"tuple[]"},{"internalType":"uint8","name":"minimumWitnessesForClaimCreation","type":"uint8"}],"internalType":"struct Reclaim.Epoch","name":"","type":"tuple"}],"stateMutability":"view","type":"function"}]`

// witnessRecord mirrors the contract's Witness tuple.
type witnessRecord struct {
	Addr common.Address
	Host string
}

// epochRecord mirrors the contract's Epoch tuple.
type epochRecord struct {
	Id                               uint32
	TimestampStart                   uint32
	TimestampEnd                     uint32
	Witnesses                        []witnessRecord
	MinimumWitnessesForClaimCreation uint8
}

func registryABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(fetchEpochABI))
}

// stateFromRecord maps the raw epoch tuple to a BeaconState. Witness
// addresses are rendered lowercase, matching the form the selector and
// threshold check compare against.
func stateFromRecord(rec epochRecord) *reclaim.BeaconState {
	witnesses := make([]reclaim.WitnessData, len(rec.Witnesses))
	for i, w := range rec.Witnesses {
		witnesses[i] = reclaim.WitnessData{
			ID:  strings.ToLower(w.Addr.Hex()),
			URL: w.Host,
		}
	}
	return &reclaim.BeaconState{
		Epoch:                     rec.Id,
		Witnesses:                 witnesses,
		WitnessesRequiredForClaim: int(rec.MinimumWitnessesForClaimCreation),
		NextEpochTimestampS:       int64(rec.TimestampEnd),
	}
}

// decodeEpoch unpacks the raw return data of a fetchEpoch call.
func decodeEpoch(contractABI abi.ABI, data []byte) (*reclaim.BeaconState, error) {
	out, err := contractABI.Unpack("fetchEpoch", data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack fetchEpoch response: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected fetchEpoch response arity: %d", len(out))
	}
	rec := *abi.ConvertType(out[0], new(epochRecord)).(*epochRecord)
	return stateFromRecord(rec), nil
}
