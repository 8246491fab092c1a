// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package reclaim

import "context"

// LatestEpoch asks a Beacon for its most recently known state.
const LatestEpoch uint32 = 0

// Beacon resolves witness-set state per epoch. Implementations are
// read-only oracles; repeated calls with the same epoch are safe and
// may be memoized by the implementation. A single Beacon may be shared
// across concurrent verifications.
type Beacon interface {
	// GetState returns the witness-set state as of the given epoch,
	// or the most recent state when epoch is LatestEpoch.
	GetState(ctx context.Context, epoch uint32) (*BeaconState, error)

	// Close releases any resources held by the beacon.
	Close()
}
