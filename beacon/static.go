// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package beacon

import (
	"context"
	"fmt"

	reclaim "github.com/reclaimprotocol/reclaim-go-sdk"
)

// Static serves a fixed set of epoch states without touching a chain.
// Useful in tests and for verifying archived proofs offline.
type Static struct {
	states map[uint32]*reclaim.BeaconState
	latest uint32
}

var _ reclaim.Beacon = (*Static)(nil)

// NewStatic builds a static beacon from the given states. The highest
// epoch serves the latest-state query.
func NewStatic(states ...*reclaim.BeaconState) *Static {
	s := &Static{states: make(map[uint32]*reclaim.BeaconState, len(states))}
	for _, state := range states {
		s.states[state.Epoch] = state
		if state.Epoch > s.latest {
			s.latest = state.Epoch
		}
	}
	return s
}

// GetState implements reclaim.Beacon.
func (s *Static) GetState(_ context.Context, epoch uint32) (*reclaim.BeaconState, error) {
	if epoch == reclaim.LatestEpoch {
		epoch = s.latest
	}
	state, ok := s.states[epoch]
	if !ok {
		return nil, fmt.Errorf("no state for epoch %d", epoch)
	}
	return state, nil
}

// Close implements reclaim.Beacon.
func (s *Static) Close() {}
