// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package beacon

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultChainID is the chain the witness registry lives on when the
// caller does not pick one (Optimism Sepolia).
const DefaultChainID uint64 = 11155420

var ErrUnsupportedChain = errors.New("unsupported chain")

// ChainConfig locates the witness registry contract on one chain.
type ChainConfig struct {
	Name    string
	Address common.Address
	RPCURL  string
}

var chainConfigs = map[uint64]ChainConfig{
	420: {
		Name:    "opt-goerli",
		Address: common.HexToAddress("0xF93F605142Fb1Efad7Aa58253dDffF67775b4520"),
		RPCURL:  "https://goerli.optimism.io",
	},
	11155420: {
		Name:    "opt-sepolia",
		Address: common.HexToAddress("0x6D0f81BDA11995f25921aAd5B43359630E65Ca96"),
		RPCURL:  "https://sepolia.optimism.io",
	},
}

// ChainConfigFor returns the registry deployment for a chain ID.
func ChainConfigFor(chainID uint64) (ChainConfig, error) {
	cfg, ok := chainConfigs[chainID]
	if !ok {
		return ChainConfig{}, fmt.Errorf("%w: %#x", ErrUnsupportedChain, chainID)
	}
	return cfg, nil
}
