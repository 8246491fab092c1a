// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

// Package beacon implements the witness registry oracle consumed by
// the proof verifier: a chain-backed client reading epoch state from
// the on-chain registry, and a static in-memory beacon for tests and
// air-gapped verification.
package beacon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	reclaim "github.com/reclaimprotocol/reclaim-go-sdk"
	"github.com/reclaimprotocol/reclaim-go-sdk/cache"
)

// DefaultCacheTTL bounds how long a fetched epoch state is served
// without a fresh registry read. Historical epochs are immutable; the
// TTL mostly matters for the latest-epoch query.
const DefaultCacheTTL = 5 * time.Minute

// Config describes how to reach a witness registry deployment. Zero
// values fall back to the chain registry entry for ChainID (or the
// default chain when ChainID is also zero).
type Config struct {
	ChainID  uint64
	RPCURL   string
	Address  common.Address
	CacheTTL time.Duration
}

// Client reads witness-set state from the on-chain registry. Epoch
// states are memoized; a single client can serve concurrent
// verifications.
type Client struct {
	rpcClient *gethrpc.Client
	eth       *ethclient.Client
	address   common.Address
	abi       abi.ABI
	states    *cache.TTLCache[uint32, *reclaim.BeaconState]
	log       *zap.Logger
}

var _ reclaim.Beacon = (*Client)(nil)

// Dial connects to the configured chain and returns a ready client.
func Dial(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	chainID := cfg.ChainID
	if chainID == 0 {
		chainID = DefaultChainID
	}
	chain, err := ChainConfigFor(chainID)
	if err != nil {
		return nil, err
	}

	rpcURL := strings.TrimSpace(cfg.RPCURL)
	if rpcURL == "" {
		rpcURL = chain.RPCURL
	}
	address := cfg.Address
	if address == (common.Address{}) {
		address = chain.Address
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	contractABI, err := registryABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry ABI: %w", err)
	}

	rpcClient, err := gethrpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", chain.Name, err)
	}

	return &Client{
		rpcClient: rpcClient,
		eth:       ethclient.NewClient(rpcClient),
		address:   address,
		abi:       contractABI,
		states:    cache.NewTTLCache[uint32, *reclaim.BeaconState](ttl),
		log:       log.With(zap.String("chain", chain.Name)),
	}, nil
}

// GetState implements reclaim.Beacon. Epoch 0 resolves to the most
// recent epoch known to the registry.
func (c *Client) GetState(ctx context.Context, epoch uint32) (*reclaim.BeaconState, error) {
	return c.states.Get(ctx, epoch, c.fetchEpoch, false)
}

func (c *Client) fetchEpoch(ctx context.Context, epoch uint32) (*reclaim.BeaconState, error) {
	data, err := c.abi.Pack("fetchEpoch", epoch)
	if err != nil {
		return nil, fmt.Errorf("failed to pack fetchEpoch call: %w", err)
	}

	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchEpoch call failed: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("fetchEpoch returned no data")
	}

	state, err := decodeEpoch(c.abi, raw)
	if err != nil {
		return nil, err
	}

	c.log.Debug("fetched epoch state",
		zap.Uint32("requested", epoch),
		zap.Uint32("epoch", state.Epoch),
		zap.Int("witnesses", len(state.Witnesses)),
		zap.Int("required", state.WitnessesRequiredForClaim),
	)
	return state, nil
}

// Close implements reclaim.Beacon.
func (c *Client) Close() {
	if c.eth != nil {
		c.eth.Close()
	}
}
