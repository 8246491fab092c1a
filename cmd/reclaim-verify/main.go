// Copyright (C) 2025, Reclaim Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	reclaim "github.com/reclaimprotocol/reclaim-go-sdk"
	"github.com/reclaimprotocol/reclaim-go-sdk/beacon"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reclaim-verify",
	Short: "Verify Reclaim protocol proofs against the witness registry",
	Long: `reclaim-verify checks proofs produced by the Reclaim attestation
protocol: it recomputes the claim identifier, derives the witness quorum
the beacon requires for the claim's epoch, and verifies that every
required witness signed the claim.`,
	Version:       fmt.Sprintf("%s (built %s)", version, buildDate),
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().Uint64("chain-id", beacon.DefaultChainID, "chain hosting the witness registry")
	rootCmd.PersistentFlags().String("rpc-url", "", "RPC endpoint override for the registry chain")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "timeout for beacon round trips")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose diagnostics")

	// Every flag can also come from the environment: --chain-id is
	// RECLAIM_CHAIN_ID, and so on.
	viper.SetEnvPrefix("RECLAIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(identifierCmd)
	rootCmd.AddCommand(witnessesCmd)

	verifyCmd.Flags().String("proof", "", "path to a proof JSON file (single object or array)")
	cobra.CheckErr(verifyCmd.MarkFlagRequired("proof"))

	identifierCmd.Flags().String("provider", "", "claim provider")
	identifierCmd.Flags().String("parameters", "", "serialized claim parameters")
	identifierCmd.Flags().String("context", "", "claim context")
	cobra.CheckErr(identifierCmd.MarkFlagRequired("provider"))

	witnessesCmd.Flags().String("identifier", "", "claim identifier")
	witnessesCmd.Flags().Uint32("epoch", reclaim.LatestEpoch, "beacon epoch (0 = latest)")
	witnessesCmd.Flags().Int64("timestamp", 0, "claim timestamp in unix seconds")
	cobra.CheckErr(witnessesCmd.MarkFlagRequired("identifier"))
	cobra.CheckErr(witnessesCmd.MarkFlagRequired("timestamp"))
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify one or more proofs from a JSON file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		proofPath, _ := cmd.Flags().GetString("proof")
		raw, err := os.ReadFile(proofPath)
		if err != nil {
			return err
		}
		proofs, err := reclaim.ParseProofs(raw)
		if err != nil {
			return err
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
		defer cancel()

		b, err := beacon.Dial(ctx, beacon.Config{
			ChainID: viper.GetUint64("chain-id"),
			RPCURL:  viper.GetString("rpc-url"),
		}, log)
		if err != nil {
			return err
		}
		defer b.Close()

		ok, err := reclaim.NewVerifier(b, log).Verify(ctx, proofs...)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("NOT VERIFIED")
			os.Exit(1)
		}
		fmt.Println("VERIFIED")
		return nil
	},
}

var identifierCmd = &cobra.Command{
	Use:   "identifier",
	Short: "Compute the canonical identifier for claim content",
	RunE: func(cmd *cobra.Command, _ []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		parameters, _ := cmd.Flags().GetString("parameters")
		claimContext, _ := cmd.Flags().GetString("context")

		fmt.Println(reclaim.IdentifierFromClaimInfo(reclaim.ClaimInfo{
			Provider:   provider,
			Parameters: parameters,
			Context:    claimContext,
		}))
		return nil
	},
}

var witnessesCmd = &cobra.Command{
	Use:   "witnesses",
	Short: "Print the witness quorum the beacon requires for a claim",
	RunE: func(cmd *cobra.Command, _ []string) error {
		identifier, _ := cmd.Flags().GetString("identifier")
		epoch, _ := cmd.Flags().GetUint32("epoch")
		timestampS, _ := cmd.Flags().GetInt64("timestamp")

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
		defer cancel()

		b, err := beacon.Dial(ctx, beacon.Config{
			ChainID: viper.GetUint64("chain-id"),
			RPCURL:  viper.GetString("rpc-url"),
		}, log)
		if err != nil {
			return err
		}
		defer b.Close()

		state, err := b.GetState(ctx, epoch)
		if err != nil {
			return err
		}
		quorum, err := reclaim.FetchWitnessListForClaim(state, identifier, timestampS)
		if err != nil {
			return err
		}

		fmt.Printf("epoch %d requires %d of %d witnesses:\n", state.Epoch, state.WitnessesRequiredForClaim, len(state.Witnesses))
		for _, w := range quorum {
			fmt.Printf("  %s  %s\n", w.ID, w.URL)
		}
		return nil
	},
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

