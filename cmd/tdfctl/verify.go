package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"trustdoc.dev/tdf/pkg/config"
	"trustdoc.dev/tdf/pkg/revocation"
	"trustdoc.dev/tdf/pkg/verifier"
)

var (
	verifyGuardTier       string
	verifyRevocationStore string
	verifyTrustedKeys     []string
	verifyStrict          bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [archive]",
	Short: "Verify a TrustDoc archive's integrity, signatures, and revocation status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.GuardTier = verifyGuardTier
		limits, err := cfg.GuardLimits()
		if err != nil {
			return err
		}

		parsed, err := verifier.Open(data, limits, nil)
		if err != nil {
			return err
		}

		policy := verifier.TrustPolicy{Strict: verifyStrict}
		if len(verifyTrustedKeys) > 0 {
			policy.TrustedKeys = map[string][]byte{}
			for _, kv := range verifyTrustedKeys {
				id, hexKey, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --trusted-key %q, expected signer_id=hex_public_key", kv)
				}
				key, err := hex.DecodeString(hexKey)
				if err != nil {
					return fmt.Errorf("invalid --trusted-key %q: %w", kv, err)
				}
				policy.TrustedKeys[id] = key
			}
		}
		if verifyRevocationStore != "" {
			raw, err := os.ReadFile(verifyRevocationStore)
			if err != nil {
				return fmt.Errorf("read revocation store: %w", err)
			}
			store, err := revocation.Load(raw)
			if err != nil {
				return err
			}
			policy.RevocationStore = store
		}

		logger.Printf("verifying %s (guard tier %s)", args[0], verifyGuardTier)
		report, verifyErr := verifier.Verify(parsed, policy)
		logger.Printf("verification completed in %dns, valid=%t", report.DurationNanos, report.Valid)

		fmt.Printf("root_matches: %t\n", report.RootMatches)
		fmt.Printf("valid:        %t\n", report.Valid)
		for _, sig := range report.Signatures {
			fmt.Printf("signature %-24s %s", sig.SignerID, sig.Verdict)
			if sig.Detail != "" {
				fmt.Printf(" (%s)", sig.Detail)
			}
			fmt.Println()
		}
		for _, w := range report.Warnings {
			fmt.Printf("warning: %s\n", w)
		}

		if !report.Valid {
			if verifyErr != nil {
				return verifyErr
			}
			os.Exit(exitCodeGeneral)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyGuardTier, "guard-tier", "standard", "resource guard tier: micro, standard, extended, permissive")
	verifyCmd.Flags().StringVar(&verifyRevocationStore, "revocation-store", "", "path to a revocation store file")
	verifyCmd.Flags().StringArrayVar(&verifyTrustedKeys, "trusted-key", nil, "signer_id=hex_public_key; repeatable. Omit to trust each signature's embedded key")
	verifyCmd.Flags().BoolVar(&verifyStrict, "strict", false, "fail on advisory revocations (revoked after signing)")
}
