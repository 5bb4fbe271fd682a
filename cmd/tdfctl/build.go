package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trustdoc.dev/tdf/pkg/builder"
	"trustdoc.dev/tdf/pkg/config"
	"trustdoc.dev/tdf/pkg/document"
	"trustdoc.dev/tdf/pkg/merkle"
	"trustdoc.dev/tdf/pkg/tdfcrypto"
	"trustdoc.dev/tdf/pkg/timestamp"
)

var (
	buildTitle      string
	buildLanguage   string
	buildBodyFile   string
	buildOut        string
	buildSignKey    string
	buildAlgorithm  string
	buildSignerID   string
	buildSignerName string
	buildGuardTier  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a TrustDoc archive from a title and a body text file",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(buildBodyFile)
		if err != nil {
			return fmt.Errorf("read body file: %w", err)
		}

		now := time.Now().UTC()
		doc := document.Document{
			Manifest: document.Manifest{
				SchemaVersion: "1.0",
				DocumentID:    uuid.NewString(),
				Title:         buildTitle,
				Language:      buildLanguage,
				Created:       now,
				Modified:      now,
			},
			Content: document.ContentTree{
				Sections: []document.Section{
					{
						ID: "s1",
						Blocks: []document.Block{
							document.NewHeading("h1", 1, buildTitle),
							document.NewParagraph("b1", string(body)),
						},
					},
				},
			},
		}

		b := builder.New(doc, merkle.SHA256)

		if buildSignKey != "" {
			km := &tdfcrypto.KeyManager{Algorithm: tdfcrypto.Algorithm(buildAlgorithm), KeyPath: buildSignKey}
			signer, err := km.LoadOrGenerate()
			if err != nil {
				return fmt.Errorf("load signing key: %w", err)
			}
			defer signer.Destroy()
			b.SignWith(signer, buildSignerID, buildSignerName, timestamp.Manual)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.GuardTier = buildGuardTier
		limits, err := cfg.GuardLimits()
		if err != nil {
			return err
		}

		out, err := os.Create(buildOut)
		if err != nil {
			return fmt.Errorf("create output archive: %w", err)
		}
		defer out.Close()

		logger.Printf("building %s (guard tier %s)", buildOut, buildGuardTier)
		report, err := b.Write(out, limits)
		if err != nil {
			return err
		}
		logger.Printf("wrote %s: %d signature(s)", buildOut, report.Signatures)

		fmt.Printf("root_hash:  %x\n", report.RootHash)
		fmt.Printf("algorithm:  %s\n", report.Algorithm)
		fmt.Printf("signatures: %d\n", report.Signatures)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildTitle, "title", "", "document title (required)")
	buildCmd.Flags().StringVar(&buildLanguage, "language", "en", "document language tag")
	buildCmd.Flags().StringVar(&buildBodyFile, "body-file", "", "path to a text file used as the sole paragraph body (required)")
	buildCmd.Flags().StringVar(&buildOut, "out", "document.tdf", "path to write the built archive")
	buildCmd.Flags().StringVar(&buildSignKey, "sign-key", "", "path to a private key file; omit to build unsigned")
	buildCmd.Flags().StringVar(&buildAlgorithm, "algorithm", string(tdfcrypto.Ed25519), "signature scheme: ed25519 or secp256k1")
	buildCmd.Flags().StringVar(&buildSignerID, "signer-id", "", "signer identifier embedded in the signature")
	buildCmd.Flags().StringVar(&buildSignerName, "signer-name", "", "human-readable signer name")
	buildCmd.Flags().StringVar(&buildGuardTier, "guard-tier", "standard", "resource guard tier: micro, standard, extended, permissive")
	buildCmd.MarkFlagRequired("title")
	buildCmd.MarkFlagRequired("body-file")
}
