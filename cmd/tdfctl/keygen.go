package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trustdoc.dev/tdf/pkg/tdfcrypto"
)

var (
	keygenAlgorithm string
	keygenOut       string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new signing keypair and print the public key",
	RunE: func(cmd *cobra.Command, args []string) error {
		alg := tdfcrypto.Algorithm(keygenAlgorithm)
		km := &tdfcrypto.KeyManager{Algorithm: alg, KeyPath: keygenOut}
		signer, err := km.GenerateNew()
		if err != nil {
			return err
		}
		defer signer.Destroy()

		fmt.Printf("algorithm:   %s\n", signer.Algorithm())
		fmt.Printf("public_key:  %x\n", signer.PublicKey())
		if keygenOut != "" {
			fmt.Printf("private_key: written to %s\n", keygenOut)
		}
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVar(&keygenAlgorithm, "algorithm", string(tdfcrypto.Ed25519), "signature scheme: ed25519 or secp256k1")
	keygenCmd.Flags().StringVar(&keygenOut, "out", "", "path to write the hex-encoded private key (omit to print nothing to disk)")
}
