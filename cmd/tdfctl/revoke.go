package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"trustdoc.dev/tdf/pkg/revocation"
)

var (
	revokeStore     string
	revokeSignerID  string
	revokeReason    string
	revokeAuthority string
)

var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Append a revocation entry to a revocation store file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var store *revocation.Store
		if data, err := os.ReadFile(revokeStore); err == nil {
			store, err = revocation.Load(data)
			if err != nil {
				return err
			}
		} else {
			store = revocation.New()
		}

		store.Add(revocation.Entry{
			SignerID:  revokeSignerID,
			Reason:    revocation.Reason(revokeReason),
			Authority: revokeAuthority,
			Instant:   time.Now().UTC(),
		})

		data, err := store.Serialize()
		if err != nil {
			return err
		}
		if err := os.WriteFile(revokeStore, data, 0o644); err != nil {
			return fmt.Errorf("write revocation store: %w", err)
		}

		fmt.Printf("revoked %s (%s) in %s\n", revokeSignerID, revokeReason, revokeStore)
		return nil
	},
}

func init() {
	revokeCmd.Flags().StringVar(&revokeStore, "store", "revocation.tdf", "path to the revocation store file, created if absent")
	revokeCmd.Flags().StringVar(&revokeSignerID, "signer-id", "", "signer identifier to revoke (required)")
	revokeCmd.Flags().StringVar(&revokeReason, "reason", string(revocation.ReasonUnspecified), "revocation reason: key-compromise, superseded, ceased-operation, other, unspecified")
	revokeCmd.Flags().StringVar(&revokeAuthority, "authority", "", "identifier of the authority recording this revocation")
	revokeCmd.MarkFlagRequired("signer-id")
}
