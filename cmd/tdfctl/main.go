// Command tdfctl is the external collaborator CLI: flag parsing and
// calls into pkg/builder, pkg/verifier, pkg/tdfcrypto, and
// pkg/revocation. It contains no core logic of its own, in the same
// spirit as cmd/bls-zk-setup delegating everything to a library
// function, generalized to cobra's command-tree idiom from
// cmd/siac/main.go (root command, one file per command group).
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes, inspired by sysexits.h the same way cmd/siac's are.
const (
	exitCodeGeneral = 1
	exitCodeUsage   = 64
)

// logger is the package-level prefixed logger used for operational
// diagnostics, mirroring the teacher's log.New(log.Writer(), "[X] ",
// log.LstdFlags) habit. Command output meant for the operator to parse
// (root hashes, verdicts) goes to stdout via fmt.Printf instead.
var logger = log.New(log.Writer(), "[tdfctl] ", log.LstdFlags)

func main() {
	root := &cobra.Command{
		Use:   "tdfctl",
		Short: "Build, sign, and verify TrustDoc Format archives",
	}

	root.AddCommand(keygenCmd)
	root.AddCommand(buildCmd)
	root.AddCommand(verifyCmd)
	root.AddCommand(revokeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeUsage)
	}
}
