package cmd

import (
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Interact with the audit trail",
	Long:  `Utilities for reading the server's audit log. Requires an admin token.`,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
