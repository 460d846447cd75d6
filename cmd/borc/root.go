package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "borc",
		Short: "Bridge Orchestrator",
		Long:  "Relayer daemon and signing-key management for the cross-chain bridge",
	}

	rootCmd.AddCommand(keysCmd())

	return rootCmd
}
