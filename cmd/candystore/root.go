// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the candystore CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candystore",
		Short: "Candystore - a sweets catalog backend",
		Long: `Candystore is a sweets catalog backend with token-based
authentication, owner-scoped catalog management, and an admin panel login.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
