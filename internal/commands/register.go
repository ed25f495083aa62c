// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/version"
)

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "aeon",
		Short:   "Map ArchivesSpace records to Aeon request fields",
		Version: version.Short(),
	}
	rootCmd.SetVersionTemplate(version.Info() + "\n")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newMapCmd())
	rootCmd.AddCommand(newCheckCmd())

	return rootCmd
}
