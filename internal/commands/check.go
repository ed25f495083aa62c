// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/cmdctx"
)

func newCheckCmd() *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a record is requestable",
		Long: `Check a record against the repository's request policy and print
the verdict, including the display message shown for unrequestable records.`,
		Example: `  # Check a record from a live ArchivesSpace
  aeon check --base-url http://localhost:8089 --uri /repositories/2/accessions/17`,
		PreRunE: cmdctx.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	opts.register(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, opts *recordOptions) error {
	mapper, err := buildMapper(cmd, opts)
	if err != nil {
		return err
	}

	if mapper.HideButton() {
		fmt.Fprintf(cmd.OutOrStdout(), "not requestable: %s\n", mapper.UnrequestableMessage())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "requestable")
	return nil
}
