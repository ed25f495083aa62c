// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/cmdctx"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/config"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/prompts"
)

type initOptions struct {
	repoCode         string
	systemID         string
	returnLinkLabel  string
	siteCode         string
	hideAccessions   bool
	topContainerMode bool
	nonInteractive   bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an aeon.yaml configuration",
		Long: `Create an aeon.yaml configuration file with one repository block.
Further repositories and policies can be added to the file by hand.`,
		Example: `  # Interactive mode
  aeon init

  # Non-interactive
  aeon init --repo-code rauner --site-code RAUNER --non-interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.repoCode, "repo-code", "r", "", "Repository code")
	cmd.Flags().StringVar(&opts.systemID, "system-id", "", "Aeon external system ID")
	cmd.Flags().StringVar(&opts.returnLinkLabel, "return-link-label", "", "Return link label")
	cmd.Flags().StringVar(&opts.siteCode, "site-code", "", "Aeon site code")
	cmd.Flags().BoolVar(&opts.hideAccessions, "hide-accessions", false, "Hide the request button for accessions")
	cmd.Flags().BoolVar(&opts.topContainerMode, "top-container-mode", false, "Only offer containers owned by the current record")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts (requires --repo-code)")

	return cmd
}

func runInit(opts *initOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Check that the current directory isn't already initialized
	configPath := filepath.Join(cwd, cmdctx.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return errors.New("aeon.yaml already exists; configuration already initialized")
	}

	if opts.nonInteractive {
		if opts.repoCode == "" {
			return errors.New("non-interactive mode requires --repo-code")
		}
	} else {
		if err := prompts.RunInitForm(
			&opts.repoCode,
			&opts.systemID,
			&opts.returnLinkLabel,
			&opts.siteCode,
			&opts.hideAccessions,
			&opts.topContainerMode,
		); err != nil {
			return err
		}
	}

	cfg := config.Config{
		Version: config.CurrentConfigVersion,
		Repositories: map[string]config.RepositorySettings{
			strings.ToLower(opts.repoCode): {
				AeonExternalSystemID:    opts.systemID,
				AeonReturnLinkLabel:     opts.returnLinkLabel,
				AeonSiteCode:            opts.siteCode,
				HideButtonForAccessions: opts.hideAccessions,
				TopContainerMode:        opts.topContainerMode,
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}
	fmt.Printf("Initialization completed\n")

	return nil
}
