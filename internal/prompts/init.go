// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

// Package prompts provides interactive terminal prompts for CLI commands.
package prompts

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// RunInitForm runs the interactive form for the init command.
// It fills the provided pointers with user input.
func RunInitForm(repoCode, systemID, returnLinkLabel, siteCode *string, hideAccessions, topContainerMode *bool) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Repository code").
				Placeholder("rauner").
				Validate(func(s string) error {
					if s == "" {
						return errors.New("repository code is required")
					}
					return nil
				}).
				Value(repoCode),
			huh.NewInput().
				Title("Aeon external system ID").
				Placeholder("ArchivesSpace").
				Value(systemID),
			huh.NewInput().
				Title("Return link label").
				Placeholder("ArchivesSpace").
				Value(returnLinkLabel),
			huh.NewInput().
				Title("Aeon site code").
				Value(siteCode),
		),
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Accession requests").
				Options(
					huh.NewOption("Allow requests for accessions", false),
					huh.NewOption("Hide the request button for accessions", true),
				).
				Value(hideAccessions),
			huh.NewSelect[bool]().
				Title("Container resolution").
				Options(
					huh.NewOption("Ascend to parent records when a record has no containers", false),
					huh.NewOption("Only offer containers owned by the current record", true),
				).
				Value(topContainerMode),
		),
	).Run()
}
