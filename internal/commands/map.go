// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aeon"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/cmdctx"
)

type recordOptions struct {
	uri     string
	file    string
	baseURL string
	session string
	verbose bool
}

func (o *recordOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.uri, "uri", "u", "", "Record URI to map (requires --base-url)")
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Path to a search-document JSON file")
	cmd.Flags().StringVarP(&o.baseURL, "base-url", "b", "", "ArchivesSpace base URL")
	cmd.Flags().StringVarP(&o.session, "session", "s", "", "ArchivesSpace session token")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
}

type mapOptions struct {
	recordOptions
	format string
}

func newMapCmd() *cobra.Command {
	opts := &mapOptions{}

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map a record to Aeon request fields",
		Long: `Map an archival record to the flat field set submitted to Aeon.
One mapping is emitted per requestable container instance.`,
		Example: `  # Map a record from a live ArchivesSpace
  aeon map --base-url http://localhost:8089 --uri /repositories/2/archival_objects/123

  # Map a saved search document
  aeon map --file record.json`,
		PreRunE: cmdctx.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd, opts)
		},
	}

	opts.recordOptions.register(cmd)
	cmd.Flags().StringVar(&opts.format, "format", "form", "Output format (form or json)")

	return cmd
}

func runMap(cmd *cobra.Command, opts *mapOptions) error {
	mapper, err := buildMapper(cmd, &opts.recordOptions)
	if err != nil {
		return err
	}

	mappings, err := mapper.Map(cmd.Context())
	if err != nil {
		return fmt.Errorf("mapping failed: %w", err)
	}

	switch opts.format {
	case "json":
		data, err := json.MarshalIndent(mappings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "form":
		for _, m := range mappings {
			fmt.Fprintln(cmd.OutOrStdout(), m.EncodeForm())
		}
	default:
		return fmt.Errorf("unknown format: %s", opts.format)
	}
	return nil
}

// buildMapper wires the dependency set from flags and configuration,
// loads the record, and dispatches through the registry.
func buildMapper(cmd *cobra.Command, opts *recordOptions) (aeon.Mapper, error) {
	aeonCtx, err := cmdctx.RequireFromCommand(cmd)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(opts.verbose)
	if err != nil {
		return nil, err
	}

	deps := aeon.Deps{
		StripMarkup: aspace.StripMarkup,
		EnumLabel:   aeonCtx.Config.EnumLabel,
		Config:      aeonCtx.Config,
		Log:         log,
	}
	if opts.baseURL != "" {
		client := aspace.NewClient(opts.baseURL, log, aspace.WithSession(opts.session))
		deps.Records = client
		deps.Locations = client
	}

	rec, err := loadRecord(cmd.Context(), opts, deps)
	if err != nil {
		return nil, err
	}

	return aeon.DefaultRegistry(deps).MapperFor(cmd.Context(), rec)
}

func loadRecord(ctx context.Context, opts *recordOptions, deps aeon.Deps) (*aspace.Record, error) {
	switch {
	case opts.file != "":
		data, err := os.ReadFile(opts.file) //nolint:gosec // path is provided by caller
		if err != nil {
			return nil, err
		}
		var rec aspace.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode record file %s: %w", opts.file, err)
		}
		return &rec, nil

	case opts.uri != "":
		if deps.Records == nil {
			return nil, errors.New("--uri requires --base-url")
		}
		rec, err := deps.Records.FetchRecordByURI(ctx, opts.uri)
		if err != nil {
			return nil, err
		}
		if rec.URI == "" {
			return nil, fmt.Errorf("record not found: %s", opts.uri)
		}
		return rec, nil

	default:
		return nil, errors.New("either --file or --uri is required")
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}
