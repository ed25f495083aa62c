// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/config"
)

// fakeRecords serves records by URI; unknown URIs resolve to an empty
// record, matching the search collaborator's contract.
type fakeRecords map[string]*aspace.Record

func (f fakeRecords) FetchRecordByURI(_ context.Context, uri string) (*aspace.Record, error) {
	if rec, ok := f[uri]; ok {
		return rec, nil
	}
	return &aspace.Record{}, nil
}

type fakeLocations map[string]*aspace.Location

func (f fakeLocations) FetchLocationByID(_ context.Context, id string) (*aspace.Location, error) {
	if loc, ok := f[id]; ok {
		return loc, nil
	}
	return nil, fmt.Errorf("no location %s", id)
}

func testRecord(t *testing.T, primaryType, uri string, payload map[string]any) *aspace.Record {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &aspace.Record{
		URI:         uri,
		PrimaryType: primaryType,
		JSON:        string(data),
	}
}

func testDeps(cfg *config.Config) Deps {
	return Deps{Config: cfg, Log: zap.NewNop()}
}

func repoConfig(code string, settings config.RepositorySettings) *config.Config {
	return &config.Config{
		Version:      config.CurrentConfigVersion,
		Repositories: map[string]config.RepositorySettings{code: settings},
	}
}

// payloadRepository builds the repository block that routes a record to
// the given repo code.
func payloadRepository(code string) map[string]any {
	return map[string]any{
		"ref":       "/repositories/2",
		"_resolved": map[string]any{"repo_code": code, "name": code + " Library"},
	}
}

func containerInstance(indicator2 string, topContainer map[string]any) map[string]any {
	sub := map[string]any{"indicator_2": indicator2, "type_2": "folder"}
	if topContainer != nil {
		sub["top_container"] = topContainer
	}
	return map[string]any{
		"instance_type": "mixed_materials",
		"sub_container": sub,
	}
}
