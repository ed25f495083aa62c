// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/config"
)

// maxAscentDepth bounds the containment-tree ascent. A well-formed tree
// never gets near this.
const maxAscentDepth = 32

// ErrAscentCycle is returned when a record's ancestry references a URI
// already visited during resolution.
var ErrAscentCycle = errors.New("cycle in record ancestry")

// resolveContainerInstances returns the record's physical container
// instances, starting from its already-parsed payload (nil means no
// instances). Digital-object instances never count. When the record has
// none of its own and the repository does not pin resolution to the
// current record, resolution ascends to the parent (or resource) record
// and retries until instances are found or the ancestry is exhausted.
// Each step fetches at most one record.
func resolveContainerInstances(ctx context.Context, deps Deps, settings config.RepositorySettings, uri string, payload *aspace.Payload) ([]aspace.Instance, error) {
	r := &instanceResolver{
		deps:     deps,
		settings: settings,
		log:      deps.logger(),
		visited:  make(map[string]struct{}),
	}
	return r.resolve(ctx, uri, payload, 0)
}

type instanceResolver struct {
	deps     Deps
	settings config.RepositorySettings
	log      *zap.Logger
	visited  map[string]struct{}
}

func (r *instanceResolver) resolve(ctx context.Context, uri string, payload *aspace.Payload, depth int) ([]aspace.Instance, error) {
	r.log.Info("checking record for top container instances", zap.String("uri", uri))
	if payload == nil {
		return nil, nil
	}
	if r.settings.LogRecords {
		r.log.Debug("resolving instances", zap.String("uri", uri), zap.Any("instances", payload.Instances))
	}
	r.visited[uri] = struct{}{}

	var physical []aspace.Instance
	for _, inst := range payload.Instances {
		if inst.DigitalObject == nil {
			physical = append(physical, inst)
		}
	}
	if len(physical) > 0 {
		r.log.Info("top container instances found", zap.String("uri", uri), zap.Int("count", len(physical)))
		return physical, nil
	}

	// Top-container mode only presents containers owned by the current
	// record, so the ascent is skipped entirely.
	if r.settings.TopContainerMode {
		return nil, nil
	}

	parentURI := parentReference(payload)
	if parentURI == "" || r.deps.Records == nil {
		r.log.Debug("no top container instances found", zap.String("uri", uri))
		return nil, nil
	}

	if _, seen := r.visited[parentURI]; seen {
		return nil, fmt.Errorf("%w: %s", ErrAscentCycle, parentURI)
	}
	if depth+1 > maxAscentDepth {
		return nil, fmt.Errorf("record ancestry deeper than %d at %s", maxAscentDepth, parentURI)
	}

	r.log.Debug("no top container instances; checking parent",
		zap.String("uri", uri), zap.String("parent", parentURI))

	parent, err := r.deps.Records.FetchRecordByURI(ctx, parentURI)
	if err != nil {
		return nil, fmt.Errorf("fetch parent %s: %w", parentURI, err)
	}
	parentPayload, err := parent.Payload()
	if err != nil {
		return nil, fmt.Errorf("parse payload of %s: %w", parentURI, err)
	}
	return r.resolve(ctx, parentURI, parentPayload, depth+1)
}

// parentReference prefers the explicit parent reference and falls back
// to the record's resource reference.
func parentReference(payload *aspace.Payload) string {
	if payload.Parent != nil && payload.Parent.Ref != "" {
		return payload.Parent.Ref
	}
	if payload.Resource != nil && payload.Resource.Ref != "" {
		return payload.Resource.Ref
	}
	return ""
}
