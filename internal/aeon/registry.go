// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"context"
	"errors"
	"fmt"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
)

// ErrUnsupportedType is returned when no mapper is registered for a
// record's type tag.
var ErrUnsupportedType = errors.New("unsupported record type")

// Mapper extracts the Aeon field mappings for one record.
type Mapper interface {
	// Map produces one mapping per requestable container instance, or a
	// single mapping when the record has at most one.
	Map(ctx context.Context) ([]*Mapping, error)

	// HideButton reports whether the request control should be hidden
	// for this record.
	HideButton() bool

	// UnrequestableMessage returns the display message explaining why
	// the record cannot be requested, or "" when it can.
	UnrequestableMessage() string
}

// Factory constructs a Mapper for a record. Construction resolves the
// record and its container instances, so it can fail.
type Factory func(ctx context.Context, deps Deps, rec *aspace.Record) (Mapper, error)

// Registry maps record type tags to mapper factories. It is built once
// at startup and read-only afterwards.
type Registry struct {
	deps      Deps
	factories map[aspace.RecordType]Factory
}

// NewRegistry returns an empty registry bound to the given dependencies.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:      deps,
		factories: make(map[aspace.RecordType]Factory),
	}
}

// Register binds a record type tag to a mapper factory.
func (r *Registry) Register(t aspace.RecordType, f Factory) {
	r.factories[t] = f
}

// MapperFor constructs the mapper for the record's type tag. An
// unregistered tag is an explicit failure carrying the offending type;
// there is no fallback mapper.
func (r *Registry) MapperFor(ctx context.Context, rec *aspace.Record) (Mapper, error) {
	f, ok := r.factories[rec.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, rec.Kind())
	}
	return f(ctx, r.deps, rec)
}

// DefaultRegistry returns a registry with the three supported record
// types registered.
func DefaultRegistry(deps Deps) *Registry {
	r := NewRegistry(deps)
	r.Register(aspace.TypeArchivalObject, NewArchivalObjectMapper)
	r.Register(aspace.TypeAccession, NewAccessionMapper)
	r.Register(aspace.TypeResource, NewResourceMapper)
	return r
}
