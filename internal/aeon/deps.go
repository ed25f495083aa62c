// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RecordSource fetches a record by URI with ancestors and top containers
// resolved inline.
type RecordSource interface {
	FetchRecordByURI(ctx context.Context, uri string) (*aspace.Record, error)
}

// LocationSource fetches a storage location by its URI.
type LocationSource interface {
	FetchLocationByID(ctx context.Context, id string) (*aspace.Location, error)
}

// Deps is the capability set injected into mappers: the external
// collaborators, the configuration, and the logger. Zero-valued fields
// fall back to inert defaults, so tests can supply only what they need.
type Deps struct {
	Records   RecordSource
	Locations LocationSource

	// StripMarkup removes embedded markup from title text.
	StripMarkup func(string) string

	// EnumLabel translates a controlled-vocabulary code to display text.
	EnumLabel func(enumeration, code string) string

	Config *config.Config
	Log    *zap.Logger
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func (d Deps) stripMarkup(s string) string {
	if d.StripMarkup == nil {
		return s
	}
	return d.StripMarkup(s)
}

func (d Deps) enumLabel(enumeration, code string) string {
	if d.EnumLabel == nil {
		return code
	}
	return d.EnumLabel(enumeration, code)
}
