// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"context"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
)

// AccessionMapper extends the base mapper with the accession identifier
// and the restriction notes carried on the search document.
type AccessionMapper struct {
	*RecordMapper
}

// NewAccessionMapper constructs the mapper for accessions.
func NewAccessionMapper(ctx context.Context, deps Deps, rec *aspace.Record) (Mapper, error) {
	base, err := newRecordMapper(ctx, deps, rec)
	if err != nil {
		return nil, err
	}
	m := &AccessionMapper{RecordMapper: base}
	base.source = m
	return m, nil
}

func (m *AccessionMapper) jsonFields(ctx context.Context, idx int) (*Mapping, error) {
	out, err := m.RecordMapper.jsonFields(ctx, idx)
	if err != nil || m.payload == nil {
		return out, err
	}

	out.Set("accession_id", joinIdentifier(m.payload.ID0, m.payload.ID1, m.payload.ID2, m.payload.ID3))

	if m.payload.Language != "" {
		out.Set("language", m.payload.Language)
	}
	return out, nil
}

func (m *AccessionMapper) recordFields() *Mapping {
	out := m.RecordMapper.recordFields()

	if m.record.UseRestrictionsNote != "" {
		out.Set("use_restrictions_note", m.record.UseRestrictionsNote)
	}
	if m.record.AccessRestrictionsNote != "" {
		out.Set("access_restrictions_note", m.record.AccessRestrictionsNote)
	}
	return out
}
