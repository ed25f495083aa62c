// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"context"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
)

// ResourceMapper extends the base mapper with finding-aid metadata and
// the collection identity recomputed from the resource's own
// identifier.
type ResourceMapper struct {
	*RecordMapper
}

// NewResourceMapper constructs the mapper for resources.
func NewResourceMapper(ctx context.Context, deps Deps, rec *aspace.Record) (Mapper, error) {
	base, err := newRecordMapper(ctx, deps, rec)
	if err != nil {
		return nil, err
	}
	m := &ResourceMapper{RecordMapper: base}
	base.source = m
	return m, nil
}

func (m *ResourceMapper) jsonFields(ctx context.Context, idx int) (*Mapping, error) {
	out, err := m.RecordMapper.jsonFields(ctx, idx)
	if err != nil || m.payload == nil {
		return out, err
	}

	setIfPresent(out, "repository_processing_note", m.payload.RepositoryProcessingNote)

	collectionID := joinIdentifier(m.payload.ID0, m.payload.ID1, m.payload.ID2, m.payload.ID3)
	out.Set("collection_id", m.collectionLabel(m.payload)+collectionID)
	out.Set("collection_title", m.deps.stripMarkup(m.record.Title))

	setIfPresent(out, "ead_id", m.payload.EADID)
	setIfPresent(out, "ead_location", m.payload.EADLocation)
	setIfPresent(out, "finding_aid_title", m.payload.FindingAidTitle)
	setIfPresent(out, "finding_aid_subtitle", m.payload.FindingAidSubtitle)
	setIfPresent(out, "finding_aid_filing_title", m.payload.FindingAidFilingTitle)
	setIfPresent(out, "finding_aid_date", m.payload.FindingAidDate)
	setIfPresent(out, "finding_aid_author", m.payload.FindingAidAuthor)
	setIfPresent(out, "finding_aid_description_rules", m.payload.FindingAidDescriptionRules)
	setIfPresent(out, "resource_finding_aid_description_rules", m.payload.ResourceFindingAidDescriptionRules)
	setIfPresent(out, "finding_aid_language", m.payload.FindingAidLanguage)
	setIfPresent(out, "finding_aid_sponsor", m.payload.FindingAidSponsor)
	setIfPresent(out, "finding_aid_edition_statement", m.payload.FindingAidEditionStatement)
	setIfPresent(out, "finding_aid_series_statement", m.payload.FindingAidSeriesStatement)
	setIfPresent(out, "finding_aid_status", m.payload.FindingAidStatus)
	setIfPresent(out, "finding_aid_note", m.payload.FindingAidNote)

	// Resources carry their restriction flag under "restrictions"; the
	// custom override still wins when present.
	if len(m.record.CustomRestrictions) > 0 {
		out.SetBool("restrictions_apply", m.record.CustomRestrictions[0])
	} else {
		out.SetBool("restrictions_apply", m.payload.Restrictions)
	}
	return out, nil
}
