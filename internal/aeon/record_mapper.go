// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/config"
)

// manuscriptIDPattern marks identifiers of individually-shelved
// manuscripts, which have no location history by convention.
var manuscriptIDPattern = regexp.MustCompile(`\d{6}`)

// fieldSource is implemented by each mapper variant so the base Map loop
// picks up the variant's field overrides.
type fieldSource interface {
	jsonFields(ctx context.Context, idx int) (*Mapping, error)
	recordFields() *Mapping
}

// RecordMapper extracts the canonical field set common to every record
// type. Variant mappers embed it and override the json/record field
// hooks.
type RecordMapper struct {
	deps      Deps
	record    *aspace.Record
	payload   *aspace.Payload
	instances []aspace.Instance
	settings  config.RepositorySettings
	source    fieldSource
	log       *zap.Logger
}

// NewArchivalObjectMapper constructs the mapper for plain archival
// objects.
func NewArchivalObjectMapper(ctx context.Context, deps Deps, rec *aspace.Record) (Mapper, error) {
	return newRecordMapper(ctx, deps, rec)
}

func newRecordMapper(ctx context.Context, deps Deps, rec *aspace.Record) (*RecordMapper, error) {
	m := &RecordMapper{
		deps:   deps,
		record: rec,
		log:    deps.logger(),
	}

	// Refetch so ancestors and top containers arrive resolved. Without a
	// record source the supplied record is used as-is.
	if deps.Records != nil {
		resolved, err := deps.Records.FetchRecordByURI(ctx, rec.URI)
		if err != nil {
			return nil, fmt.Errorf("resolve record %s: %w", rec.URI, err)
		}
		if resolved.URI != "" {
			m.record = resolved
		}
	}

	payload, err := m.record.Payload()
	if err != nil {
		m.log.Warn("record payload did not parse; extracting from the search document only",
			zap.String("uri", m.record.URI), zap.Error(err))
	}
	m.payload = payload
	m.settings = deps.Config.Repository(m.repoCode())

	instances, err := resolveContainerInstances(ctx, deps, m.settings, m.record.URI, m.payload)
	if err != nil {
		return nil, err
	}
	m.instances = instances
	m.source = m
	return m, nil
}

// Record returns the resolved record under mapping.
func (m *RecordMapper) Record() *aspace.Record {
	return m.record
}

func (m *RecordMapper) repoCode() string {
	if m.payload == nil || m.payload.Repository == nil || m.payload.Repository.Resolved == nil {
		return ""
	}
	return strings.ToLower(m.payload.Repository.Resolved.RepoCode)
}

// Map produces the output mappings: one per container instance when the
// record has more than one, otherwise a single mapping built from the
// first instance if any.
func (m *RecordMapper) Map(ctx context.Context) ([]*Mapping, error) {
	if len(m.instances) > 1 {
		out := make([]*Mapping, 0, len(m.instances))
		for i := range m.instances {
			mapping, err := m.buildMapping(ctx, i)
			if err != nil {
				return nil, err
			}
			out = append(out, mapping)
		}
		return out, nil
	}

	mapping, err := m.buildMapping(ctx, -1)
	if err != nil {
		return nil, err
	}
	return []*Mapping{mapping}, nil
}

func (m *RecordMapper) buildMapping(ctx context.Context, idx int) (*Mapping, error) {
	out := NewMapping()
	out.Merge(m.systemInformation())

	jf, err := m.source.jsonFields(ctx, idx)
	if err != nil {
		return nil, err
	}
	out.Merge(jf)
	out.Merge(m.source.recordFields())
	out.Merge(m.userDefinedFields())
	return out, nil
}

// systemInformation derives the fields describing the sending system.
func (m *RecordMapper) systemInformation() *Mapping {
	out := NewMapping()

	systemID := m.settings.AeonExternalSystemID
	if systemID == "" {
		systemID = "ArchivesSpace"
	}
	out.Set("SystemID", systemID)

	out.Set("ReturnLinkURL", m.deps.Config.ReturnLinkPrefix()+m.record.URI)

	linkName := m.settings.AeonReturnLinkLabel
	if linkName == "" {
		linkName = "ArchivesSpace"
	}
	out.Set("ReturnLinkSystemName", linkName)

	if m.settings.AeonSiteCode != "" {
		out.Set("Site", m.settings.AeonSiteCode)
	}
	return out
}

// recordFields derives fields from the search document and the resolved
// resource reference.
func (m *RecordMapper) recordFields() *Mapping {
	out := NewMapping()
	if m.settings.LogRecords {
		m.log.Debug("mapping record", zap.String("uri", m.record.URI), zap.String("json", m.record.JSON))
	}

	out.Set("identifier", m.record.RefID)
	out.SetBool("publish", m.record.Publish)
	out.Set("level", m.record.Level)
	out.Set("title", m.deps.stripMarkup(m.record.Title))
	out.Set("uri", m.record.URI)

	if m.payload == nil {
		return out
	}

	// The resource's primary identifier also drives date reformatting
	// below; it stays empty when the record has no resolved resource.
	id0 := ""
	if m.payload.Resource != nil && m.payload.Resource.Resolved != nil {
		resource := m.payload.Resource.Resolved
		id0 = resource.ID0
		collectionID := joinIdentifier(resource.ID0, resource.ID1, resource.ID2, resource.ID3)
		out.Set("collection_id", m.collectionLabel(resource)+collectionID)
		out.Set("collection_title", resource.Title)
	}

	if m.payload.Repository != nil && m.payload.Repository.Resolved != nil {
		out.Set("repo_code", m.payload.Repository.Resolved.RepoCode)
		out.Set("repo_name", m.payload.Repository.Resolved.Name)
	}

	if len(m.payload.Dates) > 0 {
		var expressions []string
		for _, d := range m.payload.Dates {
			if d.DateType == "single" || d.DateType == "inclusive" {
				expressions = append(expressions, calculateDateExpression(d, id0))
			}
		}
		if len(expressions) > 0 {
			out.Set("date_expression", strings.Join(expressions, ";"))
		}
	}

	if len(m.payload.Notes) > 0 {
		var contents []string
		for _, n := range m.payload.Notes {
			if n.Type != "userestrict" {
				continue
			}
			for _, sn := range n.Subnotes {
				if !sn.Publish {
					continue
				}
				for _, c := range sn.Content {
					if c != "" {
						contents = append(contents, c)
					}
				}
			}
		}
		if len(contents) > 0 {
			out.Set("userestrict", strings.Join(contents, "; "))
		}
	}

	return out
}

// jsonFields derives fields from the record payload and, when a
// container instance applies, from that instance down to its resolved
// top container and location.
func (m *RecordMapper) jsonFields(ctx context.Context, idx int) (*Mapping, error) {
	out := NewMapping()
	if m.payload == nil {
		return out, nil
	}

	if len(m.payload.LangMaterials) > 0 {
		var langs []string
		for _, lm := range m.payload.LangMaterials {
			if lm.LanguageAndScript != nil && lm.LanguageAndScript.Language != "" {
				langs = append(langs, lm.LanguageAndScript.Language)
			}
		}
		if len(langs) > 0 {
			out.Set("language", strings.Join(langs, ";"))
		}
	}
	if m.payload.Language != "" {
		out.Set("language", m.payload.Language)
	}

	m.noteFields(out)
	m.labeledDateFields(out)
	m.creatorFields(out)

	if len(m.payload.RightsStatements) > 0 {
		var types []string
		seen := make(map[string]struct{})
		for _, rs := range m.payload.RightsStatements {
			if rs.RightsType == "" {
				continue
			}
			if _, ok := seen[rs.RightsType]; ok {
				continue
			}
			seen[rs.RightsType] = struct{}{}
			types = append(types, rs.RightsType)
		}
		if len(types) > 0 {
			out.Set("rights_type", strings.Join(types, ";"))
		}
	}

	var digitalRefs []string
	for _, inst := range m.payload.Instances {
		if inst.InstanceType == "digital_object" && inst.DigitalObject != nil {
			digitalRefs = append(digitalRefs, inst.DigitalObject.Ref)
		}
	}
	if len(digitalRefs) > 0 {
		out.Set("digital_objects", strings.Join(digitalRefs, ";"))
	}

	if len(m.record.CustomRestrictions) > 0 {
		out.SetBool("restrictions_apply", m.record.CustomRestrictions[0])
	} else {
		out.SetBool("restrictions_apply", m.payload.RestrictionsApply)
	}
	if m.payload.DisplayString != "" {
		out.Set("display_string", m.payload.DisplayString)
	}

	if len(m.instances) == 0 {
		return out, nil
	}
	if idx < 0 || idx >= len(m.instances) {
		idx = 0
	}
	if err := m.instanceFields(ctx, out, m.instances[idx]); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *RecordMapper) noteFields(out *Mapping) {
	if len(m.payload.Notes) == 0 {
		return
	}

	var physloc []string
	for _, n := range m.payload.Notes {
		if n.Type != "physloc" || !n.Publish {
			continue
		}
		for _, c := range n.Content {
			if c != "" {
				physloc = append(physloc, c)
			}
		}
	}
	if len(physloc) > 0 {
		out.Set("physical_location_note", strings.Join(physloc, "; "))
	}

	var access []string
	for _, n := range m.payload.Notes {
		if n.Type != "accessrestrict" || len(n.Subnotes) == 0 {
			continue
		}
		for _, sn := range n.Subnotes {
			if !sn.Publish {
				continue
			}
			for _, c := range sn.Content {
				if c == "" || strings.Contains(strings.ToLower(c), "unrestricted") {
					continue
				}
				access = append(access, c)
			}
		}
	}
	if len(access) > 0 {
		out.Set("accessrestrict", strings.Join(access, "; "))
	}
}

// labeledDateFields groups dates that carry an explicit expression by
// label, emitting one "<label>_date" field per label in first-seen
// order.
func (m *RecordMapper) labeledDateFields(out *Mapping) {
	var labels []string
	grouped := make(map[string][]string)
	for _, d := range m.payload.Dates {
		if d.Expression == "" {
			continue
		}
		if _, ok := grouped[d.Label]; !ok {
			labels = append(labels, d.Label)
		}
		grouped[d.Label] = append(grouped[d.Label], d.Expression)
	}
	for _, label := range labels {
		out.Set(label+"_date", strings.Join(grouped[label], "; "))
	}
}

func (m *RecordMapper) creatorFields(out *Mapping) {
	var names []string
	for _, agent := range m.payload.LinkedAgents {
		if agent.Role != "creator" || agent.Resolved == nil {
			continue
		}
		for _, name := range agent.Resolved.Names {
			if name.IsDisplayName {
				names = append(names, name.SortName)
			}
		}
	}
	if len(names) > 0 {
		out.Set("creators", strings.Join(names, "; "))
	}
}

func (m *RecordMapper) instanceFields(ctx context.Context, out *Mapping, inst aspace.Instance) error {
	out.SetBool("instance_is_representative", inst.IsRepresentative)
	setIfPresent(out, "instance_last_modified_by", inst.LastModifiedBy)
	setIfPresent(out, "instance_instance_type", inst.InstanceType)
	setIfPresent(out, "instance_created_by", inst.CreatedBy)

	container := inst.SubContainer
	if container == nil {
		return nil
	}
	setIfPresent(out, "instance_container_grandchild_indicator", container.Indicator3)
	setIfPresent(out, "instance_container_child_indicator", container.Indicator2)
	setIfPresent(out, "instance_container_grandchild_type", container.Type3)
	setIfPresent(out, "instance_container_child_type", container.Type2)
	setIfPresent(out, "instance_container_last_modified_by", container.LastModifiedBy)
	setIfPresent(out, "instance_container_created_by", container.CreatedBy)

	if container.TopContainer == nil {
		return nil
	}
	out.Set("instance_top_container_ref", container.TopContainer.Ref)

	tc := container.TopContainer.Resolved
	if tc == nil {
		return nil
	}
	setIfPresent(out, "instance_top_container_long_display_string", tc.LongDisplayString)
	setIfPresent(out, "instance_top_container_last_modified_by", tc.LastModifiedBy)
	setIfPresent(out, "instance_top_container_display_string", tc.DisplayString)
	out.SetBool("instance_top_container_restricted", tc.Restricted)
	setIfPresent(out, "instance_top_container_created_by", tc.CreatedBy)
	setIfPresent(out, "instance_top_container_indicator", tc.Indicator)
	setIfPresent(out, "instance_top_container_barcode", tc.Barcode)
	setIfPresent(out, "instance_top_container_type", tc.Type)
	setIfPresent(out, "instance_top_container_uri", tc.URI)

	if len(tc.ContainerLocations) > 0 {
		var notes []string
		for _, l := range tc.ContainerLocations {
			if l.Note != "" {
				notes = append(notes, l.Note)
			}
		}
		if len(notes) > 0 {
			out.Set("instance_top_container_location_note", strings.Join(notes, ";"))
		}
	}

	out.SetBool("requestable", containerRequestable(tc, m.settings.HideButtonForAccessRestrictionTypes))

	if err := m.locationFields(ctx, out, tc); err != nil {
		return err
	}

	if len(tc.Collection) > 0 {
		setJoinedLineage(out, "instance_top_container_collection", tc.Collection)
	}
	if len(tc.Series) > 0 {
		setJoinedLineage(out, "instance_top_container_series", tc.Series)
	}
	return nil
}

// locationFields selects the location with the latest start date. A
// container with no location history falls back to the identifier
// heuristic instead of failing.
func (m *RecordMapper) locationFields(ctx context.Context, out *Mapping, tc *aspace.TopContainer) error {
	latest := latestLocation(tc.ContainerLocations)
	if latest == nil {
		if m.payload != nil && manuscriptIDPattern.MatchString(m.payload.ID0) {
			out.Set("instance_top_container_location", "Individual Manuscript")
		} else {
			out.Set("instance_top_container_location", "No Location Found")
		}
		return nil
	}

	out.Set("instance_top_container_location_id", latest.Ref)
	if m.deps.Locations == nil {
		return nil
	}
	loc, err := m.deps.Locations.FetchLocationByID(ctx, latest.Ref)
	if err != nil {
		return fmt.Errorf("resolve location %s: %w", latest.Ref, err)
	}
	out.Set("instance_top_container_location", loc.Title)
	out.Set("instance_top_container_location_building", loc.Building)
	return nil
}

// latestLocation returns the history entry with the greatest start date,
// later entries winning ties.
func latestLocation(locations []aspace.ContainerLocation) *aspace.ContainerLocation {
	var latest *aspace.ContainerLocation
	for i := range locations {
		if latest == nil || locations[i].StartDate >= latest.StartDate {
			latest = &locations[i]
		}
	}
	return latest
}

// userDefinedFields emits the record's user-defined fields selected by
// the repository's field policy. No policy means no fields.
func (m *RecordMapper) userDefinedFields() *Mapping {
	out := NewMapping()
	policy := m.settings.UserDefinedFields
	if !policy.IsConfigured() || m.payload == nil || len(m.payload.UserDefined) == 0 {
		return out
	}

	m.log.Debug("user defined field policy",
		zap.String("kind", string(policy.Kind)), zap.Strings("values", policy.Values))

	names := make([]string, 0, len(m.payload.UserDefined))
	for name := range m.payload.UserDefined {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if policy.Allows(name) {
			out.Set("user_defined_"+name, formatValue(m.payload.UserDefined[name]))
		}
	}
	return out
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func setIfPresent(out *Mapping, key, value string) {
	if value != "" {
		out.Set(key, value)
	}
}

func setJoinedLineage(out *Mapping, prefix string, entries []aspace.LinkedRecord) {
	var ids, displays []string
	for _, e := range entries {
		if e.Identifier != "" {
			ids = append(ids, e.Identifier)
		}
		if e.DisplayString != "" {
			displays = append(displays, e.DisplayString)
		}
	}
	if len(ids) > 0 {
		out.Set(prefix+"_identifier", strings.Join(ids, "; "))
	}
	if len(displays) > 0 {
		out.Set(prefix+"_display_string", strings.Join(displays, "; "))
	}
}

// joinIdentifier joins identifier components with "-", dropping blanks
// while preserving order.
func joinIdentifier(components ...string) string {
	var parts []string
	for _, c := range components {
		if strings.TrimSpace(c) != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "-")
}

// collectionLabel translates the resource's user_defined enum_1 code and
// strips the institution-specific tokens from the label. A non-empty
// result carries a trailing space so it can prefix the collection id.
func (m *RecordMapper) collectionLabel(resource *aspace.Payload) string {
	if resource.UserDefined == nil {
		return ""
	}
	code, _ := resource.UserDefined["enum_1"].(string)
	if code == "" {
		return ""
	}

	label := m.deps.enumLabel("user_defined_enum_1", code)
	for _, token := range []string{"Rauner", "Manuscript", "-", "Man.", code} {
		label = strings.ReplaceAll(label, token, "")
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	return label + " "
}
