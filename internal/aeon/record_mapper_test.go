// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
	"github.com/dartmouth-dltg/aeon-fulfillment/internal/config"
)

func mapOne(t *testing.T, deps Deps, rec *aspace.Record) *Mapping {
	t.Helper()
	mapper, err := NewArchivalObjectMapper(context.Background(), deps, rec)
	require.NoError(t, err)
	mappings, err := mapper.Map(context.Background())
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	return mappings[0]
}

func get(t *testing.T, m *Mapping, key string) string {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok, "missing field %q", key)
	return v
}

func TestMap_SystemInformationAndRecordFields(t *testing.T) {
	rec := testRecord(t, "archival_object", "/repositories/2/archival_objects/5", map[string]any{
		"repository": payloadRepository("rauner"),
	})
	rec.RefID = "ref-abc"
	rec.Title = "Letters, <emph>mostly</emph> undated"
	rec.Level = "file"
	rec.Publish = true

	cfg := repoConfig("rauner", config.RepositorySettings{
		AeonExternalSystemID: "DartmouthASpace",
		AeonReturnLinkLabel:  "Dartmouth Library",
		AeonSiteCode:         "RAUNER",
	})
	cfg.FrontendPrefix = "https://aspace.example.edu/"
	deps := testDeps(cfg)
	deps.StripMarkup = aspace.StripMarkup

	out := mapOne(t, deps, rec)

	assert.Equal(t, "DartmouthASpace", get(t, out, "SystemID"))
	assert.Equal(t, "https://aspace.example.edu/repositories/2/archival_objects/5", get(t, out, "ReturnLinkURL"))
	assert.Equal(t, "Dartmouth Library", get(t, out, "ReturnLinkSystemName"))
	assert.Equal(t, "RAUNER", get(t, out, "Site"))
	assert.Equal(t, "ref-abc", get(t, out, "identifier"))
	assert.Equal(t, "true", get(t, out, "publish"))
	assert.Equal(t, "file", get(t, out, "level"))
	assert.Equal(t, "Letters, mostly undated", get(t, out, "title"))
	assert.Equal(t, "/repositories/2/archival_objects/5", get(t, out, "uri"))
	assert.Equal(t, "rauner", get(t, out, "repo_code"))
}

func TestMap_SystemInformationDefaults(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
	})

	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)

	assert.Equal(t, "ArchivesSpace", get(t, out, "SystemID"))
	assert.Equal(t, "ArchivesSpace", get(t, out, "ReturnLinkSystemName"))
	_, ok := out.Get("Site")
	assert.False(t, ok)
}

func TestMap_CollectionIdentifierComposition(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"resource": map[string]any{
			"ref": "/resources/9",
			"_resolved": map[string]any{
				"id_0": "MS", "id_1": "", "id_2": "12", "id_3": "",
				"title": "Webster Family Papers",
			},
		},
	})

	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)

	assert.Equal(t, "MS-12", get(t, out, "collection_id"))
	assert.Equal(t, "Webster Family Papers", get(t, out, "collection_title"))
}

func TestJoinIdentifier(t *testing.T) {
	assert.Equal(t, "MS-12", joinIdentifier("MS", "", "12", ""))
	assert.Equal(t, "", joinIdentifier("", "", "", ""))
	assert.Equal(t, "2020-045", joinIdentifier("2020", "045"))
}

func TestMap_NoteFields(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"notes": []any{
			map[string]any{"type": "physloc", "publish": true, "content": []any{"Vault shelf 3"}},
			map[string]any{"type": "physloc", "publish": false, "content": []any{"staff only"}},
			map[string]any{
				"type": "accessrestrict",
				"subnotes": []any{
					map[string]any{"publish": true, "content": []any{"Partially Unrestricted material"}},
					map[string]any{"publish": true, "content": []any{"Closed until 2040"}},
					map[string]any{"publish": false, "content": []any{"internal note"}},
				},
			},
			map[string]any{
				"type": "userestrict",
				"subnotes": []any{
					map[string]any{"publish": true, "content": []any{"No photocopies", "No scans"}},
				},
			},
		},
	})

	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)

	assert.Equal(t, "Vault shelf 3", get(t, out, "physical_location_note"))
	assert.Equal(t, "Closed until 2040", get(t, out, "accessrestrict"))
	assert.Equal(t, "No photocopies; No scans", get(t, out, "userestrict"))
}

func TestMap_LanguageOverride(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"lang_materials": []any{
			map[string]any{"language_and_script": map[string]any{"language": "eng"}},
			map[string]any{"language_and_script": map[string]any{"language": "fre"}},
		},
	})

	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)
	assert.Equal(t, "eng;fre", get(t, out, "language"))

	rec = testRecord(t, "archival_object", "/ao/2", map[string]any{
		"repository": payloadRepository("rauner"),
		"language":   "ger",
		"lang_materials": []any{
			map[string]any{"language_and_script": map[string]any{"language": "eng"}},
		},
	})

	out = mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)
	assert.Equal(t, "ger", get(t, out, "language"))
}

func TestMap_CreatorsLabeledDatesAndRights(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"linked_agents": []any{
			map[string]any{
				"role": "creator",
				"_resolved": map[string]any{
					"names": []any{
						map[string]any{"sort_name": "Webster, Daniel", "is_display_name": true},
						map[string]any{"sort_name": "Webster, D.", "is_display_name": false},
					},
				},
			},
			map[string]any{
				"role": "subject",
				"_resolved": map[string]any{
					"names": []any{map[string]any{"sort_name": "Ignored", "is_display_name": true}},
				},
			},
		},
		"dates": []any{
			map[string]any{"label": "creation", "expression": "1820", "date_type": "single", "begin": "1820"},
			map[string]any{"label": "creation", "expression": "1825", "date_type": "single", "begin": "1825"},
			map[string]any{"label": "copyright", "expression": "1830", "date_type": "single", "begin": "1830"},
		},
		"rights_statements": []any{
			map[string]any{"rights_type": "copyright"},
			map[string]any{"rights_type": "copyright"},
			map[string]any{"rights_type": "statute"},
		},
		"instances": []any{
			map[string]any{"instance_type": "digital_object", "digital_object": map[string]any{"ref": "/do/1"}},
			map[string]any{"instance_type": "digital_object", "digital_object": map[string]any{"ref": "/do/2"}},
		},
	})

	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)

	assert.Equal(t, "Webster, Daniel", get(t, out, "creators"))
	assert.Equal(t, "1820; 1825", get(t, out, "creation_date"))
	assert.Equal(t, "1830", get(t, out, "copyright_date"))
	assert.Equal(t, "1820;1825;1830", get(t, out, "date_expression"))
	assert.Equal(t, "copyright;statute", get(t, out, "rights_type"))
	assert.Equal(t, "/do/1;/do/2", get(t, out, "digital_objects"))
}

func TestMap_RestrictionsApplyCustomOverride(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository":         payloadRepository("rauner"),
		"restrictions_apply": false,
	})
	rec.CustomRestrictions = []bool{true}

	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)
	assert.Equal(t, "true", get(t, out, "restrictions_apply"))
}

func TestMap_InstanceAndContainerFields(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"instances": []any{
			map[string]any{
				"instance_type":     "mixed_materials",
				"is_representative": true,
				"sub_container": map[string]any{
					"indicator_2": "4",
					"type_2":      "folder",
					"top_container": map[string]any{
						"ref": "/containers/1",
						"_resolved": map[string]any{
							"indicator":           "12",
							"type":                "box",
							"barcode":             "39002012345678",
							"display_string":      "Box 12",
							"long_display_string": "MS-50, Box 12",
							"restricted":          false,
							"uri":                 "/containers/1",
							"collection": []any{
								map[string]any{"identifier": "MS-50", "display_string": "Webster Papers"},
							},
							"series": []any{
								map[string]any{"identifier": "II", "display_string": "Correspondence"},
							},
							"container_locations": []any{
								map[string]any{"start_date": "2001-01-01", "ref": "/locations/A", "note": "old stack"},
								map[string]any{"start_date": "2020-05-05", "ref": "/locations/B"},
							},
						},
					},
				},
			},
		},
	})

	deps := testDeps(repoConfig("rauner", config.RepositorySettings{}))
	deps.Locations = fakeLocations{
		"/locations/B": {Title: "Vault Row 7", Building: "Rauner Library"},
	}

	out := mapOne(t, deps, rec)

	assert.Equal(t, "mixed_materials", get(t, out, "instance_instance_type"))
	assert.Equal(t, "true", get(t, out, "instance_is_representative"))
	assert.Equal(t, "4", get(t, out, "instance_container_child_indicator"))
	assert.Equal(t, "folder", get(t, out, "instance_container_child_type"))
	assert.Equal(t, "/containers/1", get(t, out, "instance_top_container_ref"))
	assert.Equal(t, "12", get(t, out, "instance_top_container_indicator"))
	assert.Equal(t, "box", get(t, out, "instance_top_container_type"))
	assert.Equal(t, "39002012345678", get(t, out, "instance_top_container_barcode"))
	assert.Equal(t, "old stack", get(t, out, "instance_top_container_location_note"))
	assert.Equal(t, "true", get(t, out, "requestable"))
	assert.Equal(t, "/locations/B", get(t, out, "instance_top_container_location_id"))
	assert.Equal(t, "Vault Row 7", get(t, out, "instance_top_container_location"))
	assert.Equal(t, "Rauner Library", get(t, out, "instance_top_container_location_building"))
	assert.Equal(t, "MS-50", get(t, out, "instance_top_container_collection_identifier"))
	assert.Equal(t, "Webster Papers", get(t, out, "instance_top_container_collection_display_string"))
	assert.Equal(t, "II", get(t, out, "instance_top_container_series_identifier"))
	assert.Equal(t, "Correspondence", get(t, out, "instance_top_container_series_display_string"))
}

func TestMap_LocationFallbackHeuristic(t *testing.T) {
	manuscript := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"id_0":       "123456",
		"instances": []any{
			containerInstance("1", map[string]any{"ref": "/containers/1", "_resolved": map[string]any{}}),
		},
	})

	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), manuscript)
	assert.Equal(t, "Individual Manuscript", get(t, out, "instance_top_container_location"))

	other := testRecord(t, "archival_object", "/ao/2", map[string]any{
		"repository": payloadRepository("rauner"),
		"id_0":       "MS-50",
		"instances": []any{
			containerInstance("1", map[string]any{"ref": "/containers/1", "_resolved": map[string]any{}}),
		},
	})

	out = mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), other)
	assert.Equal(t, "No Location Found", get(t, out, "instance_top_container_location"))
}

func TestMap_OneMappingPerInstance(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"instances": []any{
			containerInstance("1", nil),
			containerInstance("2", nil),
		},
	})

	mapper, err := NewArchivalObjectMapper(context.Background(), testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)
	require.NoError(t, err)
	mappings, err := mapper.Map(context.Background())
	require.NoError(t, err)

	require.Len(t, mappings, 2)
	assert.Equal(t, "1", get(t, mappings[0], "instance_container_child_indicator"))
	assert.Equal(t, "2", get(t, mappings[1], "instance_container_child_indicator"))
}

func userDefinedRecord(t *testing.T) *aspace.Record {
	t.Helper()
	return testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"user_defined": map[string]any{
			"string_1":  "shelf 9",
			"boolean_1": true,
			"integer_1": float64(7),
		},
	})
}

func TestMap_UserDefinedUnconfigured(t *testing.T) {
	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), userDefinedRecord(t))
	for k := range out.All() {
		assert.NotContains(t, k, "user_defined_")
	}
}

func TestMap_UserDefinedAllowAll(t *testing.T) {
	settings := config.RepositorySettings{
		UserDefinedFields: &config.ListPolicy{Kind: config.Blacklist},
	}

	out := mapOne(t, testDeps(repoConfig("rauner", settings)), userDefinedRecord(t))

	assert.Equal(t, "true", get(t, out, "user_defined_boolean_1"))
	assert.Equal(t, "7", get(t, out, "user_defined_integer_1"))
	assert.Equal(t, "shelf 9", get(t, out, "user_defined_string_1"))
}

func TestMap_UserDefinedWhitelist(t *testing.T) {
	settings := config.RepositorySettings{
		UserDefinedFields: &config.ListPolicy{Kind: config.Whitelist, Values: []string{"string_1"}},
	}

	out := mapOne(t, testDeps(repoConfig("rauner", settings)), userDefinedRecord(t))

	assert.Equal(t, "shelf 9", get(t, out, "user_defined_string_1"))
	_, ok := out.Get("user_defined_boolean_1")
	assert.False(t, ok)
}

func TestMap_UserDefinedBlacklist(t *testing.T) {
	settings := config.RepositorySettings{
		UserDefinedFields: &config.ListPolicy{Kind: config.Blacklist, Values: []string{"boolean_1"}},
	}

	out := mapOne(t, testDeps(repoConfig("rauner", settings)), userDefinedRecord(t))

	assert.Equal(t, "shelf 9", get(t, out, "user_defined_string_1"))
	_, ok := out.Get("user_defined_boolean_1")
	assert.False(t, ok)
}

func TestMap_Idempotent(t *testing.T) {
	rec := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
		"instances":  []any{containerInstance("1", nil)},
	})

	mapper, err := NewArchivalObjectMapper(context.Background(), testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)
	require.NoError(t, err)

	first, err := mapper.Map(context.Background())
	require.NoError(t, err)
	second, err := mapper.Map(context.Background())
	require.NoError(t, err)

	require.Len(t, second, len(first))
	assert.Equal(t, first[0].EncodeForm(), second[0].EncodeForm())
}

func TestMap_UnparsablePayloadYieldsPartialMapping(t *testing.T) {
	rec := &aspace.Record{
		URI:         "/ao/1",
		RefID:       "ref-abc",
		Title:       "Letters",
		PrimaryType: "archival_object",
		JSON:        "{not json",
	}

	out := mapOne(t, testDeps(repoConfig("rauner", config.RepositorySettings{})), rec)

	assert.Equal(t, "ref-abc", get(t, out, "identifier"))
	assert.Equal(t, "Letters", get(t, out, "title"))
	assert.Equal(t, "/ao/1", get(t, out, "uri"))
	assert.Equal(t, "ArchivesSpace", get(t, out, "SystemID"))
	_, ok := out.Get("collection_id")
	assert.False(t, ok)
}

func TestMap_RefetchesThroughRecordSource(t *testing.T) {
	stale := testRecord(t, "archival_object", "/ao/1", map[string]any{})
	resolved := testRecord(t, "archival_object", "/ao/1", map[string]any{
		"repository": payloadRepository("rauner"),
	})
	resolved.Title = "Resolved title"

	deps := testDeps(repoConfig("rauner", config.RepositorySettings{}))
	deps.Records = fakeRecords{"/ao/1": resolved}

	out := mapOne(t, deps, stale)
	assert.Equal(t, "Resolved title", get(t, out, "title"))
}
