// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

// Package aspace models ArchivesSpace search documents and their nested
// record payloads, and provides the client used to resolve them.
package aspace

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RecordType is the closed set of record kinds the mapper understands.
type RecordType string

// Record kinds, matching the primary_type field of a search document.
const (
	TypeArchivalObject RecordType = "archival_object"
	TypeAccession      RecordType = "accession"
	TypeResource       RecordType = "resource"
	TypeContainer      RecordType = "top_container"
)

// Record is one document returned by the records search endpoint. The
// JSON field carries the full record payload as a string, with ancestors
// and top containers resolved inline.
type Record struct {
	URI                    string   `json:"uri"`
	RefID                  string   `json:"ref_id"`
	Title                  string   `json:"title"`
	Level                  string   `json:"level"`
	Publish                bool     `json:"publish"`
	PrimaryType            string   `json:"primary_type"`
	UseRestrictionsNote    string   `json:"use_restrictions_note"`
	AccessRestrictionsNote string   `json:"access_restrictions_note"`
	CustomRestrictions     []bool   `json:"custom_restrictions_u_sbool"`
	JSON                   string   `json:"json"`
}

// Kind returns the record's type tag.
func (r *Record) Kind() RecordType {
	return RecordType(r.PrimaryType)
}

// Payload decodes the record's nested JSON payload. A record with no
// payload decodes to nil without error; callers treat a nil payload as
// "nothing to extract".
func (r *Record) Payload() (*Payload, error) {
	if r == nil || r.JSON == "" {
		return nil, nil
	}
	var p Payload
	if err := json.UnmarshalFromString(r.JSON, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Payload is the nested record description. Every subtree is optional;
// extraction checks presence before descending.
type Payload struct {
	URI           string `json:"uri"`
	Title         string `json:"title"`
	Level         string `json:"level"`
	DisplayString string `json:"display_string"`
	Language      string `json:"language"`

	ID0 string `json:"id_0"`
	ID1 string `json:"id_1"`
	ID2 string `json:"id_2"`
	ID3 string `json:"id_3"`

	RestrictionsApply bool `json:"restrictions_apply"`
	Restrictions      bool `json:"restrictions"`

	// Resource-only descriptive fields.
	EADID                              string `json:"ead_id"`
	EADLocation                        string `json:"ead_location"`
	FindingAidTitle                    string `json:"finding_aid_title"`
	FindingAidSubtitle                 string `json:"finding_aid_subtitle"`
	FindingAidFilingTitle              string `json:"finding_aid_filing_title"`
	FindingAidDate                     string `json:"finding_aid_date"`
	FindingAidAuthor                   string `json:"finding_aid_author"`
	FindingAidDescriptionRules         string `json:"finding_aid_description_rules"`
	ResourceFindingAidDescriptionRules string `json:"resource_finding_aid_description_rules"`
	FindingAidLanguage                 string `json:"finding_aid_language"`
	FindingAidSponsor                  string `json:"finding_aid_sponsor"`
	FindingAidEditionStatement         string `json:"finding_aid_edition_statement"`
	FindingAidSeriesStatement          string `json:"finding_aid_series_statement"`
	FindingAidStatus                   string `json:"finding_aid_status"`
	FindingAidNote                     string `json:"finding_aid_note"`
	RepositoryProcessingNote           string `json:"repository_processing_note"`

	UserDefined map[string]any `json:"user_defined"`

	Repository *RepositoryRef `json:"repository"`
	Resource   *ResourceRef   `json:"resource"`
	Parent     *RefString     `json:"parent"`

	LangMaterials    []LangMaterial    `json:"lang_materials"`
	Notes            []Note            `json:"notes"`
	Dates            []Date            `json:"dates"`
	LinkedAgents     []LinkedAgent     `json:"linked_agents"`
	RightsStatements []RightsStatement `json:"rights_statements"`
	Instances        []Instance        `json:"instances"`
}

// RepositoryRef links a record to its owning repository.
type RepositoryRef struct {
	Ref      string      `json:"ref"`
	Resolved *Repository `json:"_resolved"`
}

// Repository identifies an institution within ArchivesSpace.
type Repository struct {
	RepoCode string `json:"repo_code"`
	Name     string `json:"name"`
}

// ResourceRef links a record to its resource. Older records carry the
// reference as a bare URI string instead of a {ref} object, so both
// shapes decode.
type ResourceRef struct {
	Ref      string
	Resolved *Payload
}

// UnmarshalJSON accepts either a bare URI string or a reference object.
func (r *ResourceRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Ref)
	}
	var obj struct {
		Ref      string   `json:"ref"`
		Resolved *Payload `json:"_resolved"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Ref = obj.Ref
	r.Resolved = obj.Resolved
	return nil
}

// RefString is a reference that may appear as a bare URI string or as a
// {ref} object.
type RefString struct {
	Ref string
}

// UnmarshalJSON accepts either shape.
func (r *RefString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Ref)
	}
	var obj struct {
		Ref string `json:"ref"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Ref = obj.Ref
	return nil
}

// StringList decodes a value that may be a single string or a list of
// strings. Note content and restriction type fields use both shapes.
type StringList []string

// UnmarshalJSON accepts a string, a list of strings, or null.
func (s *StringList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// LangMaterial is one entry of a record's language list.
type LangMaterial struct {
	LanguageAndScript *LanguageAndScript `json:"language_and_script"`
}

// LanguageAndScript carries a language code with its script.
type LanguageAndScript struct {
	Language string `json:"language"`
	Script   string `json:"script"`
}

// Note is a descriptive note attached to a record.
type Note struct {
	Type              string             `json:"type"`
	Publish           bool               `json:"publish"`
	Content           StringList         `json:"content"`
	Subnotes          []Subnote          `json:"subnotes"`
	RightsRestriction *RightsRestriction `json:"rights_restriction"`
}

// Subnote is one piece of a multipart note.
type Subnote struct {
	Content StringList `json:"content"`
	Publish bool       `json:"publish"`
}

// RightsRestriction carries the machine-actionable restriction attached
// to an access-restriction note.
type RightsRestriction struct {
	LocalAccessRestrictionType StringList `json:"local_access_restriction_type"`
}

// Date is one entry of a record's date list.
type Date struct {
	Expression string `json:"expression"`
	DateType   string `json:"date_type"`
	Label      string `json:"label"`
	Begin      string `json:"begin"`
	End        string `json:"end"`
}

// LinkedAgent links a record to an agent with a role.
type LinkedAgent struct {
	Role     string `json:"role"`
	Ref      string `json:"ref"`
	Resolved *Agent `json:"_resolved"`
}

// Agent is a resolved agent record.
type Agent struct {
	Names []AgentName `json:"names"`
}

// AgentName is one name form of an agent.
type AgentName struct {
	SortName      string `json:"sort_name"`
	IsDisplayName bool   `json:"is_display_name"`
}

// RightsStatement is one entry of a record's rights statement list.
type RightsStatement struct {
	RightsType string `json:"rights_type"`
}

// Instance is one entry of a record's instance list, either a digital
// object link or a physical container.
type Instance struct {
	InstanceType     string        `json:"instance_type"`
	IsRepresentative bool          `json:"is_representative"`
	CreatedBy        string        `json:"created_by"`
	LastModifiedBy   string        `json:"last_modified_by"`
	DigitalObject    *RefString    `json:"digital_object"`
	SubContainer     *SubContainer `json:"sub_container"`
}

// SubContainer holds the indicator/type descriptors below a top container.
type SubContainer struct {
	Indicator2     string           `json:"indicator_2"`
	Indicator3     string           `json:"indicator_3"`
	Type2          string           `json:"type_2"`
	Type3          string           `json:"type_3"`
	CreatedBy      string           `json:"created_by"`
	LastModifiedBy string           `json:"last_modified_by"`
	TopContainer   *TopContainerRef `json:"top_container"`
}

// TopContainerRef links a sub-container to its top container.
type TopContainerRef struct {
	Ref      string        `json:"ref"`
	Resolved *TopContainer `json:"_resolved"`
}

// TopContainer is a resolved physical container.
type TopContainer struct {
	URI                string              `json:"uri"`
	Type               string              `json:"type"`
	Indicator          string              `json:"indicator"`
	Barcode            string              `json:"barcode"`
	DisplayString      string              `json:"display_string"`
	LongDisplayString  string              `json:"long_display_string"`
	Restricted         bool                `json:"restricted"`
	CreatedBy          string              `json:"created_by"`
	LastModifiedBy     string              `json:"last_modified_by"`
	ActiveRestrictions []ActiveRestriction `json:"active_restrictions"`
	ContainerLocations []ContainerLocation `json:"container_locations"`
	Collection         []LinkedRecord      `json:"collection"`
	Series             []LinkedRecord      `json:"series"`
}

// ActiveRestrictionTypes returns the unique restriction type codes
// currently in force on the container, in first-seen order.
func (t *TopContainer) ActiveRestrictionTypes() []string {
	var types []string
	seen := make(map[string]struct{})
	for _, ar := range t.ActiveRestrictions {
		for _, code := range ar.LocalAccessRestrictionType {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			types = append(types, code)
		}
	}
	return types
}

// ActiveRestriction is one currently-in-force restriction on a container.
type ActiveRestriction struct {
	LocalAccessRestrictionType StringList `json:"local_access_restriction_type"`
}

// ContainerLocation is one entry of a top container's location history.
type ContainerLocation struct {
	Ref       string `json:"ref"`
	StartDate string `json:"start_date"`
	Note      string `json:"note"`
}

// LinkedRecord is a collection or series entry in a top container's
// lineage.
type LinkedRecord struct {
	Identifier    string `json:"identifier"`
	DisplayString string `json:"display_string"`
}

// Location is a resolved storage location.
type Location struct {
	ID       string `json:"-"`
	Title    string `json:"title"`
	Building string `json:"building"`
}
