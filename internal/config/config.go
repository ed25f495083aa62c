// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

// Package config handles aeon fulfillment configuration.
package config

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// Config represents the aeon.yaml configuration file: global frontend
// prefixes, per-repository settings keyed by lowercase repository code,
// and enumeration display-label tables.
type Config struct {
	Version             int                           `yaml:"version"`
	FrontendProxyPrefix string                        `yaml:"frontend_proxy_prefix,omitempty"`
	FrontendPrefix      string                        `yaml:"frontend_prefix,omitempty"`
	Repositories        map[string]RepositorySettings `yaml:"repositories,omitempty"`
	Enumerations        map[string]map[string]string  `yaml:"enumerations,omitempty"`
}

// RepositorySettings is the per-institution configuration block.
type RepositorySettings struct {
	AeonExternalSystemID string `yaml:"aeon_external_system_id,omitempty"`
	AeonReturnLinkLabel  string `yaml:"aeon_return_link_label,omitempty"`
	AeonSiteCode         string `yaml:"aeon_site_code,omitempty"`

	HideRequestButton                   bool     `yaml:"hide_request_button,omitempty"`
	HideButtonForAccessions             bool     `yaml:"hide_button_for_accessions,omitempty"`
	HideButtonForAccessRestrictionTypes []string `yaml:"hide_button_for_access_restriction_types,omitempty"`

	RequestableArchivalRecordLevels *ListPolicy `yaml:"requestable_archival_record_levels,omitempty"`
	UserDefinedFields               *ListPolicy `yaml:"user_defined_fields,omitempty"`

	// TopContainerMode pins container resolution to the current record;
	// the mapper will not ascend to parents looking for containers.
	TopContainerMode bool `yaml:"top_container_mode,omitempty"`

	DisallowedRecordLevelMessage string `yaml:"disallowed_record_level_message,omitempty"`
	NoContainersMessage          string `yaml:"no_containers_message,omitempty"`
	RestrictionsMessage          string `yaml:"restrictions_message,omitempty"`

	LogRecords bool `yaml:"log_records,omitempty"`
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	return nil
}

// Repository returns the settings for the given repository code. A code
// with no configured block yields the zero settings, so every policy
// falls back to its documented default.
func (c *Config) Repository(code string) RepositorySettings {
	if c == nil || c.Repositories == nil {
		return RepositorySettings{}
	}
	return c.Repositories[strings.ToLower(code)]
}

// EnumLabel returns the display label for a controlled-vocabulary code,
// or the code itself when no label is configured.
func (c *Config) EnumLabel(enumeration, code string) string {
	if c == nil {
		return code
	}
	if labels, ok := c.Enumerations[enumeration]; ok {
		if label, ok := labels[code]; ok {
			return label
		}
	}
	return code
}

// ReturnLinkPrefix returns the frontend URL prefix prepended to record
// URIs in return links: the proxy prefix when set, otherwise the plain
// prefix, otherwise empty.
func (c *Config) ReturnLinkPrefix() string {
	if c == nil {
		return ""
	}
	if c.FrontendProxyPrefix != "" {
		return c.FrontendProxyPrefix
	}
	return c.FrontendPrefix
}
