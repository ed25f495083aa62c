// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package config

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// ListKind selects how a ListPolicy interprets its values.
type ListKind string

// Policy kinds.
const (
	Whitelist ListKind = "whitelist"
	Blacklist ListKind = "blacklist"
)

// ListPolicy is a whitelist or blacklist of string values. Three
// configured shapes are accepted:
//
//   - true: everything allowed (a blacklist with no values)
//   - a bare list: a whitelist of those values
//   - {list_type: ..., values: [...]}: kind chosen explicitly
//
// A false or absent setting leaves the policy unconfigured; the caller
// decides what that means (see Allows callers).
type ListPolicy struct {
	Kind   ListKind
	Values []string
}

// IsConfigured reports whether a usable policy was supplied.
func (p *ListPolicy) IsConfigured() bool {
	return p != nil && p.Kind != ""
}

// Allows evaluates the candidate against the policy: membership for a
// whitelist, non-membership for a blacklist. The evaluation is pure; the
// same policy value serves the user-defined-field and record-level
// contexts identically.
func (p *ListPolicy) Allows(candidate string) bool {
	member := slices.Contains(p.Values, candidate)
	if p.Kind == Whitelist {
		return member
	}
	return !member
}

// UnmarshalYAML decodes the three accepted shapes. The explicit mapping
// form takes its values from whichever of values, fields, or levels is
// present, matching the aliases the two policy call sites historically
// used.
func (p *ListPolicy) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return fmt.Errorf("list policy must be a bool, list, or mapping: %w", err)
		}
		if enabled {
			p.Kind = Blacklist
			p.Values = nil
		}
		return nil

	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		p.Kind = Whitelist
		p.Values = values
		return nil

	case yaml.MappingNode:
		var raw struct {
			ListType string   `yaml:"list_type"`
			Values   []string `yaml:"values"`
			Fields   []string `yaml:"fields"`
			Levels   []string `yaml:"levels"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.ListType == string(Whitelist) {
			p.Kind = Whitelist
		} else {
			p.Kind = Blacklist
		}
		switch {
		case raw.Values != nil:
			p.Values = raw.Values
		case raw.Fields != nil:
			p.Values = raw.Fields
		default:
			p.Values = raw.Levels
		}
		return nil

	default:
		return fmt.Errorf("unsupported list policy node kind %d", node.Kind)
	}
}
