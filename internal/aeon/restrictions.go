// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"slices"

	"go.uber.org/zap"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
)

// Built-in display messages used when the repository configures none.
const (
	defaultDisallowedLevelMessage = "Not requestable"
	defaultNoContainersMessage    = "No requestable containers"
	defaultRestrictionsMessage    = "Access restricted"
)

// containerRequestable reports whether a resolved top container can be
// requested: true iff none of its active restriction codes appear in
// the configured restricted-type list.
func containerRequestable(tc *aspace.TopContainer, restrictedTypes []string) bool {
	for _, code := range tc.ActiveRestrictionTypes() {
		if slices.Contains(restrictedTypes, code) {
			return false
		}
	}
	return true
}

// HideButton reports whether the request control should be hidden for
// this record. Checks run in order and stop at the first that trips.
func (m *RecordMapper) HideButton() bool {
	switch {
	case m.settings.HideRequestButton:
		return true
	case m.settings.HideButtonForAccessions && m.record.Kind() == aspace.TypeAccession:
		return true
	case !m.requestableByLevel():
		return true
	case !m.RecordHasTopContainers():
		return true
	case m.recordHasRestrictions():
		return true
	}
	return false
}

// RecordHasTopContainers reports whether the record is a container
// itself or resolved at least one container instance.
func (m *RecordMapper) RecordHasTopContainers() bool {
	return m.record.Kind() == aspace.TypeContainer || len(m.instances) > 0
}

// recordHasRestrictions reports whether the record is suppressed by the
// repository's restricted-type list: either one of its own restriction
// notes carries a restricted type, or no reachable top container is
// requestable. A single requestable container clears the flag. With no
// restricted types configured nothing is restricted.
func (m *RecordMapper) recordHasRestrictions() bool {
	types := m.settings.HideButtonForAccessRestrictionTypes
	if len(types) == 0 {
		return false
	}

	noteRestricted := false
	if m.payload != nil {
		for _, n := range m.payload.Notes {
			if n.Type != "accessrestrict" || n.RightsRestriction == nil {
				continue
			}
			for _, code := range n.RightsRestriction.LocalAccessRestrictionType {
				if slices.Contains(types, code) {
					noteRestricted = true
				}
			}
		}
	}

	// Instances whose top container never resolved stay out of the
	// requestability aggregate.
	hasRequestableContainer := false
	for _, inst := range m.instances {
		if inst.SubContainer == nil || inst.SubContainer.TopContainer == nil {
			continue
		}
		tc := inst.SubContainer.TopContainer.Resolved
		if tc == nil {
			continue
		}
		if containerRequestable(tc, types) {
			hasRequestableContainer = true
		}
	}

	return noteRestricted || !hasRequestableContainer
}

// requestableByLevel evaluates the record's level against the
// repository's level policy. No configured policy means every level is
// eligible.
func (m *RecordMapper) requestableByLevel() bool {
	policy := m.settings.RequestableArchivalRecordLevels
	if !policy.IsConfigured() {
		return true
	}

	level := ""
	if m.payload != nil {
		level = m.payload.Level
	}
	m.log.Debug("evaluating record level",
		zap.String("level", level),
		zap.String("kind", string(policy.Kind)),
		zap.Strings("values", policy.Values))

	return policy.Allows(level)
}

// UnrequestableMessage derives the display message explaining why the
// record cannot be requested, checking the same predicates as HideButton
// in the same order. A requestable record yields "".
func (m *RecordMapper) UnrequestableMessage() string {
	switch {
	case !m.requestableByLevel():
		return messageOr(m.settings.DisallowedRecordLevelMessage, defaultDisallowedLevelMessage)
	case !m.RecordHasTopContainers():
		return messageOr(m.settings.NoContainersMessage, defaultNoContainersMessage)
	case m.recordHasRestrictions():
		return messageOr(m.settings.RestrictionsMessage, defaultRestrictionsMessage)
	}
	return ""
}

func messageOr(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	return fallback
}
