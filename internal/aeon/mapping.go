// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

// Package aeon maps archival record descriptions to the flat field sets
// submitted to an Aeon request-fulfillment endpoint.
package aeon

import (
	"bytes"
	"iter"
	"net/url"
	"strconv"
)

// Mapping is an ordered set of named fields. Field names are unique;
// setting an existing name replaces its value in place.
type Mapping struct {
	keys   []string
	values map[string]string
}

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]string)}
}

// Set adds or replaces a field. A replaced field keeps its original
// position.
func (m *Mapping) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// SetBool adds or replaces a boolean field as "true"/"false".
func (m *Mapping) SetBool(key string, value bool) {
	m.Set(key, strconv.FormatBool(value))
}

// Get returns a field's value and whether it is present.
func (m *Mapping) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of fields.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Merge copies every field of other into m, later values winning.
func (m *Mapping) Merge(other *Mapping) {
	if other == nil {
		return
	}
	for k, v := range other.All() {
		m.Set(k, v)
	}
}

// All iterates the fields in insertion order.
func (m *Mapping) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// EncodeForm renders the mapping as an application/x-www-form-urlencoded
// string, preserving field order. url.Values is not used because it
// sorts keys.
func (m *Mapping) EncodeForm() string {
	var buf bytes.Buffer
	for _, k := range m.keys {
		if buf.Len() > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(k))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(m.values[k]))
	}
	return buf.String()
}

// MarshalJSON renders the mapping as a JSON object in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
