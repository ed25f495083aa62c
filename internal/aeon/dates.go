// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Trustees of Dartmouth College

package aeon

import (
	"regexp"
	"strings"
	"time"

	"github.com/dartmouth-dltg/aeon-fulfillment/internal/aspace"
)

// dohIDPattern marks the oral-history collections whose begin/end values
// get reformatted into long date form.
var dohIDPattern = regexp.MustCompile(`(?i)doh`)

// calculateDateExpression derives a display expression for a date. An
// explicit expression wins unless the date is a bulk date; otherwise the
// begin value (single dates) or a "begin - end" range is used, with both
// ends reformatted when the resource identifier matches the oral-history
// pattern.
func calculateDateExpression(d aspace.Date, id0 string) string {
	if d.Expression != "" && d.DateType != "bulk" {
		return d.Expression
	}

	reformat := dohIDPattern.MatchString(id0)
	if d.DateType == "single" {
		if reformat {
			return reformatDate(d.Begin)
		}
		return d.Begin
	}

	if reformat {
		return reformatDate(d.Begin) + " - " + reformatDate(d.End)
	}
	return d.Begin + " - " + d.End
}

// reformatDate parses a YYYY, YYYY-MM, or YYYY-MM-DD value and renders
// it as "2006 January 2". A trailing "-" from sloppy data entry is
// tolerated. Unparsable values pass through untouched.
func reformatDate(s string) string {
	trimmed := strings.TrimSuffix(s, "-")

	var layout string
	switch strings.Count(trimmed, "-") {
	case 0:
		layout = "2006"
	case 1:
		layout = "2006-01"
	default:
		layout = "2006-01-02"
	}

	t, err := time.Parse(layout, trimmed)
	if err != nil {
		return s
	}
	return t.Format("2006 January 2")
}
