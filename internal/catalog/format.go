// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/artifact-finder/pkg/types"
)

// EntrySeparator separates rendered entries in text output.
const EntrySeparator = "\n\n----------------------------------------\n\n"

// FormatPackage renders a package entry as a short text block.
func FormatPackage(r types.Record) string {
	return fmt.Sprintf("Display Name: %s\nTechnical ID: %s\nVersion: %s",
		r.StringOr(types.FieldDisplayName, "Unknown Display Name"),
		r.StringOr(types.FieldTechnicalName, "UNKNOWN_ID"),
		r.StringOr(types.FieldVersion, "N/A"))
}

// FormatArtifact renders an artifact entry as a short text block.
func FormatArtifact(r types.Record) string {
	return fmt.Sprintf("Name: %s (Type: %s, Version: %s)\nDisplay Name: %s\nDescription: %s",
		r.StringOr(types.FieldName, "Unknown"),
		r.StringOr(types.FieldType, "Unknown"),
		r.StringOr(types.FieldVersion, "N/A"),
		r.StringOr(types.FieldDisplayName, "Unknown"),
		strings.TrimSpace(r.StringOr(types.FieldDescription, "No description")))
}

// JoinEntries renders each record with format and joins them with
// EntrySeparator.
func JoinEntries(records []types.Record, format func(types.Record) string) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = format(r)
	}
	return strings.Join(parts, EntrySeparator)
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// filterContains keeps records where any of fields contains term under
// Unicode case folding.
func filterContains(records []types.Record, term string, fields ...string) []types.Record {
	fold := cases.Fold()
	needle := fold.String(term)
	var out []types.Record
	for _, r := range records {
		for _, f := range fields {
			if strings.Contains(fold.String(r.String(f)), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
