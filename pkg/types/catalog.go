// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for artifact-finder: catalog
// records, collection references, and configuration.
package types

import (
	"fmt"
	"strings"
)

// Field names used by the catalog for package and artifact entries.
const (
	FieldName          = "Name"
	FieldType          = "Type"
	FieldDisplayName   = "DisplayName"
	FieldDescription   = "Description"
	FieldVersion       = "Version"
	FieldTechnicalName = "TechnicalName"
)

// CollectionRef identifies one remote collection to search. For the catalog
// this is a package's technical name.
type CollectionRef string

// String returns the reference as a plain string.
func (c CollectionRef) String() string { return string(c) }

// Record is one catalog item (package or artifact) as returned by the remote
// service, keyed by field name. Records are treated as immutable once fetched.
type Record map[string]any

// String returns the named field rendered as a string. Missing or null
// fields yield "". Non-string scalars are formatted with fmt.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// StringOr returns the named field, or fallback when it is empty.
func (r Record) StringOr(field, fallback string) string {
	if s := r.String(field); s != "" {
		return s
	}
	return fallback
}

// Name returns the artifact name field.
func (r Record) Name() string { return r.String(FieldName) }

// Type returns the artifact type field.
func (r Record) Type() string { return r.String(FieldType) }

// TechnicalName returns the package technical identifier.
func (r Record) TechnicalName() string { return strings.TrimSpace(r.String(FieldTechnicalName)) }
