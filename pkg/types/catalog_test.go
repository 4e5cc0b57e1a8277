// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordString(t *testing.T) {
	r := Record{
		"Name":    "Replicate_Invoice",
		"Version": 2.0,
		"Empty":   nil,
	}
	tests := []struct {
		field string
		want  string
	}{
		{"Name", "Replicate_Invoice"},
		{"Version", "2"},
		{"Empty", ""},
		{"Missing", ""},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, r.String(tt.field))
		})
	}
}

func TestRecordStringOr(t *testing.T) {
	r := Record{"DisplayName": ""}
	assert.Equal(t, "Unknown", r.StringOr("DisplayName", "Unknown"))
	assert.Equal(t, "N/A", r.StringOr("Version", "N/A"))
}

func TestRecordAccessors(t *testing.T) {
	r := Record{"Name": "Flow", "Type": "IntegrationFlow", "TechnicalName": " Pkg1 "}
	assert.Equal(t, "Flow", r.Name())
	assert.Equal(t, "IntegrationFlow", r.Type())
	assert.Equal(t, "Pkg1", r.TechnicalName())
}

func TestFinderConfigWithDefaults(t *testing.T) {
	got := FinderConfig{Concurrency: 4}.WithDefaults()
	assert.Equal(t, 4, got.Concurrency)
	assert.Equal(t, DefaultPageLimit, got.PageLimit)
	assert.Equal(t, DefaultFlatLimit, got.FlatLimit)
	assert.Equal(t, DefaultGracePeriod, got.GracePeriod)
	assert.Equal(t, time.Duration(0), got.SearchTimeout)
}
