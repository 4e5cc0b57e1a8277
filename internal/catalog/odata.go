// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pdiddy/artifact-finder/pkg/types"
)

var errUnexpectedShape = errors.New("unexpected response shape: neither d.results, d nor value present")

// odataEnvelope covers the response shapes the catalog produces. OData v2
// wraps collections as {"d":{"results":[...]}} (some services send the
// array directly under "d"); v4 uses {"value":[...]}.
type odataEnvelope struct {
	D     json.RawMessage `json:"d"`
	Value []types.Record  `json:"value"`
}

type odataResults struct {
	Results []types.Record `json:"results"`
}

// decodeRecords extracts the entity list from an OData JSON body.
func decodeRecords(body []byte) ([]types.Record, error) {
	var env odataEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parsing catalog response: %w", err)
	}

	d := bytes.TrimSpace(env.D)
	if len(d) > 0 && !bytes.Equal(d, []byte("null")) {
		if d[0] == '[' {
			var recs []types.Record
			if err := json.Unmarshal(d, &recs); err != nil {
				return nil, fmt.Errorf("parsing catalog d array: %w", err)
			}
			return nonNil(recs), nil
		}
		var res odataResults
		if err := json.Unmarshal(d, &res); err != nil {
			return nil, fmt.Errorf("parsing catalog d object: %w", err)
		}
		if res.Results == nil {
			return nil, errUnexpectedShape
		}
		return res.Results, nil
	}
	if env.Value != nil {
		return env.Value, nil
	}
	return nil, errUnexpectedShape
}

func nonNil(recs []types.Record) []types.Record {
	if recs == nil {
		return []types.Record{}
	}
	return recs
}

// quoteKey renders s as a path-safe OData string literal. s is
// path-escaped first; the quotes around it stay literal and embedded quotes
// are doubled, so "O'Brien Pkg" becomes 'O''Brien%20Pkg'.
func quoteKey(s string) string {
	// PathEscape encodes ' as %27 and % as %25, so every %27 is a quote.
	return "'" + strings.ReplaceAll(url.PathEscape(s), "%27", "''") + "'"
}
