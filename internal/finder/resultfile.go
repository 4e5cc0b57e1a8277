// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/artifact-finder/pkg/types"
)

// ResultFile is the on-disk representation of one search and its outcome,
// so a lookup can be kept and reloaded without querying the catalog again.
type ResultFile struct {
	Target  ResultTarget  `yaml:"target"`
	Config  ResultConfig  `yaml:"config"`
	Outcome ResultOutcome `yaml:"outcome"`
}

// ResultTarget stores the searched (name, type).
type ResultTarget struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ResultConfig stores the settings that shaped the search.
type ResultConfig struct {
	Concurrency int `yaml:"concurrency"`
	PageLimit   int `yaml:"page_limit"`
}

// ResultOutcome stores the terminal state, the match, and the counts.
type ResultOutcome struct {
	SearchID    string        `yaml:"search_id"`
	State       string        `yaml:"state"`
	Collection  string        `yaml:"collection,omitempty"`
	Record      types.Record  `yaml:"record,omitempty"`
	Total       int           `yaml:"total"`
	Searched    int           `yaml:"searched"`
	Failures    int           `yaml:"failures"`
	Skipped     int           `yaml:"skipped"`
	ViaFallback bool          `yaml:"via_fallback,omitempty"`
	Cause       string        `yaml:"cause,omitempty"`
	Elapsed     time.Duration `yaml:"elapsed"`
	Timestamp   time.Time     `yaml:"timestamp"`
}

// WriteResultFile saves a search result to a YAML file.
func WriteResultFile(path string, res Result, cfg types.FinderConfig) error {
	cfg = cfg.WithDefaults()
	rf := ResultFile{
		Target: ResultTarget{Name: res.Target.Name, Type: res.Target.Type},
		Config: ResultConfig{Concurrency: cfg.Concurrency, PageLimit: cfg.PageLimit},
		Outcome: ResultOutcome{
			SearchID:    res.SearchID,
			State:       res.State.String(),
			Collection:  res.Collection.String(),
			Record:      res.Record,
			Total:       res.Total,
			Searched:    res.Searched,
			Failures:    res.Failures,
			Skipped:     res.Skipped,
			ViaFallback: res.ViaFallback,
			Elapsed:     res.Elapsed,
			Timestamp:   time.Now().UTC(),
		},
	}
	if res.Cause != nil {
		rf.Outcome.Cause = res.Cause.Error()
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// ToTarget converts the stored target back into a Target.
func (t ResultTarget) ToTarget() (Target, error) {
	return NewTarget(t.Name, t.Type)
}
