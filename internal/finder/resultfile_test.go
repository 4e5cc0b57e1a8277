// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/artifact-finder/pkg/types"
)

func TestResultFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.yaml")
	res := Result{
		SearchID:   "abc",
		State:      StateFound,
		Target:     mustTarget(t, "Flow", "Script"),
		Record:     types.Record{"Name": "Flow", "Type": "Script", "Version": "1.0"},
		Collection: "Pkg7",
		Total:      9,
		Searched:   4,
		Failures:   1,
		Elapsed:    1500 * time.Millisecond,
	}
	require.NoError(t, WriteResultFile(path, res, types.FinderConfig{Concurrency: 5}))

	rf, err := ReadResultFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Flow", rf.Target.Name)
	assert.Equal(t, 5, rf.Config.Concurrency)
	assert.Equal(t, types.DefaultPageLimit, rf.Config.PageLimit)
	assert.Equal(t, "found", rf.Outcome.State)
	assert.Equal(t, "Pkg7", rf.Outcome.Collection)
	assert.Equal(t, "1.0", rf.Outcome.Record.String("Version"))
	assert.Equal(t, 1500*time.Millisecond, rf.Outcome.Elapsed)
	assert.False(t, rf.Outcome.Timestamp.IsZero())

	tg, err := rf.Target.ToTarget()
	require.NoError(t, err)
	assert.Equal(t, res.Target.Key(), tg.Key())
}

func TestResultFileRecordsCause(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aborted.yaml")
	res := Result{State: Aborted, Target: mustTarget(t, "a", "b"), Cause: context.Canceled}
	require.NoError(t, WriteResultFile(path, res, types.FinderConfig{}))

	rf, err := ReadResultFile(path)
	require.NoError(t, err)
	assert.Equal(t, "aborted", rf.Outcome.State)
	assert.Equal(t, "context canceled", rf.Outcome.Cause)
	assert.Empty(t, rf.Outcome.Collection)
}

func TestReadResultFileErrors(t *testing.T) {
	_, err := ReadResultFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("target: [unclosed"), 0o644))
	_, err = ReadResultFile(bad)
	assert.Error(t, err)
}
