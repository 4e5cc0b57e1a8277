// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/artifact-finder/pkg/types"
)

// PageFetcher retrieves one page of records from one collection.
type PageFetcher interface {
	FetchPage(ctx context.Context, ref types.CollectionRef, limit int) ([]types.Record, error)
}

// Task searches one collection for the target. A Task runs once.
type Task struct {
	Collection types.CollectionRef
	Target     Target
	Limit      int
	Fetcher    PageFetcher
	Gate       *Gate
	Signal     *Signal
	Logger     zerolog.Logger
}

// Run checks the signal, takes a gate slot, re-checks the signal, fetches
// the collection and scans it. The slot is released on every path. A fetch
// failure is reported as Failed and never stops the search; a failure caused
// by the search being cancelled is reported as NotFound with Cancelled set.
func (t *Task) Run(ctx context.Context) Outcome {
	out := Outcome{Kind: NotFound, Collection: t.Collection}
	if t.stopped(ctx) {
		out.Skipped = true
		return out
	}

	if err := t.Gate.Acquire(ctx); err != nil {
		out.Skipped = true
		return out
	}
	defer t.Gate.Release()

	// A match may have landed while this task was queued for the gate.
	if t.stopped(ctx) {
		out.Skipped = true
		return out
	}

	records, err := t.Fetcher.FetchPage(ctx, t.Collection, t.Limit)
	if err != nil {
		if t.stopped(ctx) {
			out.Cancelled = true
			return out
		}
		out.Kind = Failed
		out.Err = err
		out.ErrKind = classify(err)
		t.Logger.Warn().Err(err).
			Str("collection", t.Collection.String()).
			Stringer("kind", out.ErrKind).
			Msg("collection fetch failed; treating as not found")
		return out
	}

	if rec, ok := firstMatch(records, t.Target); ok {
		out.Kind = Found
		out.Record = rec
		return out
	}
	t.Logger.Debug().
		Str("collection", t.Collection.String()).
		Int("records", len(records)).
		Msg("no match in collection")
	return out
}

func (t *Task) stopped(ctx context.Context) bool {
	return t.Signal.IsSet() || ctx.Err() != nil
}
