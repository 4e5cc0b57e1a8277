// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finder locates one artifact by name and type across the artifact
// lists of every catalog package. The catalog offers no cross-package query,
// so the finder fans out one fetch per package under a concurrency ceiling,
// stops at the first match, and cancels the rest.
//
// The search moves through the states Running, then Found, Exhausted or
// Aborted. Per-package fetch failures are tallied, never fatal. When the
// package list itself cannot be fetched, the finder falls back to a single
// flat artifact listing scanned in place.
package finder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/artifact-finder/pkg/types"
)

// errMatched is the cancellation cause handed to tasks still running when a
// match is declared.
var errMatched = errors.New("artifact found in another collection")

// Catalog is what the finder needs from the remote catalog.
type Catalog interface {
	PageFetcher
	ListCollections(ctx context.Context) ([]types.CollectionRef, error)
	FetchAllFlat(ctx context.Context, limit int) ([]types.Record, error)
}

// HintSource suggests the collection a target was last found in. The
// suggested collection is searched first.
type HintSource interface {
	LastCollection(ctx context.Context, t Target) (types.CollectionRef, bool, error)
}

// EnumerationError reports that the collection list could not be fetched.
type EnumerationError struct {
	Err error
}

func (e *EnumerationError) Error() string { return "enumerating collections: " + e.Err.Error() }

func (e *EnumerationError) Unwrap() error { return e.Err }

// State is the coordinator state of one search.
type State int

const (
	Running State = iota
	StateFound
	Exhausted
	Aborted
)

func (s State) String() string {
	switch s {
	case StateFound:
		return "found"
	case Exhausted:
		return "exhausted"
	case Aborted:
		return "aborted"
	default:
		return "running"
	}
}

// Result is the terminal report of one search.
type Result struct {
	SearchID   string
	State      State
	Target     Target
	Record     types.Record
	Collection types.CollectionRef

	// Total is the number of collections enumerated.
	Total int
	// Searched counts collections fetched and scanned before the search
	// reached its terminal state.
	Searched int
	// Failures counts collection fetches that failed.
	Failures int
	// Skipped counts tasks that never fetched.
	Skipped int
	// Abandoned counts tasks still outstanding when the drain gave up.
	Abandoned int

	// ViaFallback is set when the flat listing replaced enumeration.
	ViaFallback bool
	// Cause holds the cancellation cause of an aborted search.
	Cause   error
	Elapsed time.Duration
}

// Found reports whether the target was located.
func (r Result) Found() bool { return r.State == StateFound }

// Summary renders a one-line diagnostic.
func (r Result) Summary() string {
	counts := fmt.Sprintf("searched %d of %d collections, %d failures", r.Searched, r.Total, r.Failures)
	if r.ViaFallback {
		counts = fmt.Sprintf("flat fallback, %d failures", r.Failures)
	}
	switch r.State {
	case StateFound:
		where := string(r.Collection)
		if where == "" {
			where = "flat listing"
		}
		return fmt.Sprintf("found %s in %s (%s)", r.Target, where, counts)
	case Aborted:
		return fmt.Sprintf("not found: search for %s aborted: %v (%s)", r.Target, r.Cause, counts)
	default:
		return fmt.Sprintf("not found: %s (%s)", r.Target, counts)
	}
}

// Finder runs first-match searches against a Catalog.
type Finder struct {
	Catalog Catalog
	Config  types.FinderConfig
	// Hints is optional.
	Hints  HintSource
	Logger zerolog.Logger
}

// New returns a Finder over cat.
func New(cat Catalog, cfg types.FinderConfig, logger zerolog.Logger) *Finder {
	return &Finder{Catalog: cat, Config: cfg, Logger: logger}
}

// Find searches every collection for target and returns on the first match.
// Exhausted and Aborted searches are results, not errors. Find returns an
// error only when the collections cannot be enumerated and the flat fallback
// fails as well.
func (f *Finder) Find(ctx context.Context, target Target) (Result, error) {
	cfg := f.Config.WithDefaults()
	start := time.Now()
	res := Result{SearchID: uuid.NewString(), State: Running, Target: target}
	log := f.Logger.With().
		Str("search_id", res.SearchID).
		Str("name", target.Name).
		Str("type", target.Type).
		Logger()

	if cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SearchTimeout)
		defer cancel()
	}

	var err error
	refs, listErr := f.Catalog.ListCollections(ctx)
	switch {
	case listErr != nil && ctx.Err() != nil:
		res.State = Aborted
		res.Cause = context.Cause(ctx)
	case listErr != nil:
		log.Warn().Err(listErr).Msg("collection enumeration failed; falling back to flat listing")
		res, err = f.fallback(ctx, res, cfg, &EnumerationError{Err: listErr}, log)
	default:
		refs = f.applyHint(ctx, target, refs, log)
		res = f.fanOut(ctx, res, refs, cfg, log)
	}
	res.Elapsed = time.Since(start)

	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Stringer("state", res.State).
		Str("collection", res.Collection.String()).
		Int("total", res.Total).
		Int("searched", res.Searched).
		Int("failures", res.Failures).
		Int("skipped", res.Skipped).
		Int("abandoned", res.Abandoned).
		Bool("fallback", res.ViaFallback).
		Dur("elapsed", res.Elapsed).
		Msg("search finished")
	return res, err
}

// fanOut runs one task per collection and consumes completions in arrival
// order until the first match, exhaustion, or the caller's cancellation.
func (f *Finder) fanOut(ctx context.Context, res Result, refs []types.CollectionRef, cfg types.FinderConfig, log zerolog.Logger) Result {
	res.Total = len(refs)
	if len(refs) == 0 {
		res.State = Exhausted
		return res
	}

	searchCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	signal := NewSignal()
	gate := NewGate(cfg.Concurrency)
	tasks := make([]*Task, len(refs))
	for i, ref := range refs {
		tasks[i] = &Task{
			Collection: ref,
			Target:     res.Target,
			Limit:      cfg.PageLimit,
			Fetcher:    f.Catalog,
			Gate:       gate,
			Signal:     signal,
			Logger:     log,
		}
	}
	log.Debug().Int("collections", len(refs)).Int("concurrency", cfg.Concurrency).Msg("search started")

	completions := Scheduler{Limit: cfg.Concurrency}.Run(searchCtx, tasks, signal)
	received := 0
	for res.State == Running {
		select {
		case c, ok := <-completions:
			if !ok {
				// Tasks that saw the cancellation report as skipped, so a
				// closed channel alone does not mean every collection was searched.
				if ctx.Err() != nil {
					res.State = Aborted
					res.Cause = context.Cause(ctx)
				} else {
					res.State = Exhausted
				}
				continue
			}
			received++
			tally(&res, c.Outcome)
			if c.Outcome.Kind == Found {
				res.State = StateFound
				res.Record = c.Outcome.Record
				res.Collection = c.Outcome.Collection
				signal.Set()
				cancel(errMatched)
			}
		case <-ctx.Done():
			res.State = Aborted
			res.Cause = context.Cause(ctx)
			signal.Set()
			cancel(res.Cause)
		}
	}

	if res.State != Exhausted {
		received += f.drain(completions, cfg.GracePeriod, &res, log)
		res.Abandoned = len(refs) - received
	}
	return res
}

// tally folds one outcome into the running counts.
func tally(res *Result, o Outcome) {
	switch {
	case o.Skipped || o.Cancelled:
		res.Skipped++
	case o.Kind == Failed:
		res.Failures++
	default:
		res.Searched++
	}
}

// drain waits up to grace for outstanding tasks to settle. Their outcomes
// are discarded except for skip accounting. It returns how many arrived.
func (f *Finder) drain(completions <-chan Completion, grace time.Duration, res *Result, log zerolog.Logger) int {
	timer := time.NewTimer(grace)
	defer timer.Stop()

	n := 0
	for {
		select {
		case c, ok := <-completions:
			if !ok {
				return n
			}
			n++
			if c.Outcome.Skipped || c.Outcome.Cancelled {
				res.Skipped++
			}
		case <-timer.C:
			log.Warn().Dur("grace", grace).Msg("outstanding collection fetches abandoned")
			return n
		}
	}
}

// fallback scans the flat artifact listing once. It is used only when the
// collection list is unavailable, and it spawns no tasks.
func (f *Finder) fallback(ctx context.Context, res Result, cfg types.FinderConfig, enumErr *EnumerationError, log zerolog.Logger) (Result, error) {
	res.ViaFallback = true
	res.Total = 1

	records, err := f.Catalog.FetchAllFlat(ctx, cfg.FlatLimit)
	if err != nil {
		if ctx.Err() != nil {
			res.State = Aborted
			res.Cause = context.Cause(ctx)
			return res, nil
		}
		res.State = Exhausted
		res.Failures = 1
		return res, errors.Join(enumErr, fmt.Errorf("flat fallback: %w", err))
	}
	if len(records) >= cfg.FlatLimit {
		log.Warn().Int("limit", cfg.FlatLimit).Msg("flat listing reached its limit; results may be truncated")
	}

	res.Searched = 1
	if rec, ok := firstMatch(records, res.Target); ok {
		res.State = StateFound
		res.Record = rec
		return res, nil
	}
	res.State = Exhausted
	return res, nil
}

// applyHint moves the hinted collection to the front of refs. Unknown or
// failing hints leave refs unchanged.
func (f *Finder) applyHint(ctx context.Context, target Target, refs []types.CollectionRef, log zerolog.Logger) []types.CollectionRef {
	if f.Hints == nil {
		return refs
	}
	ref, ok, err := f.Hints.LastCollection(ctx, target)
	if err != nil {
		log.Debug().Err(err).Msg("hint lookup failed")
		return refs
	}
	if !ok {
		return refs
	}
	idx := slices.Index(refs, ref)
	if idx <= 0 {
		return refs
	}
	log.Debug().Str("collection", ref.String()).Msg("searching hinted collection first")
	out := make([]types.CollectionRef, 0, len(refs))
	out = append(out, ref)
	out = append(out, refs[:idx]...)
	return append(out, refs[idx+1:]...)
}
