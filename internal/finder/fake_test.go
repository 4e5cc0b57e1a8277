// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pdiddy/artifact-finder/internal/catalog"
	"github.com/pdiddy/artifact-finder/pkg/types"
)

// fakeCatalog is an in-memory Catalog with per-collection latency and
// errors. It records how many fetches started, the order they started in,
// and the highest number running at once.
type fakeCatalog struct {
	collections []types.CollectionRef
	listErr     error
	pages       map[types.CollectionRef][]types.Record
	errs        map[types.CollectionRef]error
	latency     map[types.CollectionRef]time.Duration
	// defaultLatency applies to collections missing from latency.
	defaultLatency time.Duration
	// ignoreCancel makes fetches sleep through cancellation, like a
	// transport without an abort handle.
	ignoreCancel map[types.CollectionRef]bool
	// onFetch, when set, runs at the start of every fetch.
	onFetch func(types.CollectionRef)

	flat      []types.Record
	flatErr   error
	flatLimit atomic.Int64
	flatCalls atomic.Int32

	fetches     atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu      sync.Mutex
	started []types.CollectionRef
}

// newFakeCatalog builds n collections named c1..cn, each holding two
// non-matching artifacts.
func newFakeCatalog(n int) *fakeCatalog {
	f := &fakeCatalog{
		pages:        map[types.CollectionRef][]types.Record{},
		errs:         map[types.CollectionRef]error{},
		latency:      map[types.CollectionRef]time.Duration{},
		ignoreCancel: map[types.CollectionRef]bool{},
	}
	for i := 1; i <= n; i++ {
		ref := types.CollectionRef(fmt.Sprintf("c%d", i))
		f.collections = append(f.collections, ref)
		f.pages[ref] = []types.Record{
			{"Name": fmt.Sprintf("Flow_%d", i), "Type": "IntegrationFlow"},
			{"Name": "Shared_Map", "Type": "ValueMapping"},
		}
	}
	return f
}

func (f *fakeCatalog) ref(i int) types.CollectionRef { return f.collections[i] }

// plant puts the target artifact into collection i and returns it.
func (f *fakeCatalog) plant(i int, name, typ string) types.Record {
	rec := types.Record{"Name": name, "Type": typ, "Package": string(f.ref(i))}
	f.pages[f.ref(i)] = append(f.pages[f.ref(i)], rec)
	return rec
}

func (f *fakeCatalog) ListCollections(context.Context) ([]types.CollectionRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]types.CollectionRef(nil), f.collections...), nil
}

func (f *fakeCatalog) FetchPage(ctx context.Context, ref types.CollectionRef, _ int) ([]types.Record, error) {
	f.fetches.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	f.mu.Lock()
	f.started = append(f.started, ref)
	f.mu.Unlock()
	if f.onFetch != nil {
		f.onFetch(ref)
	}

	d, ok := f.latency[ref]
	if !ok {
		d = f.defaultLatency
	}
	if d > 0 {
		if f.ignoreCancel[ref] {
			time.Sleep(d)
		} else {
			timer := time.NewTimer(d)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, &catalog.TransportError{Op: "fetch page", URL: string(ref), Err: ctx.Err()}
			}
		}
	}
	if err := f.errs[ref]; err != nil {
		return nil, err
	}
	return f.pages[ref], nil
}

func (f *fakeCatalog) FetchAllFlat(_ context.Context, limit int) ([]types.Record, error) {
	f.flatCalls.Add(1)
	f.flatLimit.Store(int64(limit))
	if f.flatErr != nil {
		return nil, f.flatErr
	}
	return f.flat, nil
}

func (f *fakeCatalog) startedOrder() []types.CollectionRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.CollectionRef(nil), f.started...)
}

// staticHints always suggests the same collection.
type staticHints struct {
	ref types.CollectionRef
	err error
}

func (h staticHints) LastCollection(context.Context, Target) (types.CollectionRef, bool, error) {
	if h.err != nil {
		return "", false, h.err
	}
	return h.ref, h.ref != "", nil
}
