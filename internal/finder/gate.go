// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Gate admits at most Capacity holders at once. Waiters are admitted in
// the order they called Acquire.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64
	held     atomic.Int64
	peak     atomic.Int64
}

// NewGate returns a Gate with capacity k. It panics if k < 1.
func NewGate(k int) *Gate {
	if k < 1 {
		panic(fmt.Sprintf("finder: gate capacity must be >= 1, got %d", k))
	}
	return &Gate{sem: semaphore.NewWeighted(int64(k)), capacity: int64(k)}
}

// Acquire blocks until a slot is free or ctx ends. On error no slot is held.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	n := g.held.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return nil
}

// Release frees a slot taken by a successful Acquire.
func (g *Gate) Release() {
	g.held.Add(-1)
	g.sem.Release(1)
}

// Capacity returns k.
func (g *Gate) Capacity() int { return int(g.capacity) }

// Held returns the number of slots currently held.
func (g *Gate) Held() int { return int(g.held.Load()) }

// Peak returns the highest number of slots held at once.
func (g *Gate) Peak() int { return int(g.peak.Load()) }
