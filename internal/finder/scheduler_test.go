// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTasks(t *testing.T, cat *fakeCatalog, gate *Gate, signal *Signal) []*Task {
	t.Helper()
	tasks := make([]*Task, len(cat.collections))
	for i := range cat.collections {
		tasks[i] = newTask(t, cat, i, gate, signal)
	}
	return tasks
}

func collect(t *testing.T, ch <-chan Completion) []Completion {
	t.Helper()
	var out []Completion
	timeout := time.After(5 * time.Second)
	for {
		select {
		case c, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, c)
		case <-timeout:
			t.Fatal("scheduler did not close its completion channel")
		}
	}
}

func TestSchedulerDeliversOneCompletionPerTask(t *testing.T) {
	cat := newFakeCatalog(17)
	randomLatency(cat, 3)
	signal := NewSignal()

	got := collect(t, Scheduler{Limit: 4}.Run(context.Background(), buildTasks(t, cat, NewGate(4), signal), signal))

	require.Len(t, got, 17)
	idx := make([]int, len(got))
	for i, c := range got {
		idx[i] = c.Index
		assert.Equal(t, cat.ref(c.Index), c.Outcome.Collection)
	}
	sort.Ints(idx)
	for i := range idx {
		assert.Equal(t, i, idx[i])
	}
	assert.LessOrEqual(t, int(cat.maxInFlight.Load()), 4)
}

func TestSchedulerStartsInListOrder(t *testing.T) {
	cat := newFakeCatalog(8)
	signal := NewSignal()

	collect(t, Scheduler{Limit: 1}.Run(context.Background(), buildTasks(t, cat, NewGate(1), signal), signal))

	assert.Equal(t, cat.collections, cat.startedOrder())
}

func TestSchedulerSignalSetSkipsEverything(t *testing.T) {
	cat := newFakeCatalog(5)
	signal := NewSignal()
	signal.Set()

	got := collect(t, Scheduler{Limit: 2}.Run(context.Background(), buildTasks(t, cat, NewGate(2), signal), signal))

	require.Len(t, got, 5)
	for _, c := range got {
		assert.True(t, c.Outcome.Skipped)
	}
	assert.Zero(t, cat.fetches.Load())
}

func TestSchedulerCancelledContextSkipsRemaining(t *testing.T) {
	cat := newFakeCatalog(20)
	cat.defaultLatency = time.Second
	signal := NewSignal()

	ctx, cancel := context.WithCancel(context.Background())
	ch := Scheduler{Limit: 2}.Run(ctx, buildTasks(t, cat, NewGate(2), signal), signal)
	time.Sleep(20 * time.Millisecond)
	cancel()

	got := collect(t, ch)
	require.Len(t, got, 20)
	assert.LessOrEqual(t, int(cat.fetches.Load()), 2)
}

func TestSchedulerEmpty(t *testing.T) {
	got := collect(t, Scheduler{Limit: 3}.Run(context.Background(), nil, NewSignal()))
	assert.Empty(t, got)
}

func TestSchedulerZeroLimitRunsOneAtATime(t *testing.T) {
	cat := newFakeCatalog(4)
	randomLatency(cat, 2)
	signal := NewSignal()
	tasks := buildTasks(t, cat, NewGate(1), signal)
	for _, task := range tasks {
		task.Logger = zerolog.Nop()
	}

	got := collect(t, Scheduler{}.Run(context.Background(), tasks, signal))
	assert.Len(t, got, 4)
	assert.Equal(t, int32(1), cat.maxInFlight.Load())
}
