// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"sync"
)

// Completion pairs a task's position in the work list with its outcome.
type Completion struct {
	Index   int
	Outcome Outcome
}

// Scheduler runs a list of tasks with at most Limit in progress at once.
type Scheduler struct {
	Limit int
}

// Run starts the tasks in list order and returns a channel delivering
// exactly one Completion per task, in completion order. Once signal is set
// or ctx ends, tasks not yet started are reported as skipped without
// running. The channel is buffered for every task, so workers never block
// on a reader that has gone away, and it is closed after the last delivery.
func (s Scheduler) Run(ctx context.Context, tasks []*Task, signal *Signal) <-chan Completion {
	n := len(tasks)
	out := make(chan Completion, n)
	if n == 0 {
		close(out)
		return out
	}

	workers := min(max(s.Limit, 1), n)
	queue := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				out <- Completion{Index: i, Outcome: tasks[i].Run(ctx)}
			}
		}()
	}

	skipFrom := func(i int) {
		for j := i; j < n; j++ {
			out <- Completion{Index: j, Outcome: Outcome{
				Kind:       NotFound,
				Collection: tasks[j].Collection,
				Skipped:    true,
			}}
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(queue)
		for i := range tasks {
			if signal.IsSet() || ctx.Err() != nil {
				skipFrom(i)
				return
			}
			select {
			case queue <- i:
			case <-signal.Done():
				skipFrom(i)
				return
			case <-ctx.Done():
				skipFrom(i)
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}
