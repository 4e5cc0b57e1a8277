// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"sync"
	"sync/atomic"
)

// Signal is a write-once flag shared by every task of one search. Once set
// it stays set; tasks read it before fetching.
type Signal struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

// NewSignal returns an unset Signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Set raises the flag. It reports true only for the call that raised it.
func (s *Signal) Set() bool {
	flipped := s.set.CompareAndSwap(false, true)
	if flipped {
		s.once.Do(func() { close(s.done) })
	}
	return flipped
}

// IsSet reports whether the flag has been raised.
func (s *Signal) IsSet() bool { return s.set.Load() }

// Done returns a channel closed when the flag is raised.
func (s *Signal) Done() <-chan struct{} { return s.done }
