// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalSetOnce(t *testing.T) {
	s := NewSignal()
	assert.False(t, s.IsSet())

	var flips atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Set() {
				flips.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), flips.Load())
	assert.True(t, s.IsSet())
	select {
	case <-s.Done():
	default:
		t.Fatal("Done channel not closed after Set")
	}
}
