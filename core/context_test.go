package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := withRunID(withSuppressHeader(context.Background()), 12345)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			runID, ok := getRunID(ctx)
			assert.True(t, shouldSuppressHeader(ctx), "goroutine %d", i)
			assert.True(t, ok, "goroutine %d", i)
			assert.Equal(t, int64(12345), runID, "goroutine %d", i)
		})
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	ctx1 := withRunID(base, 1)
	ctx2 := withRunID(base, 2)
	ctx3 := WithSuppressHeader(base)

	id1, ok1 := getRunID(ctx1)
	id2, ok2 := getRunID(ctx2)
	_, ok3 := getRunID(ctx3)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)

	assert.False(t, shouldSuppressHeader(ctx1))
	assert.True(t, shouldSuppressHeader(ctx3))
	assert.False(t, shouldSuppressHeader(base))
}
