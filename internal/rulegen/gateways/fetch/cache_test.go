package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
)

type countingFetcher struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (c *countingFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	if c.err != nil {
		return nil, c.err
	}
	return []byte(source), nil
}

func TestCached_FetchesOnce(t *testing.T) {
	next := &countingFetcher{}
	c, err := NewCached(next, 8, log.NewNoopLogger())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		b, err := c.Fetch(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, "a", string(b))
	}
	assert.Equal(t, int32(1), next.calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCached_ConcurrentCallersShareFetch(t *testing.T) {
	next := &countingFetcher{delay: 50 * time.Millisecond}
	c, err := NewCached(next, 8, log.NewNoopLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.Fetch(context.Background(), "same")
			assert.NoError(t, err)
			assert.Equal(t, "same", string(b))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCached_ErrorsNotCached(t *testing.T) {
	next := &countingFetcher{err: errors.New("boom")}
	c, err := NewCached(next, 8, log.NewNoopLogger())
	require.NoError(t, err)

	_, err = c.Fetch(context.Background(), "x")
	assert.Error(t, err)
	_, err = c.Fetch(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestCached_Eviction(t *testing.T) {
	next := &countingFetcher{}
	c, err := NewCached(next, 1, log.NewNoopLogger())
	require.NoError(t, err)

	_, _ = c.Fetch(context.Background(), "a")
	_, _ = c.Fetch(context.Background(), "b")
	_, _ = c.Fetch(context.Background(), "a")
	assert.Equal(t, int32(3), next.calls.Load())
}

func TestNewCached_InvalidSize(t *testing.T) {
	_, err := NewCached(&countingFetcher{}, 0, log.NewNoopLogger())
	assert.Error(t, err)
}
