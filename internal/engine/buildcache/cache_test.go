package buildcache_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weld/internal/core/domain"
	"go.trai.ch/weld/internal/engine/buildcache"
)

func TestGetOrCompute_ComputesOnce(t *testing.T) {
	c := buildcache.New()
	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("body{}"), nil
	}

	first, hit, err := c.GetOrCompute("style.css", "style.scss", compute)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.GetOrCompute("style.css", "style.scss", compute)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, buildcache.Stats{Entries: 1, Hits: 1, Misses: 1}, c.Stats())
}

func TestGetOrCompute_ReturnedContentIsACopy(t *testing.T) {
	c := buildcache.New()

	first, _, err := c.GetOrCompute("a.css", "a.scss", func() ([]byte, error) {
		return []byte("original"), nil
	})
	require.NoError(t, err)

	first[0] = 'X'

	again, ok := c.Get("a.css")
	require.True(t, ok)
	assert.Equal(t, "original", string(again))

	snap := c.Snapshot()
	snap["a.css"][0] = 'Y'
	again, _ = c.Get("a.css")
	assert.Equal(t, "original", string(again))
}

func TestGetOrCompute_ErrorsAreNotCached(t *testing.T) {
	c := buildcache.New()
	boom := errors.New("boom")

	_, _, err := c.GetOrCompute("a.css", "a.scss", func() ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	content, hit, err := c.GetOrCompute("a.css", "a.scss", func() ([]byte, error) { return []byte("ok"), nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "ok", string(content))
}

func TestGetOrCompute_ConflictingSource(t *testing.T) {
	c := buildcache.New()

	_, _, err := c.GetOrCompute("theme.css", "theme.scss", func() ([]byte, error) { return []byte("a"), nil })
	require.NoError(t, err)

	called := false
	_, _, err = c.GetOrCompute("theme.css", "theme.sass", func() ([]byte, error) {
		called = true
		return []byte("b"), nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOutputConflict))
	assert.False(t, called)

	content, _ := c.Get("theme.css")
	assert.Equal(t, "a", string(content))

	stats := c.Stats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestGetOrCompute_ConcurrentSameKey(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := buildcache.New()
		release := make(chan struct{})
		var calls atomic.Int32

		compute := func() ([]byte, error) {
			calls.Add(1)
			<-release
			return []byte("shared"), nil
		}

		var wg sync.WaitGroup
		results := make([]string, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				out, _, err := c.GetOrCompute("app.js", "app.ts", compute)
				if err == nil {
					results[i] = string(out)
				}
			}()
		}

		synctest.Wait()
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Equal(t, "shared", r)
		}
		assert.Equal(t, 1, c.Stats().Entries)
	})
}

func TestSources(t *testing.T) {
	c := buildcache.New()
	_, _, err := c.GetOrCompute("index.html", "index.html", func() ([]byte, error) { return nil, nil })
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"index.html": "index.html"}, c.Sources())
}
