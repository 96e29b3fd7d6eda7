package diagram

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMemoizesSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	cache, err := NewCache(NewCompiler(WithMetrics(rec)), 2)
	require.NoError(t, err)

	first, err := cache.Compile(phasesWithDeps)
	require.NoError(t, err)
	second, err := cache.Compile(phasesWithDeps)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, []recordedCompile{
		{"phases", OutcomeOK, 3},
		{"phases", OutcomeCacheHit, 3},
	}, rec.seen, "second call is served from the cache")
	assert.Equal(t, 1, cache.Len())
}

func TestCacheSkipsFailures(t *testing.T) {
	cache, err := NewCache(NewCompiler(), 0)
	require.NoError(t, err)

	_, err = cache.Compile("")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheEvicts(t *testing.T) {
	cache, err := NewCache(NewCompiler(), 2)
	require.NoError(t, err)

	for _, text := range []string{phasesWithDeps, phasesByName, topLevelSteps} {
		_, err := cache.Compile(text)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Len())
}

func TestCacheConcurrent(t *testing.T) {
	cache, err := NewCache(NewCompiler(), 8)
	require.NoError(t, err)

	fixtures := []string{phasesWithDeps, phasesByName, topLevelSteps, nestedWorkflowSteps, hybridPhases}
	want := make([]string, len(fixtures))
	for i, f := range fixtures {
		want[i] = mustMermaid(t, f)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, f := range fixtures {
				res, err := cache.Compile(f)
				if assert.NoError(t, err) {
					assert.Equal(t, want[i], res.Mermaid)
				}
			}
		}()
	}
	wg.Wait()
}
