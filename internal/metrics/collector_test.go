package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()

	c.Record(OpPreciseDensity, 10*time.Millisecond, nil)
	c.Record(OpPreciseDensity, 30*time.Millisecond, errors.New("boom"))

	snap := c.Snapshot()
	require.NotNil(t, snap.PreciseDensity)
	assert.Equal(t, int64(2), snap.PreciseDensity.Count)
	assert.Equal(t, int64(1), snap.PreciseDensity.Failures)
	assert.Equal(t, int64(40), snap.PreciseDensity.TotalTimeMs)
	assert.Equal(t, 20.0, snap.PreciseDensity.AvgTimeMs)
	assert.Equal(t, int64(10), snap.PreciseDensity.MinTimeMs)
	assert.Equal(t, int64(30), snap.PreciseDensity.MaxTimeMs)

	assert.Nil(t, snap.MatchLoad, "operations without data are omitted")
	assert.Nil(t, snap.PatternSummary)
}

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Inc(CounterStale)
			c.Inc(CounterDebounced)
		}()
	}
	wg.Wait()
	c.Inc(CounterSkipped)

	snap := c.Snapshot()
	assert.Equal(t, int64(50), snap.StaleResponses)
	assert.Equal(t, int64(50), snap.DebouncedResets)
	assert.Equal(t, int64(1), snap.SkippedWindows)
	assert.Equal(t, int64(0), snap.CancelledFetches)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.Record(OpMatchLoad, time.Second, nil)
	c.Inc(CounterStale)
	assert.Equal(t, Snapshot{}, c.Snapshot())
}
