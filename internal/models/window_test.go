package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeWindowContains(t *testing.T) {
	w := Window(1000, 5000)
	assert.False(t, w.Contains(999))
	assert.True(t, w.Contains(1000))
	assert.True(t, w.Contains(5000))
	assert.False(t, w.Contains(5001))

	open := FullMatch()
	assert.True(t, open.Contains(0))
	assert.True(t, open.Contains(1<<40))
}

func TestTimeWindowValid(t *testing.T) {
	assert.True(t, Window(0, 1).Valid())
	assert.False(t, Window(5, 5).Valid())
	assert.False(t, Window(6, 5).Valid())
	assert.False(t, Window(-1, 5).Valid())
	assert.True(t, FullMatch().Valid())
}

func TestTimeWindowSeconds(t *testing.T) {
	tests := []struct {
		name      string
		w         TimeWindow
		duration  int64
		wantStart int64
		wantEnd   int64
		wantOK    bool
	}{
		{"open collapses to duration", FullMatch(), 940_500, 0, 940, true},
		{"closed floors", Window(1_999, 10_999), 940_000, 1, 10, true},
		{"end past duration", Window(0, 2_000_000), 60_000, 0, 60, true},
		{"same second is empty", Window(1_100, 1_900), 60_000, 1, 1, false},
		{"inverted", Window(9_000, 3_000), 60_000, 9, 3, false},
		{"zero duration", FullMatch(), 0, 0, 0, false},
		{"negative start", Window(-1_000, 5_000), 60_000, -1, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.w.Seconds(tt.duration)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSecondsWindow(t *testing.T) {
	assert.Equal(t, Window(3_000, 11_000), SecondsWindow(3, 10))
}

func TestDecorate(t *testing.T) {
	buckets := Decorate([]SummaryBucket{{TimeIndex: 0}, {TimeIndex: 4}})
	assert.Equal(t, int64(0), buckets[0].RealTimeSec)
	assert.Equal(t, int64(40), buckets[1].RealTimeSec)
	assert.Equal(t, int64(40_000), buckets[1].Offset())
}
