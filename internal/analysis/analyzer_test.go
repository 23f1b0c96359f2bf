package analysis

import (
	"testing"

	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	in := Input{
		Logs: []models.Utterance{
			utt(0, "I", "A"),
			utt(5, "Q", "B"),
			utt(7, "I", "A"),
		},
		Buckets: sampleBuckets(),
		Pattern: Default(),
		Window:  models.FullMatch(),
		Density: 0.35,
	}

	r := Analyze(in)

	assert.Equal(t, []int64{5, 7}, starts(r.MatchedLogs))
	assert.Equal(t, RoleVector{3, 0, 1, 1, 1}, r.Out)
	assert.Equal(t, RoleVector{0, 2, 3, 1, 0}, r.In)
	assert.Equal(t, 0.35, r.Density)
	assert.Equal(t, StateHigh, r.State)
	assert.Equal(t, "Q-I", r.Pattern.Key)
}

func TestAnalyzeEmpty(t *testing.T) {
	r := Analyze(Input{Pattern: Default(), Window: models.FullMatch()})

	assert.Empty(t, r.MatchedLogs)
	assert.Equal(t, RoleVector{}, r.Out)
	assert.Equal(t, StateSilent, r.State)
}
