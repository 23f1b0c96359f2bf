package analysis

import (
	"testing"

	"github.com/raphaelgruber/commnet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternsRegistry(t *testing.T) {
	ps := Patterns()
	require.Len(t, ps, 7)

	keys := make([]string, len(ps))
	for i, p := range ps {
		keys[i] = p.Key
	}
	assert.Equal(t, []string{"ALL", "Q-I", "D-C", "I-I", "I-Q", "I-D", "C-I"}, keys)

	assert.True(t, ps[0].Wildcard())
	for _, p := range ps[1:] {
		assert.False(t, p.Wildcard())
		assert.NotEqual(t, models.ActUnknown, p.Source)
		assert.NotEqual(t, models.ActUnknown, p.Target)
	}
}

func TestPatternsReturnsCopy(t *testing.T) {
	ps := Patterns()
	ps[0].Key = "mutated"
	assert.Equal(t, WildcardKey, Patterns()[0].Key)
}

func TestLookupByKeyAndLabel(t *testing.T) {
	p, ok := Lookup("D-C")
	require.True(t, ok)
	assert.Equal(t, models.ActDirective, p.Source)
	assert.Equal(t, models.ActCommitment, p.Target)

	byLabel, ok := Lookup(p.Label)
	require.True(t, ok)
	assert.Equal(t, p, byLabel)

	_, ok = Lookup("X-Y")
	assert.False(t, ok)
}

func TestResolveFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "Q-I", Resolve("nonsense").Key)
	assert.Equal(t, "C-I", Resolve("C-I").Key)
	assert.Equal(t, models.ActQuestion, Default().Source)
	assert.Equal(t, models.ActInform, Default().Target)
}
